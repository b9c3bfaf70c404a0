package person

import "context"

// Repository は人物永続化の抽象です。
type Repository interface {
	Create(ctx context.Context, person *Person) (*Person, error)
	FindByNationalID(ctx context.Context, nationalID string) (*Person, error)
	ExistsByNationalID(ctx context.Context, nationalID string) (bool, error)
	Delete(ctx context.Context, nationalID string) error
}
