package company

import "context"

// Repository は会社エンティティの永続化を行うインターフェースです。
type Repository interface {
	FindByCode(ctx context.Context, code string) (*Company, error)
	FindByCodeWithDivisions(ctx context.Context, code string) (*Company, error)
	// FindByDirector は excludeCode 以外で directorID を取締役とする会社を返します。
	FindByDirector(ctx context.Context, directorID, excludeCode string) (*Company, error)
	Insert(ctx context.Context, company *Company) (*Company, error)
	Update(ctx context.Context, company *Company) (*Company, error)
	Delete(ctx context.Context, code string) (bool, error)
	List(ctx context.Context, filter ListCompaniesFilter) ([]*Company, string, error)
}

// PersonStore は取締役の存在確認に利用する人物ストアです。
type PersonStore interface {
	ExistsByNationalID(ctx context.Context, nationalID string) (bool, error)
}

// EventType は会社イベントの種別です。
type EventType string

const (
	EventCompanyCreated EventType = "company.created"
	EventCompanyUpdated EventType = "company.updated"
	EventCompanyDeleted EventType = "company.deleted"
)

// Event はコミット後に発行される会社イベントです。
type Event struct {
	Type    EventType
	Code    string
	Company *Company
}

// EventPublisher は会社イベントの発行先です。
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// ListCompaniesFilter は一覧取得時の検索条件を表します。
type ListCompaniesFilter struct {
	Limit        int
	Offset       int
	CodePrefix   string
	WithDirector *bool
}
