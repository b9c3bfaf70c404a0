package person

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

const (
	maxNationalIDLength = 20
	maxNameLength       = 100
)

// Service は人物に関するユースケースをまとめます。
type Service struct {
	repo  Repository
	clock Clock
	tx    TransactionManager
}

// UseCase は人物ユースケースの公開インターフェースです。
type UseCase interface {
	CreatePerson(ctx context.Context, in CreatePersonInput) (*Person, error)
	GetPerson(ctx context.Context, nationalID string) (*Person, error)
	DeletePerson(ctx context.Context, nationalID string) error
	ExistsByNationalID(ctx context.Context, nationalID string) (bool, error)
}

// NewService は Service を生成します。
func NewService(repo Repository, clock Clock, tx TransactionManager) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, clock: clock, tx: tx}
}

// CreatePersonInput は人物登録時の入力です。
type CreatePersonInput struct {
	NationalID string
	FirstName  string
	LastName   string
}

// CreatePerson は新しい人物を登録します。
func (s *Service) CreatePerson(ctx context.Context, in CreatePersonInput) (*Person, error) {
	nationalID, err := normalizeNationalID(in.NationalID)
	if err != nil {
		return nil, err
	}

	firstName, err := normalizeName(in.FirstName, ErrInvalidFirstName)
	if err != nil {
		return nil, err
	}

	lastName, err := normalizeName(in.LastName, ErrInvalidLastName)
	if err != nil {
		return nil, err
	}

	var created *Person
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		exists, err := s.repo.ExistsByNationalID(txCtx, nationalID)
		if err != nil {
			return err
		}
		if exists {
			return ErrNationalIDAlreadyExists
		}

		now := s.clock.Now()
		result, err := s.repo.Create(txCtx, &Person{
			NationalID: nationalID,
			FirstName:  firstName,
			LastName:   lastName,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
		if err != nil {
			return err
		}

		created = result
		return nil
	}); err != nil {
		return nil, err
	}

	return created, nil
}

// GetPerson は国民識別番号で人物を取得します。
func (s *Service) GetPerson(ctx context.Context, nationalID string) (*Person, error) {
	id, err := normalizeNationalID(nationalID)
	if err != nil {
		return nil, err
	}

	var result *Person
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindByNationalID(txCtx, id)
		if err != nil {
			return err
		}
		result = found
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// DeletePerson は人物を削除します。会社の取締役として参照されている間は ErrPersonIsDirector を返します。
func (s *Service) DeletePerson(ctx context.Context, nationalID string) error {
	id, err := normalizeNationalID(nationalID)
	if err != nil {
		return err
	}

	return s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, id)
	})
}

// ExistsByNationalID は人物が存在するかを返します。会社の取締役検証から利用されます。
func (s *Service) ExistsByNationalID(ctx context.Context, nationalID string) (bool, error) {
	id := strings.TrimSpace(nationalID)
	if id == "" {
		return false, nil
	}
	return s.repo.ExistsByNationalID(ctx, id)
}

func normalizeNationalID(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || utf8.RuneCountInString(trimmed) > maxNationalIDLength {
		return "", fmt.Errorf("national_id: %w", ErrInvalidNationalID)
	}
	return trimmed, nil
}

func normalizeName(raw string, invalid error) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || utf8.RuneCountInString(trimmed) > maxNameLength {
		return "", invalid
	}
	return trimmed, nil
}
