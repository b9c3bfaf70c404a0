package company

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
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

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, Event) error { return nil }

const (
	defaultListPageSize = 50
	maxListPageSize     = 200
)

// errRejected はトランザクションをロールバックさせるための内部エラーです。呼び出し元には返しません。
var errRejected = errors.New("company: upsert rejected")

// Service は会社に関するユースケースをまとめます。
type Service struct {
	repo      Repository
	validator *Validator
	clock     Clock
	tx        TransactionManager
	publisher EventPublisher
	logger    *zap.Logger
}

// UseCase は会社ユースケースの公開インターフェースです。
type UseCase interface {
	UpsertCompany(ctx context.Context, in Company) (Outcome, error)
	UpsertCompanies(ctx context.Context, in []Company) BulkReport
	GetCompany(ctx context.Context, code string) (Outcome, error)
	DeleteCompany(ctx context.Context, code string) (Outcome, error)
	ListCompanies(ctx context.Context, in ListCompaniesInput) (*ListCompaniesResult, error)
}

// Option は Service の任意設定です。
type Option func(*Service)

// WithPublisher はコミット後のイベント発行先を設定します。
func WithPublisher(p EventPublisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithLogger はロガーを設定します。
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService は Service を生成します。
func NewService(repo Repository, persons PersonStore, clock Clock, tx TransactionManager, opts ...Option) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	s := &Service{
		repo:      repo,
		validator: NewValidator(repo, persons),
		clock:     clock,
		tx:        tx,
		publisher: noopPublisher{},
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListCompaniesInput は一覧取得時の入力です。
type ListCompaniesInput struct {
	PageSize     int
	PageToken    string
	CodePrefix   string
	WithDirector *bool
}

// ListCompaniesResult は一覧取得結果を表します。
type ListCompaniesResult struct {
	Companies     []*Company
	NextPageToken string
}

// UpsertCompany は Code で既存の会社を検索し、存在すればマージ更新、なければ作成します。
// 規則違反は Rejected の Outcome として返し、error はストア障害の場合にのみ *StoreError で返却します。
func (s *Service) UpsertCompany(ctx context.Context, in Company) (Outcome, error) {
	incoming := Normalize(in)

	var (
		out   Outcome
		event EventType
	)

	err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByCode(txCtx, incoming.Code)
		if err != nil {
			if !errors.Is(err, ErrCompanyNotFound) {
				return storeError("find by code", err)
			}
			existing = nil
		}

		rejection, err := s.validator.Validate(txCtx, incoming, existing)
		if err != nil {
			return err
		}
		if rejection != nil {
			out = rejected(rejection)
			return errRejected
		}

		now := s.clock.Now()

		if existing != nil {
			merged := Merge(*existing, incoming)
			merged.UpdatedAt = now

			stored, err := s.repo.Update(txCtx, &merged)
			if err != nil {
				return s.writeFailure(&out, "update", merged, err)
			}
			out = Outcome{Kind: OutcomeUpdated, Company: stored}
			event = EventCompanyUpdated
			return nil
		}

		candidate := incoming
		candidate.ID = ""
		candidate.CreatedAt = now
		candidate.UpdatedAt = now

		stored, err := s.repo.Insert(txCtx, &candidate)
		if err != nil {
			return s.writeFailure(&out, "insert", candidate, err)
		}
		out = Outcome{Kind: OutcomeCreated, Company: stored}
		event = EventCompanyCreated
		return nil
	})
	if err != nil {
		if errors.Is(err, errRejected) {
			s.logger.Debug("company upsert rejected",
				zap.String("code", incoming.Code),
				zap.String("reason", string(out.Rejection.Reason)),
			)
			return out, nil
		}
		return Outcome{}, storeError("upsert", err)
	}

	s.publish(ctx, Event{Type: event, Code: out.Company.Code, Company: out.Company})
	return out, nil
}

// writeFailure は書き込み時の制約違反を拒否へ変換します。それ以外は *StoreError として返します。
func (s *Service) writeFailure(out *Outcome, op string, c Company, err error) error {
	switch {
	case errors.Is(err, ErrCodeAlreadyExists):
		*out = rejected(codeConflict(c.Code))
	case errors.Is(err, ErrDirectorAlreadyAssigned):
		*out = rejected(directorAlreadyAssigned(c.DirectorID, ""))
	case errors.Is(err, ErrDirectorNotFound):
		*out = rejected(directorNotFound(c.DirectorID))
	default:
		return storeError(op, err)
	}
	return errRejected
}

// GetCompany は Code で会社を部門付きで取得します。
func (s *Service) GetCompany(ctx context.Context, code string) (Outcome, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Outcome{Kind: OutcomeNotFound}, nil
	}

	var found *Company
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.FindByCodeWithDivisions(txCtx, code)
		if err != nil {
			return err
		}
		found = result
		return nil
	}); err != nil {
		if errors.Is(err, ErrCompanyNotFound) {
			return Outcome{Kind: OutcomeNotFound}, nil
		}
		return Outcome{}, storeError("find by code with divisions", err)
	}

	return Outcome{Kind: OutcomeFound, Company: found}, nil
}

// DeleteCompany は Code で会社を削除します。部門はストア側で連鎖削除されます。
func (s *Service) DeleteCompany(ctx context.Context, code string) (Outcome, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Outcome{Kind: OutcomeNotFound}, nil
	}

	var deleted bool
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		ok, err := s.repo.Delete(txCtx, code)
		if err != nil {
			return err
		}
		deleted = ok
		return nil
	}); err != nil {
		return Outcome{}, storeError("delete", err)
	}

	if !deleted {
		return Outcome{Kind: OutcomeNotFound}, nil
	}

	s.publish(ctx, Event{Type: EventCompanyDeleted, Code: code})
	return Outcome{Kind: OutcomeDeleted, Company: &Company{Code: code}}, nil
}

// ListCompanies は会社の一覧を取得します。
func (s *Service) ListCompanies(ctx context.Context, in ListCompaniesInput) (*ListCompaniesResult, error) {
	limit, err := normalizePageSize(in.PageSize)
	if err != nil {
		return nil, err
	}

	offset, err := parsePageToken(in.PageToken)
	if err != nil {
		return nil, err
	}

	var (
		companies []*Company
		nextToken string
	)

	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		resultCompanies, token, err := s.repo.List(txCtx, ListCompaniesFilter{
			Limit:        limit,
			Offset:       offset,
			CodePrefix:   strings.TrimSpace(in.CodePrefix),
			WithDirector: in.WithDirector,
		})
		if err != nil {
			return err
		}
		companies = resultCompanies
		nextToken = token
		return nil
	}); err != nil {
		return nil, storeError("list", err)
	}

	return &ListCompaniesResult{
		Companies:     companies,
		NextPageToken: nextToken,
	}, nil
}

func (s *Service) publish(ctx context.Context, event Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish company event",
			zap.String("type", string(event.Type)),
			zap.String("code", event.Code),
			zap.Error(err),
		)
	}
}

func normalizePageSize(pageSize int) (int, error) {
	if pageSize <= 0 {
		return defaultListPageSize, nil
	}
	if pageSize > maxListPageSize {
		return 0, ErrInvalidPageSize
	}
	return pageSize, nil
}

func parsePageToken(token string) (int, error) {
	if strings.TrimSpace(token) == "" {
		return 0, nil
	}

	offset, err := strconv.Atoi(token)
	if err != nil || offset < 0 {
		return 0, ErrInvalidPageToken
	}

	return offset, nil
}
