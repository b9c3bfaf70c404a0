package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/codex-company-registry/internal/core/person"
	pgdb "github.com/ogurasousui/codex-company-registry/internal/platform/db/postgres"
)

// PersonRepository は PostgreSQL を利用した人物永続化の実装です。
type PersonRepository struct {
	pool pgdb.Queryer
}

// NewPersonRepository は PersonRepository を生成します。
func NewPersonRepository(pool pgdb.Queryer) *PersonRepository {
	return &PersonRepository{pool: pool}
}

// Create は人物を登録します。
func (r *PersonRepository) Create(ctx context.Context, p *person.Person) (*person.Person, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO persons (national_id, first_name, last_name, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, national_id, first_name, last_name, created_at, updated_at
    `, p.NationalID, p.FirstName, p.LastName, p.CreatedAt, p.UpdatedAt)

	created, err := scanPerson(row)
	if err != nil {
		return nil, translatePersonPgError(err)
	}
	return created, nil
}

// FindByNationalID は国民識別番号で人物を取得します。
func (r *PersonRepository) FindByNationalID(ctx context.Context, nationalID string) (*person.Person, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT id, national_id, first_name, last_name, created_at, updated_at
          FROM persons
         WHERE national_id = $1
         LIMIT 1
    `, nationalID)

	found, err := scanPerson(row)
	if err != nil {
		return nil, translatePersonPgError(err)
	}
	return found, nil
}

// ExistsByNationalID は人物の存在を確認します。
func (r *PersonRepository) ExistsByNationalID(ctx context.Context, nationalID string) (bool, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)

	var exists bool
	if err := exec.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM persons WHERE national_id = $1)`, nationalID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Delete は人物を削除します。
func (r *PersonRepository) Delete(ctx context.Context, nationalID string) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM persons WHERE national_id = $1`, nationalID)
	if err != nil {
		return translatePersonPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return person.ErrPersonNotFound
	}
	return nil
}

func scanPerson(row pgx.Row) (*person.Person, error) {
	var (
		p                    person.Person
		createdAt, updatedAt time.Time
	)

	if err := row.Scan(&p.ID, &p.NationalID, &p.FirstName, &p.LastName, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, person.ErrPersonNotFound
		}
		return nil, err
	}

	p.CreatedAt = createdAt
	p.UpdatedAt = updatedAt
	return &p, nil
}

func translatePersonPgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case uniqueViolationCode:
		return person.ErrNationalIDAlreadyExists
	case foreignKeyViolationCode:
		if pgErr.ConstraintName == companyDirectorFKeyConstraint {
			return person.ErrPersonIsDirector
		}
	}
	return err
}
