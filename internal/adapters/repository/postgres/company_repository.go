package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/codex-company-registry/internal/core/company"
	pgdb "github.com/ogurasousui/codex-company-registry/internal/platform/db/postgres"
)

const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"

	companyCodeConstraint         = "companies_code_key"
	companyDirectorConstraint     = "companies_director_national_id_key"
	companyDirectorFKeyConstraint = "companies_director_national_id_fkey"

	companiesTable = "companies"
	divisionsTable = "divisions"
	companyColumns = "id, code, name, director_national_id, created_at, updated_at"
)

// CompanyRepository は PostgreSQL を利用した会社永続化の実装です。
type CompanyRepository struct {
	pool    pgdb.Queryer
	builder squirrel.StatementBuilderType
}

// NewCompanyRepository は CompanyRepository を生成します。
func NewCompanyRepository(pool pgdb.Queryer) *CompanyRepository {
	return &CompanyRepository{
		pool:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

type divisionRow struct {
	Code string `db:"code"`
	Name string `db:"name"`
}

// FindByCode はコードで会社を取得します。部門は読み込みません。
func (r *CompanyRepository) FindByCode(ctx context.Context, code string) (*company.Company, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT id, code, name, director_national_id, created_at, updated_at
          FROM companies
         WHERE code = $1
         LIMIT 1
    `, code)

	found, err := scanCompany(row)
	if err != nil {
		return nil, translateCompanyPgError(err)
	}
	return found, nil
}

// FindByCodeWithDivisions はコードで会社を部門付きで取得します。
func (r *CompanyRepository) FindByCodeWithDivisions(ctx context.Context, code string) (*company.Company, error) {
	found, err := r.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	divisions, err := r.loadDivisions(ctx, found.ID)
	if err != nil {
		return nil, err
	}
	found.Divisions = divisions
	return found, nil
}

// FindByDirector は excludeCode 以外で取締役が一致する会社を取得します。
func (r *CompanyRepository) FindByDirector(ctx context.Context, directorID, excludeCode string) (*company.Company, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT id, code, name, director_national_id, created_at, updated_at
          FROM companies
         WHERE director_national_id = $1
           AND code <> $2
         LIMIT 1
    `, directorID, excludeCode)

	found, err := scanCompany(row)
	if err != nil {
		return nil, translateCompanyPgError(err)
	}
	return found, nil
}

// Insert は会社と部門を登録します。ID はデータベースが採番します。
func (r *CompanyRepository) Insert(ctx context.Context, c *company.Company) (*company.Company, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO companies (code, name, director_national_id, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, code, name, director_national_id, created_at, updated_at
    `, c.Code, c.Name, nullableString(c.DirectorID), c.CreatedAt, c.UpdatedAt)

	created, err := scanCompany(row)
	if err != nil {
		return nil, translateCompanyPgError(err)
	}

	if err := r.insertDivisions(ctx, created.ID, c.Divisions); err != nil {
		return nil, err
	}
	created.Divisions = copyDivisions(c.Divisions)
	return created, nil
}

// Update は会社情報を更新します。Divisions が nil でなければ部門を置き換えます。
func (r *CompanyRepository) Update(ctx context.Context, c *company.Company) (*company.Company, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE companies
           SET name = $1,
               director_national_id = $2,
               updated_at = $3
         WHERE code = $4
        RETURNING id, code, name, director_national_id, created_at, updated_at
    `, c.Name, nullableString(c.DirectorID), c.UpdatedAt, c.Code)

	updated, err := scanCompany(row)
	if err != nil {
		return nil, translateCompanyPgError(err)
	}

	if c.Divisions == nil {
		divisions, err := r.loadDivisions(ctx, updated.ID)
		if err != nil {
			return nil, err
		}
		updated.Divisions = divisions
		return updated, nil
	}

	if _, err := exec.Exec(ctx, `DELETE FROM divisions WHERE company_id = $1`, updated.ID); err != nil {
		return nil, translateCompanyPgError(err)
	}
	if err := r.insertDivisions(ctx, updated.ID, c.Divisions); err != nil {
		return nil, err
	}
	updated.Divisions = copyDivisions(c.Divisions)
	return updated, nil
}

// Delete はコードで会社を削除します。部門は外部キーにより連鎖削除されます。
func (r *CompanyRepository) Delete(ctx context.Context, code string) (bool, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM companies WHERE code = $1`, code)
	if err != nil {
		return false, translateCompanyPgError(err)
	}
	return tag.RowsAffected() > 0, nil
}

// List は会社の一覧をコード順に取得します。
func (r *CompanyRepository) List(ctx context.Context, filter company.ListCompaniesFilter) ([]*company.Company, string, error) {
	if filter.Limit <= 0 {
		return nil, "", company.ErrInvalidPageSize
	}
	if filter.Offset < 0 {
		return nil, "", company.ErrInvalidPageToken
	}

	q := r.builder.
		Select(companyColumns).
		From(companiesTable).
		OrderBy("code ASC").
		Limit(uint64(filter.Limit + 1)).
		Offset(uint64(filter.Offset))

	if filter.CodePrefix != "" {
		q = q.Where(squirrel.Like{"code": escapeLike(filter.CodePrefix) + "%"})
	}
	if filter.WithDirector != nil {
		if *filter.WithDirector {
			q = q.Where(squirrel.NotEq{"director_national_id": nil})
		} else {
			q = q.Where(squirrel.Eq{"director_national_id": nil})
		}
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, "", fmt.Errorf("build list query: %w", err)
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, "", translateCompanyPgError(err)
	}
	defer rows.Close()

	var companies []*company.Company
	for rows.Next() {
		found, err := scanCompany(rows)
		if err != nil {
			return nil, "", translateCompanyPgError(err)
		}
		companies = append(companies, found)
	}

	if err := rows.Err(); err != nil {
		return nil, "", translateCompanyPgError(err)
	}

	var nextToken string
	if len(companies) > filter.Limit {
		nextToken = strconv.Itoa(filter.Offset + filter.Limit)
		companies = companies[:filter.Limit]
	}

	return companies, nextToken, nil
}

func (r *CompanyRepository) loadDivisions(ctx context.Context, companyID string) ([]company.Division, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)

	var rows []divisionRow
	if err := pgxscan.Select(ctx, exec, &rows, `
        SELECT code, name
          FROM divisions
         WHERE company_id = $1
         ORDER BY position
    `, companyID); err != nil {
		return nil, fmt.Errorf("load divisions: %w", err)
	}

	divisions := make([]company.Division, 0, len(rows))
	for _, row := range rows {
		divisions = append(divisions, company.Division{Code: row.Code, Name: row.Name})
	}
	return divisions, nil
}

func (r *CompanyRepository) insertDivisions(ctx context.Context, companyID string, divisions []company.Division) error {
	if len(divisions) == 0 {
		return nil
	}

	q := r.builder.
		Insert(divisionsTable).
		Columns("company_id", "position", "code", "name")
	for i, d := range divisions {
		q = q.Values(companyID, i, d.Code, d.Name)
	}

	query, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build divisions insert: %w", err)
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	if _, err := exec.Exec(ctx, query, args...); err != nil {
		return translateCompanyPgError(err)
	}
	return nil
}

func scanCompany(row pgx.Row) (*company.Company, error) {
	var (
		id                   string
		code                 string
		name                 string
		directorID           sql.NullString
		createdAt, updatedAt time.Time
	)

	if err := row.Scan(&id, &code, &name, &directorID, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, company.ErrCompanyNotFound
		}
		return nil, err
	}

	return &company.Company{
		ID:         id,
		Code:       code,
		Name:       name,
		DirectorID: directorID.String,
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
	}, nil
}

func translateCompanyPgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case uniqueViolationCode:
		switch pgErr.ConstraintName {
		case companyDirectorConstraint:
			return company.ErrDirectorAlreadyAssigned
		case companyCodeConstraint:
			return company.ErrCodeAlreadyExists
		}
	case foreignKeyViolationCode:
		if pgErr.ConstraintName == companyDirectorFKeyConstraint {
			return company.ErrDirectorNotFound
		}
	}
	return err
}

func copyDivisions(divisions []company.Division) []company.Division {
	out := make([]company.Division, len(divisions))
	copy(out, divisions)
	return out
}

func escapeLike(value string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(value)
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
