//go:build integration

package integration

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	repo "github.com/ogurasousui/codex-company-registry/internal/adapters/repository/postgres"
	"github.com/ogurasousui/codex-company-registry/internal/core/company"
	"github.com/ogurasousui/codex-company-registry/internal/core/person"
	"github.com/ogurasousui/codex-company-registry/internal/platform/config"
	pg "github.com/ogurasousui/codex-company-registry/internal/platform/db/postgres"
)

const (
	migrationsDir = "../assets/migrations"
	seedsDir      = "../assets/seeds"
)

func TestCompanyUpsertIntegration(t *testing.T) {
	cfg, err := config.Load(configPathFromEnv())
	require.NoError(t, err, "failed to load config")

	require.NoError(t, resetMigrations(cfg.Database.DSN(), migrationsDir), "failed to migrate database")
	require.NoError(t, applySeeds(cfg.Database.DSN(), seedsDir), "failed to apply seeds")

	ctx := context.Background()
	pool, err := pg.NewPool(ctx, cfg.Database)
	require.NoError(t, err, "failed to create pool")
	t.Cleanup(func() { pool.Close() })

	clock := stubClock{now: time.Now().UTC().Truncate(time.Microsecond)}
	txManager := pg.NewTransactionManager(pool, pg.WithIsolationLevel(cfg.Database.IsolationLevel))
	personSvc := person.NewService(repo.NewPersonRepository(pool), clock, txManager)
	companyRepo := repo.NewCompanyRepository(pool)
	svc := company.NewService(companyRepo, personSvc, clock, txManager)

	created, err := svc.UpsertCompany(ctx, company.Company{Code: "C1", Name: "Acme"})
	require.NoError(t, err)
	require.Equal(t, company.OutcomeCreated, created.Kind)
	assert.NotEmpty(t, created.Company.ID)
	assert.Empty(t, created.Company.DirectorID)

	updated, err := svc.UpsertCompany(ctx, company.Company{Code: "C1", Name: "Acme Corp"})
	require.NoError(t, err)
	require.Equal(t, company.OutcomeUpdated, updated.Kind)
	assert.Equal(t, "Acme Corp", updated.Company.Name)
	assert.Equal(t, created.Company.ID, updated.Company.ID)

	missing, err := svc.UpsertCompany(ctx, company.Company{Code: "C2", DirectorID: "RC123"})
	require.NoError(t, err)
	require.Equal(t, company.OutcomeRejected, missing.Kind)
	assert.Equal(t, company.ReasonDirectorNotFound, missing.Rejection.Reason)
	_, err = companyRepo.FindByCode(ctx, "C2")
	assert.ErrorIs(t, err, company.ErrCompanyNotFound)

	assigned, err := svc.UpsertCompany(ctx, company.Company{Code: "C1", DirectorID: "RC999"})
	require.NoError(t, err)
	require.Equal(t, company.OutcomeUpdated, assigned.Kind)
	assert.Equal(t, "RC999", assigned.Company.DirectorID)

	taken, err := svc.UpsertCompany(ctx, company.Company{Code: "C3", DirectorID: "RC999"})
	require.NoError(t, err)
	require.Equal(t, company.OutcomeRejected, taken.Kind)
	assert.Equal(t, company.ReasonDirectorAlreadyAssigned, taken.Rejection.Reason)

	report := svc.UpsertCompanies(ctx, []company.Company{
		{Code: "C4", Name: "Globex", Divisions: []company.Division{{Code: "D1", Name: "Sales"}}},
		{Code: "C2", DirectorID: "RC123"},
	})
	assert.Equal(t, 1, report.Accepted)
	assert.Equal(t, 1, report.Rejected)
	require.Len(t, report.Rejections, 1)
	assert.Equal(t, "C2", report.Rejections[0].Code)
	assert.Equal(t, company.ReasonDirectorNotFound, report.Rejections[0].Rejection.Reason)

	found, err := svc.GetCompany(ctx, "C4")
	require.NoError(t, err)
	require.Equal(t, company.OutcomeFound, found.Kind)
	assert.Equal(t, []company.Division{{Code: "D1", Name: "Sales"}}, found.Company.Divisions)

	err = personSvc.DeletePerson(ctx, "RC999")
	assert.ErrorIs(t, err, person.ErrPersonIsDirector)

	deleted, err := svc.DeleteCompany(ctx, "C1")
	require.NoError(t, err)
	assert.Equal(t, company.OutcomeDeleted, deleted.Kind)

	reassigned, err := svc.UpsertCompany(ctx, company.Company{Code: "C3", DirectorID: "RC999"})
	require.NoError(t, err)
	assert.Equal(t, company.OutcomeCreated, reassigned.Kind)
}

func resetMigrations(dsn, dir string) error {
	m, err := migrate.New("file://"+dir, dsn)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func applySeeds(dsn, dir string) error {
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	m, err := migrate.New("file://"+dir, dsn+"&x-migrations-table=seed_migrations")
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func configPathFromEnv() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return "../assets/local.yaml"
}

type stubClock struct {
	now time.Time
}

func (s stubClock) Now() time.Time {
	return s.now
}
