package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/codex-company-registry/internal/core/person"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func TestPersonRepository_Create(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewPersonRepository(mock)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO persons (national_id, first_name, last_name, created_at, updated_at)`)).
		WithArgs("RC1", "Jana", "Novak", now, now).
		WillReturnRows(pgxmock.NewRows([]string{"id", "national_id", "first_name", "last_name", "created_at", "updated_at"}).
			AddRow("person-1", "RC1", "Jana", "Novak", now, now))

	created, err := repo.Create(context.Background(), &person.Person{
		NationalID: "RC1",
		FirstName:  "Jana",
		LastName:   "Novak",
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if created.ID != "person-1" || created.NationalID != "RC1" {
		t.Fatalf("unexpected person: %+v", created)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPersonRepository_Create_Duplicate(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewPersonRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO persons`)).
		WithArgs("RC1", "", "", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "persons_national_id_key"})

	_, err = repo.Create(context.Background(), &person.Person{NationalID: "RC1"})
	if !errors.Is(err, person.ErrNationalIDAlreadyExists) {
		t.Fatalf("expected ErrNationalIDAlreadyExists, got %v", err)
	}
}

func TestPersonRepository_ExistsByNationalID(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewPersonRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS (SELECT 1 FROM persons WHERE national_id = $1)`)).
		WithArgs("RC1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsByNationalID(context.Background(), "RC1")
	if err != nil {
		t.Fatalf("ExistsByNationalID returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected person to exist")
	}
}

func TestPersonRepository_Delete(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		setup   func(mock pgxmock.PgxPoolIface)
		wantErr error
	}{
		{
			name: "deleted",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM persons WHERE national_id = $1`)).
					WithArgs("RC1").
					WillReturnResult(pgxmock.NewResult("DELETE", 1))
			},
		},
		{
			name: "missing",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM persons`)).
					WithArgs("RC1").
					WillReturnResult(pgxmock.NewResult("DELETE", 0))
			},
			wantErr: person.ErrPersonNotFound,
		},
		{
			name: "still director",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM persons`)).
					WithArgs("RC1").
					WillReturnError(&pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: companyDirectorFKeyConstraint})
			},
			wantErr: person.ErrPersonIsDirector,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mock, err := pgxmock.NewPool()
			if err != nil {
				t.Fatalf("failed to create mock pool: %v", err)
			}
			defer mock.Close()

			tc.setup(mock)

			err = NewPersonRepository(mock).Delete(context.Background(), "RC1")
			if tc.wantErr == nil && err != nil {
				t.Fatalf("Delete returned error: %v", err)
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}
