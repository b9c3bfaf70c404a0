package company

import (
	"context"
	"strings"
	"testing"
)

func TestValidator_RuleOrder(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo(newFakePersons("RC1"))
	repo.companies["HOLDER"] = &Company{ID: "1", Code: "HOLDER", DirectorID: "RC1"}
	repo.order = append(repo.order, "HOLDER")
	v := NewValidator(repo, repo.persons)

	cases := []struct {
		name     string
		incoming Company
		existing *Company
		want     Reason
	}{
		{
			name:     "missing director wins over schema",
			incoming: Company{Code: strings.Repeat("x", 30), DirectorID: "RC404"},
			want:     ReasonDirectorNotFound,
		},
		{
			name:     "assigned director wins over schema",
			incoming: Company{Code: strings.Repeat("x", 30), DirectorID: "RC1"},
			want:     ReasonDirectorAlreadyAssigned,
		},
		{
			name:     "assigned director checked on update",
			incoming: Company{Code: "OTHER", DirectorID: "RC1"},
			existing: &Company{Code: "OTHER"},
			want:     ReasonDirectorAlreadyAssigned,
		},
		{
			name:     "own director is not a conflict",
			incoming: Company{Code: "HOLDER", DirectorID: "RC1"},
			existing: &Company{Code: "HOLDER"},
		},
		{
			name:     "schema on insert",
			incoming: Company{Code: "C1", Name: strings.Repeat("n", maxNameLength+1)},
			want:     ReasonSchemaInvalid,
		},
		{
			name:     "schema skipped on update",
			incoming: Company{Code: "C1", Name: strings.Repeat("n", maxNameLength+1)},
			existing: &Company{Code: "C1"},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rejection, err := v.Validate(context.Background(), tc.incoming, tc.existing)
			if err != nil {
				t.Fatalf("Validate returned error: %v", err)
			}

			if tc.want == "" {
				if rejection != nil {
					t.Fatalf("expected no rejection, got %+v", rejection)
				}
				return
			}

			if rejection == nil || rejection.Reason != tc.want {
				t.Fatalf("expected %s, got %+v", tc.want, rejection)
			}
		})
	}
}

func TestSchemaErrors_CountsRunes(t *testing.T) {
	t.Parallel()

	ok := Company{
		Code:       strings.Repeat("č", maxCodeLength),
		Name:       strings.Repeat("ž", maxNameLength),
		DirectorID: strings.Repeat("1", maxDirectorIDLength),
		Divisions:  []Division{{Code: strings.Repeat("ř", maxDivisionCodeLength), Name: strings.Repeat("š", maxDivisionNameLength)}},
	}
	if fields := SchemaErrors(ok); fields != nil {
		t.Fatalf("expected limits to be inclusive, got %+v", fields)
	}

	bad := Company{
		Code:       "C1",
		DirectorID: strings.Repeat("1", maxDirectorIDLength+1),
		Divisions:  []Division{{Code: "D1"}, {Code: "D2", Name: strings.Repeat("š", maxDivisionNameLength+1)}},
	}
	fields := SchemaErrors(bad)
	if len(fields) != 2 || fields[0].Field != "director_id" || fields[1].Field != "divisions[1].name" {
		t.Fatalf("unexpected field errors: %+v", fields)
	}
}
