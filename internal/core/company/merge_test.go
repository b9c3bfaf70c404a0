package company

import (
	"reflect"
	"testing"
	"time"
)

func storedCompany() Company {
	created := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	return Company{
		ID:         "0b6f7f2e-0000-4000-8000-000000000001",
		Code:       "C1",
		Name:       "Acme",
		DirectorID: "RC1",
		Divisions:  []Division{{Code: "D1", Name: "Sales"}},
		CreatedAt:  created,
		UpdatedAt:  created.Add(time.Hour),
	}
}

func TestMerge_EmptyIncomingIsIdentity(t *testing.T) {
	t.Parallel()

	existing := storedCompany()

	for _, incoming := range []Company{{}, {Name: "   ", DirectorID: "\t"}} {
		merged := Merge(existing, incoming)
		if !reflect.DeepEqual(merged, existing) {
			t.Fatalf("expected merge with %+v to keep existing, got %+v", incoming, merged)
		}
	}
}

func TestMerge_NeverChangesIdentity(t *testing.T) {
	t.Parallel()

	existing := storedCompany()
	incoming := Company{
		ID:        "other-id",
		Code:      "C9",
		Name:      "Renamed",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	merged := Merge(existing, incoming)

	if merged.ID != existing.ID || merged.Code != existing.Code {
		t.Fatalf("expected id and code to be immutable, got %s/%s", merged.ID, merged.Code)
	}
	if !merged.CreatedAt.Equal(existing.CreatedAt) || !merged.UpdatedAt.Equal(existing.UpdatedAt) {
		t.Fatal("expected timestamps not to be taken from incoming")
	}
	if merged.Name != "Renamed" {
		t.Fatalf("expected name overwrite, got %q", merged.Name)
	}
}

func TestMerge_Divisions(t *testing.T) {
	t.Parallel()

	existing := storedCompany()

	kept := Merge(existing, Company{Name: "x"})
	if !reflect.DeepEqual(kept.Divisions, existing.Divisions) {
		t.Fatalf("expected nil divisions to keep existing, got %+v", kept.Divisions)
	}

	replaced := Merge(existing, Company{Divisions: []Division{{Code: "D2"}, {Code: "D3"}}})
	if len(replaced.Divisions) != 2 || replaced.Divisions[0].Code != "D2" {
		t.Fatalf("expected divisions to be replaced wholesale, got %+v", replaced.Divisions)
	}

	cleared := Merge(existing, Company{Divisions: []Division{}})
	if cleared.Divisions == nil || len(cleared.Divisions) != 0 {
		t.Fatalf("expected explicit empty list to clear divisions, got %#v", cleared.Divisions)
	}
}

func TestMerge_DoesNotMutateArguments(t *testing.T) {
	t.Parallel()

	existing := storedCompany()
	incomingDivisions := []Division{{Code: "N1"}}
	incoming := Company{Name: "New", Divisions: incomingDivisions}

	merged := Merge(existing, incoming)
	merged.Divisions[0].Code = "changed"

	if existing.Name != "Acme" || existing.Divisions[0].Code != "D1" {
		t.Fatalf("existing was mutated: %+v", existing)
	}
	if incomingDivisions[0].Code != "N1" {
		t.Fatal("incoming divisions share storage with the merge result")
	}

	kept := Merge(existing, Company{})
	kept.Divisions[0].Name = "changed"
	if existing.Divisions[0].Name != "Sales" {
		t.Fatal("existing divisions share storage with the merge result")
	}
}

func TestNormalize_PreservesNilDivisions(t *testing.T) {
	t.Parallel()

	if got := Normalize(Company{Code: " C1 "}); got.Divisions != nil || got.Code != "C1" {
		t.Fatalf("unexpected normalize result: %#v", got)
	}

	if got := Normalize(Company{Divisions: []Division{}}); got.Divisions == nil {
		t.Fatal("expected empty divisions to stay non-nil")
	}
}
