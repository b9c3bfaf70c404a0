package company

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"
)

const (
	maxCodeLength         = 20
	maxNameLength         = 100
	maxDirectorIDLength   = 20
	maxDivisionCodeLength = 20
	maxDivisionNameLength = 100
)

// Validator は書き込み前に会社の参照整合性とスキーマを検証します。
type Validator struct {
	companies Repository
	persons   PersonStore
}

// NewValidator は Validator を生成します。
func NewValidator(companies Repository, persons PersonStore) *Validator {
	return &Validator{companies: companies, persons: persons}
}

// Validate は規則を順に評価し、最初に違反した規則の Rejection を返します。
// existing が nil の場合のみスキーマ規則を評価します。error はストア障害の場合に限り返却されます。
func (v *Validator) Validate(ctx context.Context, incoming Company, existing *Company) (*Rejection, error) {
	if incoming.HasDirector() {
		exists, err := v.persons.ExistsByNationalID(ctx, incoming.DirectorID)
		if err != nil {
			return nil, storeError("exists person", err)
		}
		if !exists {
			return directorNotFound(incoming.DirectorID), nil
		}

		holder, err := v.companies.FindByDirector(ctx, incoming.DirectorID, incoming.Code)
		if err != nil && !errors.Is(err, ErrCompanyNotFound) {
			return nil, storeError("find by director", err)
		}
		if holder != nil {
			return directorAlreadyAssigned(incoming.DirectorID, holder.Code), nil
		}
	}

	if existing == nil {
		if fields := SchemaErrors(incoming); len(fields) > 0 {
			return schemaInvalid(fields), nil
		}
	}

	return nil, nil
}

// SchemaErrors は会社の項目単位の検証結果を返します。違反がなければ nil です。
func SchemaErrors(c Company) []FieldError {
	var fields []FieldError

	if c.Code == "" {
		fields = append(fields, FieldError{Field: "code", Message: "is required"})
	} else if utf8.RuneCountInString(c.Code) > maxCodeLength {
		fields = append(fields, tooLong("code", maxCodeLength))
	}

	if utf8.RuneCountInString(c.Name) > maxNameLength {
		fields = append(fields, tooLong("name", maxNameLength))
	}

	if utf8.RuneCountInString(c.DirectorID) > maxDirectorIDLength {
		fields = append(fields, tooLong("director_id", maxDirectorIDLength))
	}

	for i, d := range c.Divisions {
		prefix := fmt.Sprintf("divisions[%d].", i)
		if d.Code == "" {
			fields = append(fields, FieldError{Field: prefix + "code", Message: "is required"})
		} else if utf8.RuneCountInString(d.Code) > maxDivisionCodeLength {
			fields = append(fields, tooLong(prefix+"code", maxDivisionCodeLength))
		}
		if utf8.RuneCountInString(d.Name) > maxDivisionNameLength {
			fields = append(fields, tooLong(prefix+"name", maxDivisionNameLength))
		}
	}

	return fields
}

func tooLong(field string, limit int) FieldError {
	return FieldError{Field: field, Message: fmt.Sprintf("must be at most %d characters", limit)}
}
