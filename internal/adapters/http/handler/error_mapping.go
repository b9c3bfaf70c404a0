package handler

import (
	"errors"
	"net/http"

	"github.com/ogurasousui/codex-company-registry/internal/core/company"
	"github.com/ogurasousui/codex-company-registry/internal/core/person"
)

func statusForOutcome(out company.Outcome) int {
	switch out.Kind {
	case company.OutcomeCreated:
		return http.StatusCreated
	case company.OutcomeUpdated, company.OutcomeFound, company.OutcomeDeleted:
		return http.StatusOK
	case company.OutcomeNotFound:
		return http.StatusNotFound
	case company.OutcomeRejected:
		return statusForRejection(out.Rejection)
	default:
		return http.StatusInternalServerError
	}
}

func statusForRejection(r *company.Rejection) int {
	if r == nil {
		return http.StatusInternalServerError
	}
	switch r.Class {
	case company.ClassBadRequest:
		return http.StatusBadRequest
	case company.ClassConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, company.ErrInvalidPageSize),
		errors.Is(err, company.ErrInvalidPageToken),
		errors.Is(err, person.ErrInvalidNationalID),
		errors.Is(err, person.ErrInvalidFirstName),
		errors.Is(err, person.ErrInvalidLastName):
		return http.StatusBadRequest
	case errors.Is(err, person.ErrNationalIDAlreadyExists),
		errors.Is(err, person.ErrPersonIsDirector):
		return http.StatusConflict
	case errors.Is(err, person.ErrPersonNotFound),
		errors.Is(err, company.ErrCompanyNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
