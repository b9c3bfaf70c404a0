package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/ogurasousui/codex-company-registry/internal/core/company"
)

// CompanyHandler は会社 API の HTTP ハンドラーです。
type CompanyHandler struct {
	svc company.UseCase
}

// NewCompanyHandler は CompanyHandler を生成します。
func NewCompanyHandler(svc company.UseCase) *CompanyHandler {
	return &CompanyHandler{svc: svc}
}

// Upsert は POST /api/companies を処理します。
func (h *CompanyHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req CompanyRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err.Error(), http.StatusBadRequest)
		return
	}

	out, err := h.svc.UpsertCompany(r.Context(), toCompany(req))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	h.respondOutcome(w, r, out)
}

// UpsertBulk は POST /api/companies/bulk を処理します。要素ごとの拒否があっても 200 を返します。
func (h *CompanyHandler) UpsertBulk(w http.ResponseWriter, r *http.Request) {
	var reqs []CompanyRequest
	if err := decodeJSON(r, &reqs); err != nil {
		respondError(w, r, err.Error(), http.StatusBadRequest)
		return
	}

	report := h.svc.UpsertCompanies(r.Context(), toCompanies(reqs))
	respondJSON(w, r, toBulkResponse(report), http.StatusOK)
}

// Get は GET /api/companies/{code} を処理します。
func (h *CompanyHandler) Get(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.GetCompany(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	h.respondOutcome(w, r, out)
}

// Delete は DELETE /api/companies/{code} を処理します。
func (h *CompanyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	out, err := h.svc.DeleteCompany(r.Context(), code)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	h.respondOutcome(w, r, out)
}

// List は GET /api/companies を処理します。
func (h *CompanyHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	in := company.ListCompaniesInput{
		PageToken:  q.Get("page_token"),
		CodePrefix: q.Get("code_prefix"),
	}

	if raw := q.Get("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, r, "page_size must be an integer", http.StatusBadRequest)
			return
		}
		in.PageSize = size
	}

	if raw := q.Get("has_director"); raw != "" {
		hasDirector, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(w, r, "has_director must be a boolean", http.StatusBadRequest)
			return
		}
		in.WithDirector = &hasDirector
	}

	result, err := h.svc.ListCompanies(r.Context(), in)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	companies := make([]CompanyResponse, 0, len(result.Companies))
	for _, c := range result.Companies {
		companies = append(companies, toCompanyResponse(c))
	}

	respondJSON(w, r, ListCompaniesResponse{Companies: companies, NextPageToken: result.NextPageToken}, http.StatusOK)
}

func (h *CompanyHandler) respondOutcome(w http.ResponseWriter, r *http.Request, out company.Outcome) {
	status := statusForOutcome(out)

	switch out.Kind {
	case company.OutcomeCreated, company.OutcomeUpdated, company.OutcomeFound:
		respondJSON(w, r, toCompanyResponse(out.Company), status)
	case company.OutcomeDeleted:
		respondJSON(w, r, DeleteResponse{Code: out.Company.Code, Message: "company deleted"}, status)
	case company.OutcomeNotFound:
		respondError(w, r, company.ErrCompanyNotFound.Error(), status)
	case company.OutcomeRejected:
		respondJSON(w, r, toRejectionResponse(out.Rejection), status)
	default:
		respondError(w, r, "internal server error", http.StatusInternalServerError)
	}
}
