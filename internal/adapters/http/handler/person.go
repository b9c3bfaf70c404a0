package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ogurasousui/codex-company-registry/internal/core/person"
)

// PersonHandler は人物 API の HTTP ハンドラーです。
type PersonHandler struct {
	svc person.UseCase
}

// NewPersonHandler は PersonHandler を生成します。
func NewPersonHandler(svc person.UseCase) *PersonHandler {
	return &PersonHandler{svc: svc}
}

// Create は POST /api/persons を処理します。
func (h *PersonHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req PersonRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.svc.CreatePerson(r.Context(), person.CreatePersonInput{
		NationalID: req.NationalID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, r, toPersonResponse(created), http.StatusCreated)
}

// Get は GET /api/persons/{nationalID} を処理します。
func (h *PersonHandler) Get(w http.ResponseWriter, r *http.Request) {
	found, err := h.svc.GetPerson(r.Context(), chi.URLParam(r, "nationalID"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, r, toPersonResponse(found), http.StatusOK)
}

// Delete は DELETE /api/persons/{nationalID} を処理します。
func (h *PersonHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeletePerson(r.Context(), chi.URLParam(r, "nationalID")); err != nil {
		respondServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
