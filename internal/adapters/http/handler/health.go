package handler

import (
	"context"
	"net/http"
	"time"
)

// Pinger は依存サービスの疎通確認を行います。
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler はヘルスチェックを提供します。
type HealthHandler struct {
	db      Pinger
	timeout time.Duration
}

// NewHealthHandler は HealthHandler を生成します。
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db, timeout: 2 * time.Second}
}

// HealthResponse はヘルスチェックの応答です。
type HealthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services,omitempty"`
}

// Live は GET /health/live を処理します。
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, HealthResponse{Status: "ok"}, http.StatusOK)
}

// Ready は GET /health/ready を処理します。
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		respondJSON(w, r, HealthResponse{
			Status:   "unhealthy",
			Services: map[string]string{"database": "unhealthy: " + err.Error()},
		}, http.StatusServiceUnavailable)
		return
	}

	respondJSON(w, r, HealthResponse{
		Status:   "ok",
		Services: map[string]string{"database": "healthy"},
	}, http.StatusOK)
}
