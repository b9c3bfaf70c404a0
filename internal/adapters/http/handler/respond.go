package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ogurasousui/codex-company-registry/internal/platform/logger"
	"go.uber.org/zap"
)

var errEmptyBody = errors.New("request body is required")

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return errEmptyBody
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errors.New("request body too large")
		}
		return errors.New("invalid JSON body")
	}
	return nil
}

func respondJSON(w http.ResponseWriter, r *http.Request, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.FromContext(r.Context(), nil).Warn("failed to encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, r *http.Request, message string, status int) {
	respondJSON(w, r, ErrorResponse{Error: message}, status)
}

// respondServiceError はユースケースのエラーをステータスコードへ変換して応答します。
// 内部エラーの詳細はログにのみ出力します。
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		logger.FromContext(r.Context(), nil).Error("request failed", zap.Error(err))
		respondError(w, r, "internal server error", status)
		return
	}
	respondError(w, r, err.Error(), status)
}
