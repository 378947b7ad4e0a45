package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// ErrorResponse is the error envelope for every API error.
type ErrorResponse struct {
	Error string `json:"error"`
}

// JSON writes data with the given status code.
func JSON(w http.ResponseWriter, log *zap.Logger, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Warn("encode response", zap.Error(err))
	}
}

// BadRequest writes a 400 with message.
func BadRequest(w http.ResponseWriter, log *zap.Logger, message string) {
	JSON(w, log, http.StatusBadRequest, ErrorResponse{Error: message})
}

// InternalError logs err and writes a generic 500.
func InternalError(w http.ResponseWriter, log *zap.Logger, err error) {
	log.Error("internal error", zap.Error(err))
	JSON(w, log, http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}
