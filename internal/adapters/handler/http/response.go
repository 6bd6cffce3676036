package http

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/vncsmyrnk/bookswap/internal/core/domain"
)

const msgSomethingWentWrong = "Something went wrong"

type envelope struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respond(w http.ResponseWriter, status int, data any, message string) {
	if data == nil {
		data = struct{}{}
	}
	writeJSON(w, status, envelope{StatusCode: status, Data: data, Message: message, Success: true})
}

func respondFailure(w http.ResponseWriter, status int, data any, message string) {
	if data == nil {
		data = struct{}{}
	}
	writeJSON(w, status, envelope{StatusCode: status, Data: data, Message: message, Success: false})
}

// respondError renders domain errors with their own status and message.
// Anything else is logged and hidden behind a generic 500.
func respondError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	if derr, ok := domain.AsError(err); ok && derr.Code != domain.CodeInternal {
		respondFailure(w, derr.HTTPStatus(), derr.Details, derr.Message)
		return
	}

	log.Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	respondFailure(w, http.StatusInternalServerError, nil, msgSomethingWentWrong)
}
