package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"ufscompras/internal/observability"
)

// Messages shown by the UI when the backend cannot be reached.
const (
	MessageBackendUnavailable = "Não foi possível carregar os dados. Tente novamente."
	MessageInvalidBody        = "Corpo da requisição inválido"
	MessageNotFound           = "Não encontrado"
)

// ErrorResponse is the body of every error answer.
type ErrorResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Message: message})
}

// backendFailure logs err and answers 502 with the generic retry message.
func backendFailure(w http.ResponseWriter, r *http.Request, op string, err error) {
	observability.FromContext(r.Context()).Error("backend call failed",
		slog.String("operation", op),
		slog.String("error", err.Error()))
	writeError(w, http.StatusBadGateway, MessageBackendUnavailable)
}
