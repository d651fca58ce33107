package errors

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

func WriteError(w http.ResponseWriter, err error) {
	appErr := AsAppError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode())

	if encErr := json.NewEncoder(w).Encode(appErr.Response()); encErr != nil {
		slog.Error("failed to encode error response", "code", appErr.Code, "error", encErr)
	}
}
