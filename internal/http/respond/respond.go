// Package respond writes JSON bodies and maps domain errors to status codes.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MrJamesThe3rd/caixa/internal/auth"
	"github.com/MrJamesThe3rd/caixa/internal/category"
	"github.com/MrJamesThe3rd/caixa/internal/importer"
	"github.com/MrJamesThe3rd/caixa/internal/matching"
	"github.com/MrJamesThe3rd/caixa/internal/transaction"
)

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Decode reads a JSON request body into v, writing a 400 on failure.
func Decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return false
	}

	return true
}

// Error writes err with the status matching its kind. Unknown errors are logged
// and hidden behind a generic 500.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := Status(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		http.Error(w, "internal error", status)

		return
	}

	http.Error(w, err.Error(), status)
}

func Status(err error) int {
	var (
		txInvalid   *transaction.ValidationError
		authInvalid *auth.ValidationError
		catInvalid  *category.InvalidError
		mapping     *importer.MappingError
		rowErr      *importer.RowError
	)

	switch {
	case errors.As(err, &txInvalid), errors.As(err, &authInvalid), errors.As(err, &catInvalid),
		errors.As(err, &mapping), errors.As(err, &rowErr):
		return http.StatusBadRequest
	case errors.Is(err, importer.ErrUnknownFormat), errors.Is(err, importer.ErrNoHeader),
		errors.Is(err, importer.ErrEmptyFile), errors.Is(err, matching.ErrEmptyPattern):
		return http.StatusBadRequest
	case errors.Is(err, transaction.ErrNotFound), errors.Is(err, category.ErrNotFound),
		errors.Is(err, auth.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrEmailTaken), errors.Is(err, category.ErrNameTaken):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
