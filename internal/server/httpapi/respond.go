package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/gophjournal/internal/common"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Error string `json:"error"`
}

type successBody struct {
	Success bool `json:"success"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// statusFor maps a service error onto an HTTP status. The message is safe
// to show to the client; internal failures get a generic one.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, common.ErrorConflict):
		return http.StatusConflict, err.Error()
	case errors.Is(err, common.ErrNotConfigured):
		return http.StatusNotImplemented, err.Error()
	default:
		return http.StatusInternalServerError, "Internal Server Error"
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := statusFor(err)
	if status == http.StatusInternalServerError {
		s.Logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, errorBody{Error: msg})
}

func badRequest(msg string) error {
	return &requestError{msg: msg}
}

// requestError is a malformed request caught by the transport itself.
type requestError struct{ msg string }

func (e *requestError) Error() string { return e.msg }
func (e *requestError) Unwrap() error { return common.ErrorValidation }

// decodeJSON reads a JSON object from r's body into dst. An empty body
// leaves dst untouched. Unknown fields are ignored so that older clients
// sending extra keys keep working.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return badRequest("validation error: malformed JSON body")
	}
	return nil
}

var (
	errExportDisabled = fmt.Errorf("export: %w", common.ErrNotConfigured)
	errFeedDisabled   = fmt.Errorf("live feed: %w", common.ErrNotConfigured)
)
