package v1

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/KirkDiggler/dungeon-master/internal/errors"
)

// MaxBodyBytes bounds request bodies
const MaxBodyBytes = 1 << 20

// Response is the envelope every JSON endpoint answers with
type Response struct {
	Success  bool            `json:"success"`
	Data     interface{}     `json:"data,omitempty"`
	Error    string          `json:"error,omitempty"`
	Category errors.Category `json:"category,omitempty"`
	Code     errors.Code     `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Warn("failed to encode response", "error", err.Error())
	}
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, Response{Success: true, Data: data})
}

// writeError maps an error's code to the HTTP status and keeps its category
// so callers can tell a provider failure from a store failure
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	status := code.HTTPStatus()

	message := err.Error()
	if status >= http.StatusInternalServerError && code == errors.CodeInternal {
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", message)
		message = "internal server error"
	}

	writeJSON(w, status, Response{
		Success:  false,
		Error:    message,
		Category: errors.CategoryOf(err),
		Code:     code,
	})
}

// decodeJSON reads a JSON body into v. An empty body leaves v untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil
		}
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return errors.InvalidArgumentf("request body exceeds %d bytes", MaxBodyBytes)
		}
		return errors.InvalidArgumentf("invalid request body: %v", err)
	}
	return nil
}

// queryInt parses an optional integer query parameter
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.InvalidArgumentf("%s must be an integer", name)
	}
	return n, nil
}
