package httpapi

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	apperrors "github.com/mnasrulloh/portfolio/internal/platform/errors"
)

const (
	msgUnauthorized       = "Unauthorized"
	msgInvalidCredentials = "Invalid credentials"
	msgInvalidBody        = "Invalid request body"
)

// WriteJSON writes a JSON response with the provided status code.
func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	if w == nil {
		return fmt.Errorf("response writer is required")
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(payload)
}

// WriteJSONError writes {"error": message} with the given status code.
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]any{"error": message})
}

// MethodNotAllowed writes a 405 response with an Allow header.
func MethodNotAllowed(w http.ResponseWriter, allow ...string) {
	w.Header().Set("Allow", strings.Join(allow, ", "))
	_ = WriteJSONError(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
}

// writeError maps err to a status and a safe message. Server-side failures
// are logged with their cause and shown as fallback.
func writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("request failed method=%s path=%s request_id=%s kind=%s err=%v",
			r.Method, r.URL.Path, requestIDOf(r), apperrors.KindOf(err), err)
	}
	_ = WriteJSONError(w, status, apperrors.PublicMessage(err, fallback))
}

func writeOK(w http.ResponseWriter) {
	_ = WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
