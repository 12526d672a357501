package httpapi

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
)

const maxLoginBody = 16 << 10

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowed(w, http.MethodPost)
		return
	}
	var body loginBody
	r.Body = http.MaxBytesReader(w, r.Body, maxLoginBody)
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		_ = WriteJSONError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if h.auth == nil || !h.auth.ValidateCredentials(strings.TrimSpace(body.Email), body.Password) {
		_ = WriteJSONError(w, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}
	token, err := h.auth.Issue(strings.TrimSpace(body.Email))
	if err != nil {
		log.Printf("issue session failed request_id=%s err=%v", requestIDOf(r), err)
		_ = WriteJSONError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}
	h.auth.WriteCookie(w, token)
	writeOK(w)
}

func (h *handlers) logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowed(w, http.MethodPost)
		return
	}
	if h.auth != nil {
		h.auth.ClearCookie(w)
	}
	writeOK(w)
}
