package session

import (
	"net/http"
	"strings"
)

// CookieName is the admin session cookie.
const CookieName = "admin_session"

// ReadCookie returns the trimmed session cookie value when present.
func ReadCookie(r *http.Request) (string, bool) {
	if r == nil {
		return "", false
	}
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie == nil {
		return "", false
	}
	value := strings.TrimSpace(cookie.Value)
	if value == "" {
		return "", false
	}
	return value, true
}

// Authenticate returns the verified claims carried by the request cookie.
func (m *Manager) Authenticate(r *http.Request) (Claims, bool) {
	if m == nil {
		return Claims{}, false
	}
	token, ok := ReadCookie(r)
	if !ok {
		return Claims{}, false
	}
	claims, err := m.Verify(token)
	if err != nil {
		return Claims{}, false
	}
	return claims, true
}

// IsAuthenticated reports whether the request carries a valid session.
func (m *Manager) IsAuthenticated(r *http.Request) bool {
	_, ok := m.Authenticate(r)
	return ok
}

// WriteCookie sets the session cookie.
func (m *Manager) WriteCookie(w http.ResponseWriter, token string) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   m != nil && m.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(MaxAge.Seconds()),
	})
}

// ClearCookie expires the session cookie.
func (m *Manager) ClearCookie(w http.ResponseWriter) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   m != nil && m.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
