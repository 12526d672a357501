// Package session issues and verifies the signed admin session token and
// checks admin credentials.
package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// MaxAge is how long an issued session stays valid.
const MaxAge = 7 * 24 * time.Hour

var (
	// ErrMalformed indicates a token that is not payload.signature.
	ErrMalformed = errors.New("malformed session token")
	// ErrBadSignature indicates a token signed with another secret or altered.
	ErrBadSignature = errors.New("session signature mismatch")
	// ErrExpired indicates a token older than MaxAge.
	ErrExpired = errors.New("session expired")
)

// Credentials are the single admin's login.
type Credentials struct {
	Email    string
	Password string
}

// Claims is the signed token payload.
type Claims struct {
	Email    string `json:"email"`
	IssuedAt int64  `json:"issuedAt"`
}

// IssuedTime returns IssuedAt as a time.
func (c Claims) IssuedTime() time.Time {
	return time.UnixMilli(c.IssuedAt)
}

// Manager signs and checks admin sessions with one shared secret.
type Manager struct {
	secret []byte
	admin  Credentials
	secure bool
	now    func() time.Time
}

// Option customizes a Manager.
type Option func(*Manager)

// WithSecureCookies marks written cookies Secure.
func WithSecureCookies(secure bool) Option {
	return func(m *Manager) { m.secure = secure }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewManager builds a manager. An empty secret is rejected because every
// token would verify against it.
func NewManager(secret string, admin Credentials, options ...Option) (*Manager, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("session secret is required")
	}
	m := &Manager{
		secret: []byte(secret),
		admin:  admin,
		now:    time.Now,
	}
	for _, option := range options {
		if option != nil {
			option(m)
		}
	}
	return m, nil
}

// ValidateCredentials compares email and password against the configured
// admin in constant time. When either configured value is empty nobody can
// log in.
func (m *Manager) ValidateCredentials(email, password string) bool {
	if m == nil || m.admin.Email == "" || m.admin.Password == "" {
		return false
	}
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(m.admin.Email))
	passwordOK := subtle.ConstantTimeCompare([]byte(password), []byte(m.admin.Password))
	return emailOK&passwordOK == 1
}

// Issue returns a signed token for email stamped with the current time.
func (m *Manager) Issue(email string) (string, error) {
	payload, err := json.Marshal(Claims{Email: email, IssuedAt: m.now().UnixMilli()})
	if err != nil {
		return "", err
	}
	encoded := base64.RawURLEncoding.EncodeToString(payload)
	return encoded + "." + m.sign(encoded), nil
}

// Verify checks the signature, decodes the payload and enforces MaxAge.
func (m *Manager) Verify(token string) (Claims, error) {
	encoded, signature, ok := strings.Cut(strings.TrimSpace(token), ".")
	if !ok || encoded == "" || signature == "" || strings.Contains(signature, ".") {
		return Claims{}, ErrMalformed
	}
	expected := m.sign(encoded)
	if subtle.ConstantTimeCompare([]byte(signature), []byte(expected)) != 1 {
		return Claims{}, ErrBadSignature
	}
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return Claims{}, ErrMalformed
	}
	var claims Claims
	if err := json.Unmarshal(raw, &claims); err != nil || claims.Email == "" || claims.IssuedAt <= 0 {
		return Claims{}, ErrMalformed
	}
	if m.now().Sub(claims.IssuedTime()) > MaxAge {
		return Claims{}, ErrExpired
	}
	return claims, nil
}

func (m *Manager) sign(encoded string) string {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(encoded))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
