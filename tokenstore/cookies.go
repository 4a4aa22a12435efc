package tokenstore

import (
	"net/http"

	"github.com/mucalsync/calsync-server/internal/config"
)

// Cookie names owned by the store. Everything here is HTTP-only and
// SameSite=Lax; the trust boundary is "delivered over the app's own origin".
const (
	RefreshTokenCookie  = "google_refresh_token"
	AccessTokenCookie   = "google_access_token"
	OperatorClaimCookie = "operator_token"
	AdminSessionCookie  = "admin_session"
	ERPSessionCookie    = "muerp_session"
	ERPUsernameCookie   = "muerp_username"
)

// Config is the slice of application configuration the store needs.
type Config interface {
	config.EnvConfig
	config.SessionConfig
}

// Store is the scoped cookie jar for OAuth tokens and session markers.
// It holds no token material itself; cookies on the request are the only
// persistence.
type Store struct {
	cfg Config
}

func New(cfg Config) *Store {
	return &Store{cfg: cfg}
}

func (s *Store) secure(r *http.Request) bool {
	if s.cfg.IsProduction() {
		return true
	}
	if r == nil {
		return false
	}
	return r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https"
}

func (s *Store) set(w http.ResponseWriter, r *http.Request, name, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

func (s *Store) clear(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// SetTokenPair persists a freshly exchanged token pair. The access token
// lives exactly as long as the provider granted; the refresh token outlives
// it, capped at the configured maximum.
func (s *Store) SetTokenPair(w http.ResponseWriter, r *http.Request, accessToken, refreshToken string, expiresIn int) {
	refreshMaxAge := int(s.cfg.GetRefreshTokenMaxAge().Seconds())
	s.set(w, r, RefreshTokenCookie, refreshToken, refreshMaxAge)
	s.SetAccessToken(w, r, accessToken, expiresIn)
}

// SetAccessToken replaces the access token cookie after a refresh. The
// lifetime is never extended beyond what the provider granted, and never
// beyond the refresh token's own lifetime.
func (s *Store) SetAccessToken(w http.ResponseWriter, r *http.Request, accessToken string, expiresIn int) {
	refreshMaxAge := int(s.cfg.GetRefreshTokenMaxAge().Seconds())
	if expiresIn > refreshMaxAge {
		expiresIn = refreshMaxAge
	}
	s.set(w, r, AccessTokenCookie, accessToken, expiresIn)
}

// ClearRefreshToken deletes the refresh token cookie. Called when the
// provider rejects the refresh token: fail closed rather than leave an
// unusable credential on the client.
func (s *Store) ClearRefreshToken(w http.ResponseWriter) {
	s.clear(w, RefreshTokenCookie)
}

// ClearGoogleTokens deletes both Google token cookies.
func (s *Store) ClearGoogleTokens(w http.ResponseWriter) {
	s.clear(w, RefreshTokenCookie)
	s.clear(w, AccessTokenCookie)
}

// SetOperatorSession persists the signed operator claim plus the
// admin_session marker flag.
func (s *Store) SetOperatorSession(w http.ResponseWriter, r *http.Request, signedClaim string) {
	maxAge := int(s.cfg.GetClaimValidity().Seconds())
	s.set(w, r, OperatorClaimCookie, signedClaim, maxAge)
	s.set(w, r, AdminSessionCookie, "true", maxAge)
}

// ClearOperatorSession removes the operator claim and marker cookies.
func (s *Store) ClearOperatorSession(w http.ResponseWriter) {
	s.clear(w, OperatorClaimCookie)
	s.clear(w, AdminSessionCookie)
}

// SetERPSession persists the upstream ERP session cookie pair for a day.
func (s *Store) SetERPSession(w http.ResponseWriter, r *http.Request, session, username string) {
	const maxAge = 24 * 60 * 60
	s.set(w, r, ERPSessionCookie, session, maxAge)
	s.set(w, r, ERPUsernameCookie, username, maxAge)
}

// RefreshToken returns the stored Google refresh token, if any.
func (s *Store) RefreshToken(r *http.Request) (string, bool) {
	return cookieValue(r, RefreshTokenCookie)
}

// AccessToken returns the stored Google access token, if any.
func (s *Store) AccessToken(r *http.Request) (string, bool) {
	return cookieValue(r, AccessTokenCookie)
}

// OperatorClaim returns the raw signed operator claim, if any.
func (s *Store) OperatorClaim(r *http.Request) (string, bool) {
	return cookieValue(r, OperatorClaimCookie)
}

func cookieValue(r *http.Request, name string) (string, bool) {
	cookie, err := r.Cookie(name)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}
