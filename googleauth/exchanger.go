package googleauth

import (
	"context"
	"sync"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/mucalsync/calsync-server/internal/config"
	apperrors "github.com/mucalsync/calsync-server/internal/errors"
)

// OAuth scopes requested from Google. Calendar read/write plus the email
// scopes needed for the post-exchange profile fetch.
var googleScopes = []string{
	"https://www.googleapis.com/auth/calendar",
	"https://www.googleapis.com/auth/userinfo.email",
	oidc.ScopeOpenID,
}

// TokenResult is the outcome of a successful exchange or refresh.
type TokenResult struct {
	AccessToken  string
	RefreshToken string
	Email        string
	// ExpiresIn is the access token lifetime in seconds as granted by the
	// provider. Cookie max-age derives from this, never from a constant.
	ExpiresIn int
}

// Exchanger drives the authorization-code and refresh-token grants against
// Google's token endpoint, discovered through OIDC.
type Exchanger struct {
	cfg     config.GoogleConfig
	nowTime func() time.Time

	mu       sync.Mutex
	provider *oidc.Provider
	oauthCfg *oauth2.Config
}

// ExchangerOption modifies an Exchanger instance.
type ExchangerOption func(*Exchanger)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ExchangerOption {
	return func(e *Exchanger) {
		e.nowTime = nowFunc
	}
}

func NewExchanger(cfg config.GoogleConfig, options ...ExchangerOption) *Exchanger {
	e := &Exchanger{
		cfg:     cfg,
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(e)
	}
	return e
}

// setup performs OIDC discovery against the configured issuer. The result is
// cached on success only, so a transient discovery failure is retried on the
// next request rather than pinning the process to a dead endpoint.
func (e *Exchanger) setup(ctx context.Context) (*oauth2.Config, *oidc.Provider, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.oauthCfg != nil {
		return e.oauthCfg, e.provider, nil
	}

	provider, err := oidc.NewProvider(ctx, e.cfg.GetGoogleIssuer())
	if err != nil {
		return nil, nil, errors.Wrap(err, "[Exchanger.setup] oidc.NewProvider")
	}

	e.provider = provider
	e.oauthCfg = &oauth2.Config{
		ClientID:     e.cfg.GetGoogleClientID(),
		ClientSecret: e.cfg.GetGoogleClientSecret(),
		Endpoint:     provider.Endpoint(),
		RedirectURL:  e.cfg.GetGoogleRedirectURI(),
		Scopes:       googleScopes,
	}

	return e.oauthCfg, e.provider, nil
}

// AuthCodeURL builds the Google authorization URL opened in the popup.
// access_type=offline and prompt=consent force a refresh token on every
// grant. The flow carries no state parameter or PKCE; see DESIGN.md.
func (e *Exchanger) AuthCodeURL(ctx context.Context) (string, error) {
	cfg, _, err := e.setup(ctx)
	if err != nil {
		return "", errors.Wrap(err, "[Exchanger.AuthCodeURL] setup")
	}
	return cfg.AuthCodeURL("",
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	), nil
}

// Exchange trades an authorization code for a token pair, then fetches the
// authenticated user's profile email with the token just obtained. The
// userinfo round trip happens strictly after a successful exchange and is
// never attempted with a cached token.
func (e *Exchanger) Exchange(ctx context.Context, code string) (*TokenResult, error) {
	if code == "" {
		return nil, apperrors.ErrMissingCode
	}

	cfg, provider, err := e.setup(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "[Exchanger.Exchange] setup")
	}

	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		logRetrieveError("code exchange", err)
		return nil, errors.Wrap(apperrors.ErrExchangeFailed, err.Error())
	}

	userInfo, err := provider.UserInfo(ctx, oauth2.StaticTokenSource(tok))
	if err != nil {
		logRetrieveError("userinfo fetch", err)
		return nil, errors.Wrap(apperrors.ErrExchangeFailed, err.Error())
	}

	return &TokenResult{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		Email:        userInfo.Email,
		ExpiresIn:    e.expiresIn(tok),
	}, nil
}

// Refresh mints a new access token from a previously stored refresh token.
// A provider rejection (invalid_grant and friends) maps to
// ErrRefreshTokenInvalid so callers can fail closed and drop the credential.
func (e *Exchanger) Refresh(ctx context.Context, refreshToken string) (*TokenResult, error) {
	if refreshToken == "" {
		return nil, apperrors.ErrRefreshTokenInvalid
	}

	cfg, _, err := e.setup(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "[Exchanger.Refresh] setup")
	}

	tok, err := cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		logRetrieveError("token refresh", err)
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return nil, errors.Wrap(apperrors.ErrRefreshTokenInvalid, retrieveErr.ErrorCode)
		}
		return nil, errors.Wrap(err, "[Exchanger.Refresh] token request")
	}

	return &TokenResult{
		AccessToken:  tok.AccessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    e.expiresIn(tok),
	}, nil
}

// expiresIn recovers the provider-granted lifetime in whole seconds from the
// token expiry, rounding away clock skew accumulated since the response.
func (e *Exchanger) expiresIn(tok *oauth2.Token) int {
	if tok.Expiry.IsZero() {
		return 0
	}
	remaining := tok.Expiry.Sub(e.nowTime())
	return int((remaining + time.Second/2) / time.Second)
}

// logRetrieveError logs upstream OAuth failures with provider detail. The
// detail stays server-side; callers surface only generic outcomes.
func logRetrieveError(op string, err error) {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		log.Error().
			Str("operation", op).
			Int("status", retrieveErr.Response.StatusCode).
			Str("oauth_error", retrieveErr.ErrorCode).
			Msg("google oauth request rejected")
		return
	}
	log.Error().Str("operation", op).Err(err).Msg("google oauth request failed")
}
