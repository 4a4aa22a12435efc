package sessions

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	apperrors "github.com/mucalsync/calsync-server/internal/errors"
	"github.com/mucalsync/calsync-server/googleauth"
	"github.com/mucalsync/calsync-server/operators"
	"github.com/mucalsync/calsync-server/tokenstore"
)

// TokenRefresher mints a new access token from a stored refresh token.
type TokenRefresher interface {
	Refresh(ctx context.Context, refreshToken string) (*googleauth.TokenResult, error)
}

// Bridge reconstructs the caller's session per request from cookies alone.
// Nothing is stored server-side. It unifies the two independent identity
// mechanisms (signed operator claim, Google token cookies) into one View.
type Bridge struct {
	issuer    *Issuer
	refresher TokenRefresher
	store     *tokenstore.Store
	roles     func(name string) (operators.Role, bool)
}

func NewBridge(issuer *Issuer, refresher TokenRefresher, store *tokenstore.Store, validator *operators.Validator) *Bridge {
	return &Bridge{
		issuer:    issuer,
		refresher: refresher,
		store:     store,
		roles:     validator.RoleOf,
	}
}

// Resolve produces the combined authorization view for a request. It never
// fails: an unresolvable session is simply an unauthenticated view. Side
// effects on w: a refreshed access token cookie, or fail-closed deletion of
// rejected credentials.
func (b *Bridge) Resolve(ctx context.Context, w http.ResponseWriter, r *http.Request) View {
	view := View{}
	b.resolveOperator(w, r, &view)
	b.resolveGoogle(ctx, w, r, &view)
	return view
}

func (b *Bridge) resolveOperator(w http.ResponseWriter, r *http.Request, view *View) {
	raw, ok := b.store.OperatorClaim(r)
	if !ok {
		return
	}

	claims, err := b.issuer.Parse(raw)
	if err != nil {
		// Invalid, expired, or stale claim: force sign-out.
		if apperrors.Is(err, apperrors.ErrUnknownOperator) {
			log.Warn().Msg("session claim names an unconfigured operator, forcing sign-out")
		}
		b.store.ClearOperatorSession(w)
		return
	}

	identity := operators.Identity{Name: claims.Operator, Role: operators.Role(claims.Role)}
	if role, ok := b.roles(claims.Operator); ok {
		identity.Role = role
	}

	view.OperatorAuthenticated = true
	view.Operator = &identity
	view.Descriptors = append(view.Descriptors, OperatorSession{Identity: identity})
}

func (b *Bridge) resolveGoogle(ctx context.Context, w http.ResponseWriter, r *http.Request, view *View) {
	refreshToken, ok := b.store.RefreshToken(r)
	if !ok {
		return
	}

	if accessToken, ok := b.store.AccessToken(r); ok {
		view.GoogleAuthenticated = true
		view.AccessToken = accessToken
		view.Descriptors = append(view.Descriptors, GoogleSession{AccessToken: accessToken})
		return
	}

	// Access token cookie expired; mint a new one silently.
	result, err := b.refresher.Refresh(ctx, refreshToken)
	if err != nil || result == nil {
		// The refresh token is unusable. Fail closed: drop it so the old
		// credential is never retried without user re-authorization.
		log.Warn().Err(err).Msg("access token refresh failed, clearing google token cookies")
		b.store.ClearGoogleTokens(w)
		return
	}

	b.store.SetAccessToken(w, r, result.AccessToken, result.ExpiresIn)
	view.GoogleAuthenticated = true
	view.AccessToken = result.AccessToken
	view.Descriptors = append(view.Descriptors, GoogleSession{AccessToken: result.AccessToken})
}
