package sessions

import (
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/mucalsync/calsync-server/internal/config"
	apperrors "github.com/mucalsync/calsync-server/internal/errors"
	"github.com/mucalsync/calsync-server/operators"
)

const claimIssuer = "mucalsync"

// Claims is the signed, time-boxed assertion of operator identity stored
// client-side. Validity is fixed at issuance; it does not slide.
type Claims struct {
	Operator string `json:"operator"`
	Role     string `json:"role"`
	jwtlib.RegisteredClaims
}

// OperatorDirectory answers whether a claimed operator name is still one of
// the configured accounts. A claim that names anyone else is stale (the
// username was rotated) and must be treated as invalid even with a good
// signature.
type OperatorDirectory interface {
	KnownOperator(name string) bool
}

// Issuer creates and validates operator session claims.
type Issuer struct {
	secret    []byte
	validity  time.Duration
	directory OperatorDirectory
	nowTime   func() time.Time
}

// IssuerOption modifies an Issuer instance.
type IssuerOption func(*Issuer)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) IssuerOption {
	return func(i *Issuer) {
		i.nowTime = nowFunc
	}
}

func NewIssuer(cfg config.SessionConfig, directory OperatorDirectory, options ...IssuerOption) (*Issuer, error) {
	if cfg.GetSessionSecret() == "" {
		return nil, errors.Wrap(apperrors.ErrConfigMissing, "[NewIssuer] session secret")
	}
	if directory == nil {
		return nil, errors.New("[NewIssuer] operator directory is required")
	}

	issuer := &Issuer{
		secret:    []byte(cfg.GetSessionSecret()),
		validity:  cfg.GetClaimValidity(),
		directory: directory,
		nowTime:   time.Now,
	}
	for _, opt := range options {
		opt(issuer)
	}
	return issuer, nil
}

// Issue signs a fresh claim for the given operator identity. HS256 is
// sufficient: the claim is issued and consumed by the same process.
func (i *Issuer) Issue(identity operators.Identity) (string, error) {
	now := i.nowTime()
	claims := Claims{
		Operator: identity.Name,
		Role:     string(identity.Role),
		RegisteredClaims: jwtlib.RegisteredClaims{
			Issuer:    claimIssuer,
			Subject:   identity.Name,
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(i.validity)),
			ID:        uuid.New().String(),
		},
	}

	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", errors.Wrap(err, "[Issuer.Issue] SignedString")
	}
	return signed, nil
}

// Parse validates a raw claim: signature, expiry, and that the embedded
// identity is still a configured operator. Anything else is a forced
// sign-out.
func (i *Issuer) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwtlib.ParseWithClaims(raw, claims,
		func(t *jwtlib.Token) (interface{}, error) { return i.secret, nil },
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithTimeFunc(i.nowTime),
		jwtlib.WithIssuer(claimIssuer),
	)
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return nil, errors.Wrap(apperrors.ErrClaimExpired, err.Error())
		}
		return nil, errors.Wrap(err, "[Issuer.Parse] ParseWithClaims")
	}

	if !i.directory.KnownOperator(claims.Operator) {
		return nil, errors.Wrap(apperrors.ErrUnknownOperator, claims.Operator)
	}

	return claims, nil
}
