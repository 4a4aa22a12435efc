package sessions_test

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	apperrors "github.com/mucalsync/calsync-server/internal/errors"
	"github.com/mucalsync/calsync-server/operators"
	"github.com/mucalsync/calsync-server/sessions"
)

type sessionConfig struct {
	secret   string
	validity time.Duration
}

func (c sessionConfig) GetSessionSecret() string             { return c.secret }
func (c sessionConfig) GetClaimValidity() time.Duration      { return c.validity }
func (c sessionConfig) GetRefreshTokenMaxAge() time.Duration { return 30 * 24 * time.Hour }

type directory map[string]bool

func (d directory) KnownOperator(name string) bool { return d[name] }

var testTime = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

func newIssuer(t *testing.T, now func() time.Time) *sessions.Issuer {
	t.Helper()
	issuer, err := sessions.NewIssuer(
		sessionConfig{secret: "test-secret", validity: 24 * time.Hour},
		directory{"admin": true, "uploader": true},
		sessions.WithNowTime(now),
	)
	require.NoError(t, err)
	return issuer
}

func TestNewIssuer(t *testing.T) {
	t.Run("empty secret is rejected", func(t *testing.T) {
		_, err := sessions.NewIssuer(sessionConfig{validity: time.Hour}, directory{})
		require.Error(t, err)
		require.True(t, apperrors.Is(err, apperrors.ErrConfigMissing))
	})

	t.Run("nil directory is rejected", func(t *testing.T) {
		_, err := sessions.NewIssuer(sessionConfig{secret: "s", validity: time.Hour}, nil)
		require.Error(t, err)
	})
}

func TestIssueAndParse(t *testing.T) {
	issuer := newIssuer(t, func() time.Time { return testTime })

	t.Run("round trip preserves identity and role", func(t *testing.T) {
		signed, err := issuer.Issue(operators.Identity{Name: "admin", Role: operators.RoleAdmin})
		require.NoError(t, err)

		claims, err := issuer.Parse(signed)
		require.NoError(t, err)
		require.Equal(t, "admin", claims.Operator)
		require.Equal(t, string(operators.RoleAdmin), claims.Role)
		require.Equal(t, testTime.Add(24*time.Hour).Unix(), claims.ExpiresAt.Unix())
	})

	t.Run("claim survives until just before expiry", func(t *testing.T) {
		signed, err := issuer.Issue(operators.Identity{Name: "admin", Role: operators.RoleAdmin})
		require.NoError(t, err)

		later := newIssuer(t, func() time.Time { return testTime.Add(24*time.Hour - time.Minute) })
		_, err = later.Parse(signed)
		require.NoError(t, err)
	})

	t.Run("expired claim maps to ErrClaimExpired", func(t *testing.T) {
		signed, err := issuer.Issue(operators.Identity{Name: "admin", Role: operators.RoleAdmin})
		require.NoError(t, err)

		later := newIssuer(t, func() time.Time { return testTime.Add(25 * time.Hour) })
		_, err = later.Parse(signed)
		require.Error(t, err)
		require.True(t, apperrors.Is(err, apperrors.ErrClaimExpired))
	})

	t.Run("garbage input fails", func(t *testing.T) {
		_, err := issuer.Parse("not.a.token")
		require.Error(t, err)
	})

	t.Run("claim signed with a different secret fails", func(t *testing.T) {
		other, err := sessions.NewIssuer(
			sessionConfig{secret: "other-secret", validity: 24 * time.Hour},
			directory{"admin": true},
			sessions.WithNowTime(func() time.Time { return testTime }),
		)
		require.NoError(t, err)

		signed, err := other.Issue(operators.Identity{Name: "admin", Role: operators.RoleAdmin})
		require.NoError(t, err)

		_, err = issuer.Parse(signed)
		require.Error(t, err)
	})
}

func TestParseRejectsStaleOperator(t *testing.T) {
	// A claim with a valid signature naming an operator that is no longer
	// configured must be rejected, not honoured.
	issuer := newIssuer(t, func() time.Time { return testTime })

	signed, err := issuer.Issue(operators.Identity{Name: "retired", Role: operators.RoleAdmin})
	require.NoError(t, err)

	_, err = issuer.Parse(signed)
	require.Error(t, err)
	require.True(t, apperrors.Is(err, apperrors.ErrUnknownOperator))
}

func TestParseRejectsUnsignedAlgorithm(t *testing.T) {
	issuer := newIssuer(t, func() time.Time { return testTime })

	claims := sessions.Claims{
		Operator: "admin",
		Role:     "admin",
		RegisteredClaims: jwtlib.RegisteredClaims{
			Issuer:    "mucalsync",
			ExpiresAt: jwtlib.NewNumericDate(testTime.Add(time.Hour)),
		},
	}
	unsigned, err := jwtlib.NewWithClaims(jwtlib.SigningMethodNone, claims).
		SignedString(jwtlib.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = issuer.Parse(unsigned)
	require.Error(t, err)
}
