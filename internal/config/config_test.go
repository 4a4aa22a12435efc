package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mucalsync/calsync-server/internal/config"
	apperrors "github.com/mucalsync/calsync-server/internal/errors"
)

func setFullEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ENV", "development")
	t.Setenv("GOOGLE_CLIENT_ID", "client-id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "client-secret")
	t.Setenv("GOOGLE_REDIRECT_URI", "http://localhost:8080/api/auth/google/callback")
	t.Setenv("GOOGLE_REDIRECT_PROD_URI", "https://mucalsync.example.com/api/auth/google/callback")
	t.Setenv("SESSION_SECRET", "test-session-secret")
	t.Setenv("ADMIN_USERNAME", "admin")
	t.Setenv("ADMIN_PASSWORD", "admin-pass")
	t.Setenv("TIMETABLE_UPLOAD_USERNAME", "uploader")
	t.Setenv("TIMETABLE_UPLOAD_PASSWORD", "uploader-pass")
	t.Setenv("BACKEND_URL", "http://backend.internal")
	t.Setenv("API_KEY", "backend-key")
	t.Setenv("ENCRYPTION_KEY", "encryption-key")
}

func TestValidate(t *testing.T) {
	t.Run("complete configuration passes", func(t *testing.T) {
		setFullEnv(t)
		c := config.New()
		require.NoError(t, c.Validate())
	})

	t.Run("missing values are all reported at once", func(t *testing.T) {
		setFullEnv(t)
		t.Setenv("GOOGLE_CLIENT_ID", "")
		t.Setenv("SESSION_SECRET", "")
		t.Setenv("ADMIN_PASSWORD", "")

		err := config.New().Validate()
		require.Error(t, err)
		require.True(t, apperrors.Is(err, apperrors.ErrConfigMissing))
		require.Contains(t, err.Error(), "GOOGLE_CLIENT_ID")
		require.Contains(t, err.Error(), "SESSION_SECRET")
		require.Contains(t, err.Error(), "ADMIN_PASSWORD")
	})

	t.Run("secret values never appear in the error", func(t *testing.T) {
		setFullEnv(t)
		t.Setenv("API_KEY", "")
		err := config.New().Validate()
		require.Error(t, err)
		require.NotContains(t, err.Error(), "admin-pass")
		require.NotContains(t, err.Error(), "client-secret")
	})
}

func TestRedirectURISelection(t *testing.T) {
	t.Run("development uses the dev redirect URI", func(t *testing.T) {
		setFullEnv(t)
		c := config.New()
		require.Equal(t, "http://localhost:8080/api/auth/google/callback", c.GetGoogleRedirectURI())
	})

	t.Run("production uses the registered production URI", func(t *testing.T) {
		setFullEnv(t)
		t.Setenv("ENV", "production")
		c := config.New()
		require.True(t, c.IsProduction())
		require.Equal(t, "https://mucalsync.example.com/api/auth/google/callback", c.GetGoogleRedirectURI())
	})

	t.Run("production with no prod URI fails validation", func(t *testing.T) {
		setFullEnv(t)
		t.Setenv("ENV", "production")
		t.Setenv("GOOGLE_REDIRECT_PROD_URI", "")
		err := config.New().Validate()
		require.Error(t, err)
		require.Contains(t, err.Error(), "GOOGLE_REDIRECT_PROD_URI")
	})
}

func TestPortFormatting(t *testing.T) {
	setFullEnv(t)
	t.Setenv("PORT", "9090")
	require.Equal(t, ":9090", config.New().GetPort())
}
