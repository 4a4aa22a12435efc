package config

import (
	"os"
	"strings"

	"github.com/pkg/errors"

	apperrors "github.com/mucalsync/calsync-server/internal/errors"
)

// Config is the full application configuration, composed of per-concern
// views. It is constructed once at startup; nothing else in the codebase
// reads environment variables directly.
type Config interface {
	EnvConfig
	GoogleConfig
	OperatorConfig
	SessionConfig
	BackendConfig
	CorsConfig

	// Validate reports every required value that is missing, so a
	// misconfigured deployment fails at startup rather than per-request.
	Validate() error
}

type mainConfig struct {
	EnvVars
	Google
	Operators
	Session
	Backend
	Cors
}

func New() Config {
	env := GetEnv("ENV", "development")
	return &mainConfig{
		EnvVars:   loadEnvVars(env),
		Google:    loadGoogle(env),
		Operators: loadOperators(),
		Session:   loadSession(),
		Backend:   loadBackend(),
		Cors:      loadCors(),
	}
}

func (c *mainConfig) Validate() error {
	var missing []string
	missing = append(missing, c.Google.missing()...)
	missing = append(missing, c.Operators.missing()...)
	missing = append(missing, c.Session.missing()...)
	missing = append(missing, c.Backend.missing()...)
	if len(missing) == 0 {
		return nil
	}
	return errors.Wrap(apperrors.ErrConfigMissing, strings.Join(missing, ", "))
}

// GetEnv returns the value of envVar, or defaultValue when unset or empty.
func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
