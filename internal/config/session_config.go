package config

import "time"

type SessionConfig interface {
	GetSessionSecret() string
	GetClaimValidity() time.Duration
	GetRefreshTokenMaxAge() time.Duration
}

type Session struct {
	secret string
}

var _ SessionConfig = Session{}

func loadSession() Session {
	return Session{secret: GetEnv("SESSION_SECRET", "")}
}

func (s Session) GetSessionSecret() string {
	return s.secret
}

// GetClaimValidity is the operator session claim lifetime. The claim does
// not slide past this boundary.
func (Session) GetClaimValidity() time.Duration {
	return 24 * time.Hour
}

// GetRefreshTokenMaxAge bounds how long a Google refresh token cookie is
// kept. It must always exceed any access token lifetime.
func (Session) GetRefreshTokenMaxAge() time.Duration {
	return 30 * 24 * time.Hour
}

func (s Session) missing() []string {
	if s.secret == "" {
		return []string{"SESSION_SECRET"}
	}
	return nil
}
