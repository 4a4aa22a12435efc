package operators

import (
	"crypto/subtle"

	"github.com/mucalsync/calsync-server/internal/config"
	apperrors "github.com/mucalsync/calsync-server/internal/errors"
)

// Role is the single capability tag attached to an operator account.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleUploader Role = "uploader"
)

// Identity is one of the two statically configured privileged accounts.
type Identity struct {
	Name string
	Role Role
}

type credential struct {
	username string
	password string
	role     Role
}

// Validator checks submitted credentials against the configured operator
// accounts. It is a pure check; issuing the session artifact is the
// caller's job.
type Validator struct {
	creds []credential
}

func NewValidator(cfg config.OperatorConfig) *Validator {
	return &Validator{
		creds: []credential{
			{username: cfg.GetAdminUsername(), password: cfg.GetAdminPassword(), role: RoleAdmin},
			{username: cfg.GetUploaderUsername(), password: cfg.GetUploaderPassword(), role: RoleUploader},
		},
	}
}

// Validate returns the matching operator identity, or ErrInvalidCredentials
// for any non-match. Every candidate pair is compared in constant time so
// the response does not reveal whether the username or the password was
// wrong.
func (v *Validator) Validate(username, password string) (*Identity, error) {
	var match *Identity
	for _, c := range v.creds {
		if c.username == "" || c.password == "" {
			continue
		}
		userOK := subtle.ConstantTimeCompare([]byte(username), []byte(c.username))
		passOK := subtle.ConstantTimeCompare([]byte(password), []byte(c.password))
		if userOK&passOK == 1 {
			match = &Identity{Name: c.username, Role: c.role}
		}
	}
	if match == nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	return match, nil
}

// KnownOperator reports whether name is one of the currently configured
// operator usernames. Session claims carrying any other name are stale and
// must be rejected.
func (v *Validator) KnownOperator(name string) bool {
	for _, c := range v.creds {
		if c.username != "" && c.username == name {
			return true
		}
	}
	return false
}

// RoleOf returns the role for a configured operator name.
func (v *Validator) RoleOf(name string) (Role, bool) {
	for _, c := range v.creds {
		if c.username != "" && c.username == name {
			return c.role, true
		}
	}
	return "", false
}
