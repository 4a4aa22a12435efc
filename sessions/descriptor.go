package sessions

import "github.com/mucalsync/calsync-server/operators"

// SessionDescriptor is the sum of the two ways a caller can be
// authenticated: as an operator (signed claim) or as a Google-linked user
// (token cookies). A request may hold zero, one, or both.
type SessionDescriptor interface {
	sessionDescriptor()
}

// OperatorSession is a validated operator claim.
type OperatorSession struct {
	Identity operators.Identity
}

func (OperatorSession) sessionDescriptor() {}

// GoogleSession is a usable Google access token recovered from cookies,
// refreshed silently if needed.
type GoogleSession struct {
	AccessToken string
}

func (GoogleSession) sessionDescriptor() {}

// View is the combined authorization view consumed by protected surfaces.
type View struct {
	OperatorAuthenticated bool
	GoogleAuthenticated   bool
	Operator              *operators.Identity
	AccessToken           string
	Descriptors           []SessionDescriptor
}
