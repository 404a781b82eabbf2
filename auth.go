package tally

import (
	"crypto/subtle"
	"github.com/pkg/errors"
)

var ErrUnauthorized = errors.New("operation requires admin authorization")

// Authorization is decided by the caller per request, the survey never
// stores it.
type Authorization struct {
	admin bool
}

func Anonymous() Authorization {
	return Authorization{}
}

func Admin() Authorization {
	return Authorization{admin: true}
}

func Authorize(admin bool) Authorization {
	return Authorization{admin: admin}
}

func (a Authorization) IsAdmin() bool {
	return a.admin
}

func (a Authorization) require(op string) error {
	if !a.admin {
		return errors.Wrap(ErrUnauthorized, op)
	}
	return nil
}

// Gate compares a supplied credential against the configured admin secret.
// A gate without a secret never grants admin.
type Gate struct {
	secret []byte
}

func NewGate(secret string) Gate {
	return Gate{secret: []byte(secret)}
}

func (g Gate) Enabled() bool {
	return len(g.secret) > 0
}

func (g Gate) Authorize(credential string) Authorization {
	if !g.Enabled() {
		return Anonymous()
	}

	return Authorize(subtle.ConstantTimeCompare(g.secret, []byte(credential)) == 1)
}
