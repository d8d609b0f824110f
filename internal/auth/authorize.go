// Package auth decides whether a resolved account may run an operation.
package auth

import (
	"github.com/samber/lo"

	"github.com/iliyamo/buildrr-backend/internal/model"
)

// Decision is the outcome of a capability check.
type Decision int

const (
	Authorized Decision = iota
	Unauthenticated
	Forbidden
)

func (d Decision) String() string {
	switch d {
	case Authorized:
		return "authorized"
	case Unauthenticated:
		return "unauthenticated"
	default:
		return "forbidden"
	}
}

// Authorize checks u against the allowed roles. A nil account is
// Unauthenticated; no roles means any authenticated account is allowed.
func Authorize(u *model.User, roles ...model.Role) Decision {
	if u == nil {
		return Unauthenticated
	}
	if len(roles) == 0 || lo.Contains(roles, u.Role) {
		return Authorized
	}
	return Forbidden
}
