// Package policy decides whether an actor may act on a resource.
//
// Permissions are evaluated against the closed domain.Role enum. Route-level
// checks pass a nil Resource; object-level checks pass the loaded record.
package policy

import (
	"context"

	id "huduma/pkg/domain"
	dErrors "huduma/pkg/domain-errors"
	"huduma/pkg/requestcontext"
)

const (
	MsgNotAuthenticated = "Authentication credentials were not provided."
	MsgDenied           = "You do not have permission to perform this action."
)

// Actor is the authenticated caller. The zero value is anonymous.
type Actor struct {
	UserID id.UserID
	Role   id.Role
}

// ActorFromContext reads the actor placed by the auth middleware.
func ActorFromContext(ctx context.Context) Actor {
	return Actor{UserID: requestcontext.UserID(ctx), Role: requestcontext.Role(ctx)}
}

func (a Actor) Authenticated() bool { return !a.UserID.IsNil() && a.Role.IsValid() }

func (a Actor) IsStaff() bool { return a.Authenticated() && a.Role.IsStaff() }

func (a Actor) IsCitizen() bool { return a.Authenticated() && a.Role == id.RoleCitizen }

// Owns reports whether res belongs to the actor.
func (a Actor) Owns(res Resource) bool {
	return res != nil && a.Authenticated() && res.OwnerID() == a.UserID
}

// Resource is anything with a single owning user.
type Resource interface {
	OwnerID() id.UserID
}

type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision { return Decision{Allowed: true} }

func deny(reason string) Decision { return Decision{Reason: reason} }

type Permission interface {
	Evaluate(actor Actor, res Resource) Decision
}

// PermissionFunc adapts a function to Permission.
type PermissionFunc func(actor Actor, res Resource) Decision

func (f PermissionFunc) Evaluate(actor Actor, res Resource) Decision { return f(actor, res) }

var (
	Authenticated Permission = PermissionFunc(func(a Actor, _ Resource) Decision {
		if a.Authenticated() {
			return allow()
		}
		return deny(MsgNotAuthenticated)
	})

	CitizenOnly Permission = PermissionFunc(func(a Actor, _ Resource) Decision {
		if a.IsCitizen() {
			return allow()
		}
		return deny(MsgDenied)
	})

	// OfficerOnly admits officers and admins.
	OfficerOnly Permission = PermissionFunc(func(a Actor, _ Resource) Decision {
		if a.IsStaff() {
			return allow()
		}
		return deny(MsgDenied)
	})

	// OwnerOrOfficer admits staff for any resource and the owner for their
	// own. With a nil resource any authenticated actor passes, leaving the
	// object check to the service.
	OwnerOrOfficer Permission = PermissionFunc(func(a Actor, res Resource) Decision {
		switch {
		case a.IsStaff():
			return allow()
		case res == nil && a.Authenticated():
			return allow()
		case a.Owns(res):
			return allow()
		}
		return deny(MsgDenied)
	})

	OwnerOnly Permission = PermissionFunc(func(a Actor, res Resource) Decision {
		if a.Owns(res) {
			return allow()
		}
		return deny(MsgDenied)
	})
)

// Authorize evaluates perm and converts a denial into a coded error:
// anonymous actors get CodeUnauthorized, everyone else CodeForbidden.
func Authorize(actor Actor, perm Permission, res Resource) error {
	d := perm.Evaluate(actor, res)
	if d.Allowed {
		return nil
	}
	if !actor.Authenticated() {
		return dErrors.New(dErrors.CodeUnauthorized, MsgNotAuthenticated)
	}
	return dErrors.New(dErrors.CodeForbidden, d.Reason)
}

// WithReason wraps perm so that a denial carries reason instead of the
// default message.
func WithReason(perm Permission, reason string) Permission {
	return PermissionFunc(func(a Actor, res Resource) Decision {
		d := perm.Evaluate(a, res)
		if !d.Allowed {
			d.Reason = reason
		}
		return d
	})
}
