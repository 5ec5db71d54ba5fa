// Package access classifies Telegram callers into roles and owns the admin set.
package access

import (
	"errors"
	"sort"
)

// ErrPermissionDenied is returned when the caller lacks the required role.
var ErrPermissionDenied = errors.New("access: permission denied")

// Role is the privilege level of a caller.
type Role int

const (
	// RoleNone marks callers without any privileges.
	RoleNone Role = iota
	// RoleAdmin marks callers present in the admin set.
	RoleAdmin
	// RoleSuperadmin marks the single fixed owner identity.
	RoleSuperadmin
)

func (r Role) String() string {
	switch r {
	case RoleSuperadmin:
		return "superadmin"
	case RoleAdmin:
		return "admin"
	default:
		return "none"
	}
}

// Privileged reports whether the role may use registry and picker operations.
func (r Role) Privileged() bool {
	return r == RoleAdmin || r == RoleSuperadmin
}

// Control holds the superadmin identity and the mutable admin set.
// It is not safe for concurrent use; the owner serializes access.
type Control struct {
	superadmin int64
	admins     map[int64]struct{}
}

// New builds a Control for the given superadmin, seeding the admin set.
// The superadmin id is never stored in the admin set.
func New(superadmin int64, admins ...int64) *Control {
	c := &Control{
		superadmin: superadmin,
		admins:     make(map[int64]struct{}, len(admins)),
	}
	for _, id := range admins {
		if id == 0 || id == superadmin {
			continue
		}
		c.admins[id] = struct{}{}
	}
	return c
}

// Classify returns the role of callerID.
func (c *Control) Classify(callerID int64) Role {
	if callerID != 0 && callerID == c.superadmin {
		return RoleSuperadmin
	}
	if _, ok := c.admins[callerID]; ok {
		return RoleAdmin
	}
	return RoleNone
}

// Require returns ErrPermissionDenied unless callerID is admin or superadmin.
func (c *Control) Require(callerID int64) error {
	if !c.Classify(callerID).Privileged() {
		return ErrPermissionDenied
	}
	return nil
}

// Grant adds targetID to the admin set. Only the superadmin may grant.
// It reports whether the set grew; granting an existing admin is a no-op.
func (c *Control) Grant(requesterID, targetID int64) (bool, error) {
	if c.Classify(requesterID) != RoleSuperadmin {
		return false, ErrPermissionDenied
	}
	if targetID == c.superadmin {
		return false, nil
	}
	if _, ok := c.admins[targetID]; ok {
		return false, nil
	}
	c.admins[targetID] = struct{}{}
	return true, nil
}

// Admins returns the admin set sorted ascending.
func (c *Control) Admins() []int64 {
	out := make([]int64, 0, len(c.admins))
	for id := range c.admins {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Superadmin returns the fixed owner identity.
func (c *Control) Superadmin() int64 {
	return c.superadmin
}
