package domain

import (
	"errors"
	"strings"
)

// Role is a user's privilege level. Roles are ordered: user < writer < editor < admin.
type Role string

const (
	RoleUser   Role = "user"
	RoleWriter Role = "writer"
	RoleEditor Role = "editor"
	RoleAdmin  Role = "admin"
)

var roleRanks = map[Role]int{
	RoleUser:   0,
	RoleWriter: 1,
	RoleEditor: 2,
	RoleAdmin:  3,
}

// Authorization failures returned by Require. They are mirrored in internal/common
// so that handlers can map them without importing domain.
var (
	ErrNoActor          = errors.New("authentication required")
	ErrInsufficientRole = errors.New("insufficient role")
)

// Rank returns the numeric privilege level. Unknown roles rank below user.
func (r Role) Rank() int {
	if rank, ok := roleRanks[r]; ok {
		return rank
	}
	return -1
}

// AtLeast reports whether r is at or above min in the hierarchy.
func (r Role) AtLeast(min Role) bool {
	return r.Rank() >= min.Rank()
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := roleRanks[r]
	return ok
}

// ParseRole normalizes s into a Role.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	return r, r.Valid()
}

// Actor is the authenticated caller of an operation, as provided by the session layer.
type Actor struct {
	ID    string `json:"id"`
	Role  Role   `json:"role"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SystemActor is used by background jobs such as the scheduled publisher.
var SystemActor = &Actor{ID: "system", Role: RoleAdmin, Name: "system"}

// Require is the single capability check used at the top of every guarded operation.
func Require(actor *Actor, min Role) error {
	if actor == nil || actor.ID == "" {
		return ErrNoActor
	}
	if !actor.Role.AtLeast(min) {
		return ErrInsufficientRole
	}
	return nil
}

// IsSelf reports whether the actor is the given user.
func (a *Actor) IsSelf(userID string) bool {
	return a != nil && a.ID != "" && a.ID == userID
}
