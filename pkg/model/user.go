package model

import (
	"fmt"
	"strings"
)

// Role is the closed set of roles a local user can have.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// ParseRole validates a role name.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleMember:
		return RoleMember, nil
	}

	return "", fmt.Errorf("unknown role %q", s)
}

// User is a locally selectable identity. Switching users is a selection, not authentication.
type User struct {
	ID   string
	Name string
	Role Role
}

// Delegate returns the first member in users, i.e. the user that tasks on the assigned virtual
// list are routed to. ok is false when there is no member.
func Delegate(users []User) (User, bool) {
	for _, u := range users {
		if u.Role == RoleMember {
			return u, true
		}
	}

	return User{}, false
}

// FindUser looks a user up by id.
func FindUser(users []User, id string) (User, bool) {
	for _, u := range users {
		if u.ID == id {
			return u, true
		}
	}

	return User{}, false
}
