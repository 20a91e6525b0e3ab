package user

import (
	"errors"
	"strings"
)

// Role represents a single role a user may hold
type Role uint

const (
	RoleUser Role = 1 << iota
	RoleSupport
	RoleAdmin
	RoleSuperAdmin
)

// DefaultRoles is assigned to users created without explicit roles
const DefaultRoles = "User"

var ErrUnknownRole = errors.New("unknown role")

var roleNames = []struct {
	role Role
	name string
}{
	{RoleUser, "User"},
	{RoleSupport, "Support"},
	{RoleAdmin, "Admin"},
	{RoleSuperAdmin, "SuperAdmin"},
}

// String returns the name of the role
func (role Role) String() string {
	for _, entry := range roleNames {
		if entry.role == role {
			return entry.name
		}
	}
	return "Unknown"
}

// RoleSet represents the set of roles a user holds.
// It provides methods Has, HasAny, With and Without to check, set and unset certain roles.
type RoleSet uint

// EmptyRoleSet provides a role set with no roles set
const EmptyRoleSet RoleSet = 0

// ParseRoles parses a comma separated list of role names (matched ignoring case).
// An empty list yields the default role.
func ParseRoles(raw string) (RoleSet, error) {
	names := strings.Split(raw, ",")
	return ParseRoleNames(names)
}

// ParseRoleNames parses a list of role names (matched ignoring case).
// An empty list yields the default role.
func ParseRoleNames(names []string) (RoleSet, error) {
	set := EmptyRoleSet
	var errs []error
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		role, ok := lookupRole(name)
		if !ok {
			errs = append(errs, &UnknownRoleError{Name: name})
			continue
		}
		set = set.With(role)
	}
	if len(errs) > 0 {
		return EmptyRoleSet, errors.Join(errs...)
	}
	if set == EmptyRoleSet {
		set = set.With(RoleUser)
	}
	return set, nil
}

func lookupRole(name string) (Role, bool) {
	for _, entry := range roleNames {
		if strings.EqualFold(entry.name, name) {
			return entry.role, true
		}
	}
	return 0, false
}

// UnknownRoleError is returned when a role name could not be parsed
type UnknownRoleError struct {
	Name string
}

func (err *UnknownRoleError) Error() string {
	return "unknown role '" + err.Name + "'"
}

func (err *UnknownRoleError) Unwrap() error {
	return ErrUnknownRole
}

// Has checks if the set contains all the given roles
func (cur RoleSet) Has(roles ...Role) bool {
	for _, role := range roles {
		if uint(cur)&uint(role) == 0 {
			return false
		}
	}
	return true
}

// HasAny checks if the set contains at least one of the given roles
func (cur RoleSet) HasAny(roles ...Role) bool {
	for _, role := range roles {
		if uint(cur)&uint(role) != 0 {
			return true
		}
	}
	return false
}

// With returns a new set with all given and current roles set
func (cur RoleSet) With(roles ...Role) RoleSet {
	val := uint(cur)
	for _, role := range roles {
		val |= uint(role)
	}
	return RoleSet(val)
}

// Without returns a new set with the current but without the given roles set
func (cur RoleSet) Without(roles ...Role) RoleSet {
	val := uint(cur)
	for _, role := range roles {
		val &= ^uint(role)
	}
	return RoleSet(val)
}

// Names returns the names of the roles in the set in privilege order
func (cur RoleSet) Names() []string {
	names := []string{}
	for _, entry := range roleNames {
		if cur.Has(entry.role) {
			names = append(names, entry.name)
		}
	}
	return names
}

// String returns the comma separated form the set is stored in
func (cur RoleSet) String() string {
	return strings.Join(cur.Names(), ",")
}
