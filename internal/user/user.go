package user

// User represents a user registered to the service
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Age          int    `json:"age"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Roles        string `json:"roles"`
}

// RoleSet returns the parsed roles of the user.
// Unknown role names stored on the user are ignored.
func (obj *User) RoleSet() RoleSet {
	set, _ := ParseRoles(obj.Roles)
	return set
}

// Clone returns a copy of the user that does not share memory with the original
func (obj *User) Clone() *User {
	cpy := *obj
	return &cpy
}
