// Package identity defines the request principal resolved by the
// authentication gate and consumed by endpoint logic.
package identity

// Role enumerates the access levels a user can hold.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Principal is the identity attached to a request. The zero value is the
// anonymous sentinel; only the gate constructs authenticated principals.
type Principal struct {
	UserID        string
	Email         string
	Name          string
	Role          Role
	authenticated bool
}

// Anonymous returns the distinguished unauthenticated principal.
func Anonymous() Principal {
	return Principal{}
}

// Authenticated constructs a principal for a resolved user.
func Authenticated(userID, email, name string, role Role) Principal {
	return Principal{
		UserID:        userID,
		Email:         email,
		Name:          name,
		Role:          role,
		authenticated: true,
	}
}

// IsAuthenticated reports whether the principal represents a resolved user.
// The anonymous sentinel is never authenticated.
func (p Principal) IsAuthenticated() bool {
	return p.authenticated
}
