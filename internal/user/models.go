package user

import (
	"time"

	"dynaform/internal/identity"
)

// User captures the primary identity tracked by the service. Storage of
// the actual record lives behind the Store interface.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         identity.Role
	CreatedAt    time.Time
}
