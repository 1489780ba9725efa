package entities

import "time"

// User is a platform operator account, owned by the management backend.
type User struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"password,omitempty"` // write-only, never echoed by the backend
	Role      string    `json:"role"`               // "admin" or "user"
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)
