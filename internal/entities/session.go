package entities

import "time"

// Profile is the identity the management backend reports for a logged-in
// operator.
type Profile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Session binds a panel session id to the backend bearer credential obtained
// at login. Credential present ⇔ authenticated; the credential never leaves
// the panel process.
type Session struct {
	ID        string
	Token     string
	Profile   Profile
	CreatedAt time.Time
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.Profile.Role == RoleAdmin
}
