package domain

// Identity is a verified caller identity attached to a request.
type Identity struct {
	// UserID is the subject claim from the verified token.
	UserID string `json:"user_id"`

	// Email is the account email.
	Email string `json:"email"`

	// Role is the coarse authorization role. Defaults to RoleUser.
	Role string `json:"role"`
}

// Roles recognised for coarse authorization.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// IsAdmin reports whether the identity carries the admin role.
func (i *Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
