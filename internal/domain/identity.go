package domain

// Role governs ticket visibility and transition rights.
type Role string

const (
	RoleUser    Role = "user"
	RoleSupport Role = "support"
	RoleAdmin   Role = "admin"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleSupport, RoleAdmin:
		return true
	}
	return false
}

// Identity is the resolved caller passed explicitly into every operation.
// The zero value is the anonymous caller.
type Identity struct {
	UserID string
	Email  string
	Role   Role
}

// Anonymous returns the identity of an unauthenticated caller.
func Anonymous() Identity {
	return Identity{}
}

// IsAnonymous reports whether the caller has no authenticated identity.
func (i Identity) IsAnonymous() bool {
	return i.UserID == ""
}

// IsAdmin reports whether the caller holds the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// IsSupport reports whether the caller may triage tickets (support or admin).
func (i Identity) IsSupport() bool {
	return i.Role == RoleSupport || i.Role == RoleAdmin
}
