package domain

import "time"

// UserProfile is the domain model for everyone who can sign in. The role on
// the profile decides ticket visibility and transition rights; new profiles
// default to RoleUser.
type UserProfile struct {
	ID           string
	Email        string
	FullName     *string
	Role         Role
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity derives the caller identity carried into ticket operations.
func (p *UserProfile) Identity() Identity {
	return Identity{UserID: p.ID, Email: p.Email, Role: p.Role}
}
