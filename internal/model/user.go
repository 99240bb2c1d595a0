package model

import "strings"

// User is a restaurant staff account.
// Email is unique case-insensitively; the store does not enforce it, the
// registration flow does (see service.AuthService).
type User struct {
	ID        UserID `json:"id"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
	// Password holds a bcrypt hash for accounts created by this server.
	// Snapshots migrated from the mobile app may still carry plaintext.
	Password string `json:"password"`
}

// FullName returns "Firstname Lastname" trimmed.
func (u User) FullName() string {
	return strings.TrimSpace(u.Firstname + " " + u.Lastname)
}

// UserPatch carries the fields UpdateUser may change. Nil = unchanged.
type UserPatch struct {
	Firstname *string
	Lastname  *string
	Email     *string
	Password  *string
}

// Apply merges the non-nil fields of p into u.
func (p UserPatch) Apply(u *User) {
	if p.Firstname != nil {
		u.Firstname = *p.Firstname
	}
	if p.Lastname != nil {
		u.Lastname = *p.Lastname
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Password != nil {
		u.Password = *p.Password
	}
}

// NormalizeEmail is the comparison key for email uniqueness.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
