package domain

import "strings"

// User is the identity returned to callers. It never carries a password.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Credential is a stored directory record.
type Credential struct {
	User
	PasswordHash string `json:"password_hash"`
}

// NormalizeEmail folds an email for case-insensitive comparison.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Matches reports whether the credential belongs to email, ignoring case.
func (c Credential) Matches(email string) bool {
	return NormalizeEmail(c.Email) == NormalizeEmail(email)
}
