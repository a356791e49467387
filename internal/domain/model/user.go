package model

import "time"

// Role distinguishes back-office staff from practice accounts.
type Role string

const (
	RoleAdmin    Role = "admin"
	RolePractice Role = "practice"
)

// User represents an account able to sign in to the order desk.
type User struct {
	ID           int64
	Login        string
	PasswordHash string
	Role         Role
	PracticeID   *int64
	CreatedAt    time.Time
}

// Actor is the authenticated caller of a use case.
type Actor struct {
	UserID     int64
	Role       Role
	PracticeID int64
}

// IsAdmin reports whether the actor may operate across practices.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanAccess reports whether the actor may see data owned by practiceID.
func (a Actor) CanAccess(practiceID int64) bool {
	return a.IsAdmin() || a.PracticeID == practiceID
}
