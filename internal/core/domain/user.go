package domain

// User is an authenticated operator of the backend. The engine treats the
// user ID from a validated token as opaque input; it performs no
// authorization beyond entity-state preconditions.
type User struct {
	UserID       string `json:"userID"` // Primary Key (UUID)
	Username     string `json:"username"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"`
	IsActive     bool   `json:"isActive"`
	AuditFields
}
