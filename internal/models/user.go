package models

// User represents an operator of the application.
type User struct {
	UserID       string `db:"user_id"`
	Username     string `db:"username"`
	PasswordHash string `db:"password_hash"`
	Name         string `db:"name"`
	IsActive     bool   `db:"is_active"`
	AuditFields
}
