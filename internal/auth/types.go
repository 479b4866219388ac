package auth

import "time"

// User is an identity record created at registration. The password hash never
// leaves this package except through the store implementations.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	DisplayName  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
