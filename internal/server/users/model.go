package users

import "time"

type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Profile is the projection returned to authenticated clients. The password
// hash never leaves the service.
type Profile struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}
