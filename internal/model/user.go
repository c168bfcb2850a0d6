package model

import "time"

// User holds registered credentials. PasswordHash is a bcrypt hash; the
// plaintext password is never persisted. Users are read-only after creation.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
