package model

import "time"

// User is an API account allowed to query reservations and request
// PNRGOV generation.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
