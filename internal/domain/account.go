package domain

import "time"

// Account is the domain model for a registered member. Entitled starts
// false and only ever flips to true once a payment is confirmed.
type Account struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Entitled     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
