package entity

import "time"

// Client representa un cliente del usuario (tabla clients).
type Client struct {
	ID        string
	UserID    string
	Name      string
	Email     string
	Phone     string
	Address   string
	TaxID     string // matricule fiscal
	CreatedAt time.Time
	UpdatedAt time.Time
}
