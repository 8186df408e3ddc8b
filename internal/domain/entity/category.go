package entity

import "time"

// Category agrupa productos (relación muchos-a-uno desde Product).
type Category struct {
	ID          string
	UserID      string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
