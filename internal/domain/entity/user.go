package entity

import "time"

// Roles válidos para Profile.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Profile representa un usuario de la aplicación (tabla profiles).
type Profile struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt, nunca plano
	FullName     string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
