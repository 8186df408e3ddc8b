package entity

import "time"

// DeliveryNote bon de sortie: documento de salida de mercancía, sin importes.
type DeliveryNote struct {
	ID         string
	UserID     string
	ClientID   string
	ClientName string
	Number     string
	Date       time.Time
	Notes      string
	Lines      []DocumentLine // solo ProductID, Description y Quantity
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
