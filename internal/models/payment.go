package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment tracks one mobile-money collection attempt for a booking. The
// reference is handed to the gateway and later used to verify the transfer.
type Payment struct {
	gorm.Model
	BookingID  uint       `gorm:"index;not null" json:"booking_id"`
	Reference  string     `gorm:"uniqueIndex;not null" json:"reference"`
	Amount     int64      `gorm:"not null" json:"amount"`
	Currency   string     `json:"currency"`
	Phone      string     `json:"phone"`
	Status     string     `gorm:"default:pending" json:"status"`
	VerifiedAt *time.Time `json:"verified_at"`
}
