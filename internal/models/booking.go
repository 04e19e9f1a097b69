package models

import (
	"time"

	"gorm.io/gorm"
)

type Booking struct {
	gorm.Model
	ListingID       uint      `gorm:"index;not null" json:"listing_id"`
	BuyerID         uint      `gorm:"index;not null" json:"buyer_id"`
	ProviderID      uint      `gorm:"index;not null" json:"provider_id"`
	ScheduledAt     time.Time `gorm:"not null" json:"scheduled_at"`
	DurationMinutes int       `gorm:"default:60" json:"duration_minutes"`
	Status          string    `gorm:"default:pending" json:"status"`
	Note            string    `json:"note"`
}

func (booking *Booking) EndsAt() time.Time {
	return booking.ScheduledAt.Add(time.Duration(booking.DurationMinutes) * time.Minute)
}
