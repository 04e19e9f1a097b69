package models

import "gorm.io/gorm"

// Review is written once per completed booking by its buyer.
type Review struct {
	gorm.Model
	ListingID  uint   `gorm:"index;not null" json:"listing_id"`
	BookingID  uint   `gorm:"uniqueIndex;not null" json:"booking_id"`
	ReviewerID uint   `gorm:"not null" json:"reviewer_id"`
	Rating     int    `gorm:"not null" json:"rating"`
	Comment    string `json:"comment"`
}
