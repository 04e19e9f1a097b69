package models

import "gorm.io/gorm"

// Listing is a service offering published by a provider (tutoring, laundry,
// photography and so on). Price is stored in minor currency units.
type Listing struct {
	gorm.Model
	ProviderID  uint   `gorm:"index;not null" json:"provider_id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`
	Category    string `gorm:"index" json:"category"`
	Price       int64  `gorm:"not null" json:"price"`
	Currency    string `gorm:"default:GHS" json:"currency"`
	Active      bool   `gorm:"default:true" json:"active"`
}
