package models

import "time"

// UserResponse is the public card shown for counterparts and listing
// providers. Email and phone stay private to the profile owner.
type UserResponse struct {
	ID           uint       `json:"id"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	ProfilePhoto *string    `json:"profile_photo"`
	Campus       *string    `json:"campus"`
	IsOnline     bool       `json:"is_online"`
	LastSeen     *time.Time `json:"last_seen"`
}
