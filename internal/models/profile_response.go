package models

// ProfileResponse is the owner's view of their own account, including
// the contact fields hidden from other users.
type ProfileResponse struct {
	ID           uint    `json:"id"`
	Email        string  `json:"email"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	ProfilePhoto *string `json:"profile_photo"`
	Campus       *string `json:"campus"`
	Phone        *string `json:"phone"`
}
