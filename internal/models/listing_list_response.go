package models

type ListingListResponse struct {
	Listings []Listing `json:"listings"`
	Page     int       `json:"page"`
	Size     int       `json:"size"`
	Total    int64     `json:"total"`
}
