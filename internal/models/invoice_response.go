package models

type InvoiceResponse struct {
	Booking      Booking  `json:"booking"`
	Payment      *Payment `json:"payment"`
	ListingTitle string   `json:"listing_title"`
	Total        int64    `json:"total"`
	Currency     string   `json:"currency"`
}
