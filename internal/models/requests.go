package models

import "time"

type LoginRequestBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateUserRequest struct {
	ID        uint    `json:"-"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Campus    *string `json:"campus"`
	Phone     *string `json:"phone"`
}

type ResolveConversationRequestBody struct {
	CounterpartID uint  `json:"counterpart_id"`
	ListingID     *uint `json:"listing_id"`
}

type MessageRequest struct {
	ConversationID uint       `json:"conversation_id"`
	Content        string     `json:"content"`
	Attachments    StringList `json:"attachments"`
	Link           *string    `json:"link"`
}

type CreateListingRequestBody struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Price       int64  `json:"price"`
	Currency    string `json:"currency"`
}

type CreateBookingRequestBody struct {
	ListingID       uint      `json:"listing_id"`
	ScheduledAt     time.Time `json:"scheduled_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Note            string    `json:"note"`
}

type UpdateBookingStatusRequestBody struct {
	Status string `json:"status"`
}

type CreateReviewRequestBody struct {
	BookingID uint   `json:"booking_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

type InitiatePaymentRequestBody struct {
	BookingID uint   `json:"booking_id"`
	Phone     string `json:"phone"`
}

type VerifyPaymentRequestBody struct {
	Reference string `json:"reference"`
}
