package enums

const (
	BOOKING_STATUS_PENDING   = "pending"
	BOOKING_STATUS_CONFIRMED = "confirmed"
	BOOKING_STATUS_COMPLETED = "completed"
	BOOKING_STATUS_CANCELLED = "cancelled"
)
