package enums

const (
	PAYMENT_STATUS_PENDING  = "pending"
	PAYMENT_STATUS_VERIFIED = "verified"
	PAYMENT_STATUS_FAILED   = "failed"
)
