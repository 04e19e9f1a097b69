package msgs

const (
	MsgOperationSuccessful     = "operation successful"
	MsgOperationFailed         = "operation failed"
	MsgUserCreatedSuccessfully = "user created successfully"
	MsgYouMustLoginFirst       = "you must login first"
	MsgBookingCreated          = "booking created"
	MsgReviewCreated           = "review created"
	MsgPaymentVerified         = "payment verified"
)
