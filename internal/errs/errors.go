package errs

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrInvalidRequestBody         = Error("invalid request body")
	ErrUserAlreadyExists          = Error("user already exists")
	ErrUserNotFound               = Error("user not found")
	ErrWrongPassword              = Error("wrong password")
	ErrInvalidToken               = Error("invalid token")
	ErrInvalidEmail               = Error("invalid email")
	ErrInvalidPassword            = Error("invalid password")
	ErrInvalidUser                = Error("invalid user")
	ErrInvalidRequest             = Error("invalid request")
	ErrInvalidParams              = Error("invalid params")
	ErrInvalidPageOrSize          = Error("invalid page or size")
	ErrFirstName                  = Error("first name is empty or too short")
	ErrLastName                   = Error("last name is empty or too short")
	ErrUnauthorized               = Error("unauthorized")
	ErrSelfConversation           = Error("cannot open a conversation with yourself")
	ErrConversationNotFound       = Error("conversation not found")
	ErrNotConversationMember      = Error("user is not a member of this conversation")
	ErrInvalidConversationId      = Error("invalid conversation id")
	ErrEmptyMessage               = Error("message needs content, an attachment or a link")
	ErrNoneOfMessagesRead         = Error("none of the messages were marked as read")
	ErrListingNotFound            = Error("listing not found")
	ErrListingInactive            = Error("listing is not active")
	ErrInvalidListing             = Error("invalid listing data")
	ErrBookingNotFound            = Error("booking not found")
	ErrBookingInPast              = Error("booking time must be in the future")
	ErrBookingSlotTaken           = Error("another booking already occupies this slot")
	ErrBookingOwnListing          = Error("cannot book your own listing")
	ErrBookingNotCompleted        = Error("booking is not completed yet")
	ErrInvalidBookingStatus       = Error("invalid booking status transition")
	ErrInvalidRating              = Error("rating must be between 1 and 5")
	ErrReviewAlreadyExists        = Error("this booking has already been reviewed")
	ErrReviewNotBuyer             = Error("only the buyer of the booking can review it")
	ErrPaymentNotFound            = Error("payment not found")
	ErrPaymentAlreadyVerified     = Error("payment has already been verified")
	ErrPaymentVerification        = Error("payment could not be verified")
	ErrInvoiceNotFound            = Error("invoice not found")
	ErrNoFileUploaded             = Error("no file uploaded")
	ErrUnableToOpenUploadedFile   = Error("unable to open uploaded file")
	ErrUnableToUploadFile         = Error("unable to upload file")
	ErrUnableToUpdateProfilePhoto = Error("unable to update profile photo")
	ErrSubscriptionReleased       = Error("subscription already released")
)
