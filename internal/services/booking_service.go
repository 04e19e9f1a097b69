package services

import (
	"time"

	"campusmarket/internal/enums"
	"campusmarket/internal/errs"
	"campusmarket/internal/models"
	"campusmarket/internal/repositories"
)

const defaultBookingMinutes = 60

// BookingService guards the appointment lifecycle. The booking-time checks
// run before any row is written: the slot must be in the future and must not
// collide with another live booking on the same listing.
type BookingService struct {
	bookingRepo repositories.BookingRepository
	listingRepo repositories.ListingRepository
	now         func() time.Time
}

func NewBookingService(
	bookingRepo repositories.BookingRepository,
	listingRepo repositories.ListingRepository,
) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		listingRepo: listingRepo,
		now:         time.Now,
	}
}

func (bs *BookingService) CreateBooking(buyerID uint, request *models.CreateBookingRequestBody) (*models.Booking, error) {
	if buyerID == 0 {
		return nil, errs.ErrUnauthorized
	}

	listing, err := bs.listingRepo.FindByID(request.ListingID)
	if err != nil {
		return nil, errs.ErrListingNotFound
	}
	if !listing.Active {
		return nil, errs.ErrListingInactive
	}
	if listing.ProviderID == buyerID {
		return nil, errs.ErrBookingOwnListing
	}

	if !request.ScheduledAt.After(bs.now()) {
		return nil, errs.ErrBookingInPast
	}

	duration := request.DurationMinutes
	if duration <= 0 {
		duration = defaultBookingMinutes
	}
	end := request.ScheduledAt.Add(time.Duration(duration) * time.Minute)
	taken, err := bs.bookingRepo.HasOverlap(request.ListingID, request.ScheduledAt, end)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errs.ErrBookingSlotTaken
	}

	booking := &models.Booking{
		ListingID:       request.ListingID,
		BuyerID:         buyerID,
		ProviderID:      listing.ProviderID,
		ScheduledAt:     request.ScheduledAt,
		DurationMinutes: duration,
		Status:          enums.BOOKING_STATUS_PENDING,
		Note:            request.Note,
	}
	if err := bs.bookingRepo.Create(booking); err != nil {
		return nil, err
	}
	return booking, nil
}

func (bs *BookingService) GetBooking(userID, bookingID uint) (*models.Booking, error) {
	booking, err := bs.bookingRepo.FindByID(bookingID)
	if err != nil {
		return nil, errs.ErrBookingNotFound
	}
	if booking.BuyerID != userID && booking.ProviderID != userID {
		return nil, errs.ErrUnauthorized
	}
	return booking, nil
}

func (bs *BookingService) ListBookings(userID uint) ([]models.Booking, error) {
	return bs.bookingRepo.ListForUser(userID)
}

// UpdateStatus applies the lifecycle rules: the provider confirms or
// completes, either side cancels, and nothing moves out of a terminal state.
func (bs *BookingService) UpdateStatus(userID, bookingID uint, status string) (*models.Booking, error) {
	booking, err := bs.GetBooking(userID, bookingID)
	if err != nil {
		return nil, err
	}

	allowed := false
	switch status {
	case enums.BOOKING_STATUS_CONFIRMED:
		allowed = booking.Status == enums.BOOKING_STATUS_PENDING && userID == booking.ProviderID
	case enums.BOOKING_STATUS_COMPLETED:
		allowed = booking.Status == enums.BOOKING_STATUS_CONFIRMED && userID == booking.ProviderID
	case enums.BOOKING_STATUS_CANCELLED:
		allowed = booking.Status == enums.BOOKING_STATUS_PENDING ||
			booking.Status == enums.BOOKING_STATUS_CONFIRMED
	}
	if !allowed {
		return nil, errs.ErrInvalidBookingStatus
	}

	if err := bs.bookingRepo.UpdateStatus(bookingID, status); err != nil {
		return nil, err
	}
	booking.Status = status
	return booking, nil
}
