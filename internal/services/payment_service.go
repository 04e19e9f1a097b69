package services

import (
	"context"
	"time"

	"campusmarket/internal/enums"
	"campusmarket/internal/errs"
	"campusmarket/internal/gateway"
	"campusmarket/internal/interfaces"
	"campusmarket/internal/models"
	"campusmarket/internal/repositories"

	"github.com/google/uuid"
)

// PaymentService runs the mobile-money flow: a payment row is created with a
// fresh reference, the customer approves the charge on their handset, and
// verification asks the gateway what happened to that reference.
type PaymentService struct {
	paymentRepo repositories.PaymentRepository
	bookingRepo repositories.BookingRepository
	listingRepo repositories.ListingRepository
	gateway     interfaces.PaymentGateway
}

func NewPaymentService(
	paymentRepo repositories.PaymentRepository,
	bookingRepo repositories.BookingRepository,
	listingRepo repositories.ListingRepository,
	paymentGateway interfaces.PaymentGateway,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		bookingRepo: bookingRepo,
		listingRepo: listingRepo,
		gateway:     paymentGateway,
	}
}

func (ps *PaymentService) InitiatePayment(buyerID uint, request *models.InitiatePaymentRequestBody) (*models.Payment, error) {
	if buyerID == 0 {
		return nil, errs.ErrUnauthorized
	}
	booking, err := ps.bookingRepo.FindByID(request.BookingID)
	if err != nil {
		return nil, errs.ErrBookingNotFound
	}
	if booking.BuyerID != buyerID {
		return nil, errs.ErrUnauthorized
	}
	listing, err := ps.listingRepo.FindByID(booking.ListingID)
	if err != nil {
		return nil, errs.ErrListingNotFound
	}

	payment := &models.Payment{
		BookingID: booking.ID,
		Reference: uuid.NewString(),
		Amount:    listing.Price,
		Currency:  listing.Currency,
		Phone:     request.Phone,
		Status:    enums.PAYMENT_STATUS_PENDING,
	}
	if err := ps.paymentRepo.Create(payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// VerifyPayment is idempotent: re-verifying an already verified reference
// returns the settled row without touching the gateway again.
func (ps *PaymentService) VerifyPayment(ctx context.Context, viewerID uint, reference string) (*models.Payment, error) {
	if viewerID == 0 {
		return nil, errs.ErrUnauthorized
	}
	payment, err := ps.paymentRepo.FindByReference(reference)
	if err != nil {
		return nil, errs.ErrPaymentNotFound
	}
	if payment.Status == enums.PAYMENT_STATUS_VERIFIED {
		return payment, nil
	}

	result, err := ps.gateway.VerifyTransaction(ctx, reference)
	if err != nil {
		return nil, err
	}

	if result.Status != gateway.StatusSuccessful {
		if err := ps.paymentRepo.SetStatus(payment.ID, enums.PAYMENT_STATUS_FAILED, nil); err != nil {
			return nil, err
		}
		payment.Status = enums.PAYMENT_STATUS_FAILED
		return payment, errs.ErrPaymentVerification
	}

	verifiedAt := time.Now()
	if err := ps.paymentRepo.SetStatus(payment.ID, enums.PAYMENT_STATUS_VERIFIED, &verifiedAt); err != nil {
		return nil, err
	}
	payment.Status = enums.PAYMENT_STATUS_VERIFIED
	payment.VerifiedAt = &verifiedAt

	// A verified payment confirms the booking.
	booking, err := ps.bookingRepo.FindByID(payment.BookingID)
	if err == nil && booking.Status == enums.BOOKING_STATUS_PENDING {
		if err := ps.bookingRepo.UpdateStatus(booking.ID, enums.BOOKING_STATUS_CONFIRMED); err != nil {
			return payment, err
		}
	}
	return payment, nil
}

func (ps *PaymentService) GetInvoice(viewerID, bookingID uint) (*models.InvoiceResponse, error) {
	if viewerID == 0 {
		return nil, errs.ErrUnauthorized
	}
	booking, err := ps.bookingRepo.FindByID(bookingID)
	if err != nil {
		return nil, errs.ErrInvoiceNotFound
	}
	if booking.BuyerID != viewerID && booking.ProviderID != viewerID {
		return nil, errs.ErrUnauthorized
	}
	listing, err := ps.listingRepo.FindByID(booking.ListingID)
	if err != nil {
		return nil, errs.ErrListingNotFound
	}
	payment, err := ps.paymentRepo.FindByBookingID(bookingID)
	if err != nil {
		return nil, err
	}

	return &models.InvoiceResponse{
		Booking:      *booking,
		Payment:      payment,
		ListingTitle: listing.Title,
		Total:        listing.Price,
		Currency:     listing.Currency,
	}, nil
}
