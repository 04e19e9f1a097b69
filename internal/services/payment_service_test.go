package services

import (
	"context"
	"testing"

	"campusmarket/internal/enums"
	"campusmarket/internal/errs"
	"campusmarket/internal/gateway"
	"campusmarket/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newPaymentServiceForTest(gatewayStatus string) (*PaymentService, *fakePaymentRepository, *fakeBookingRepository, *fakePaymentGateway) {
	paymentRepo := newFakePaymentRepository()
	bookingRepo := newFakeBookingRepository(&models.Booking{
		Model:      gorm.Model{ID: 1},
		ListingID:  10,
		BuyerID:    2,
		ProviderID: 5,
		Status:     enums.BOOKING_STATUS_PENDING,
	})
	listingRepo := newFakeListingRepository(tutoringListing())
	momo := &fakePaymentGateway{status: gatewayStatus}
	return NewPaymentService(paymentRepo, bookingRepo, listingRepo, momo), paymentRepo, bookingRepo, momo
}

func TestInitiatePayment(t *testing.T) {
	service, _, _, _ := newPaymentServiceForTest(gateway.StatusSuccessful)

	payment, err := service.InitiatePayment(2, &models.InitiatePaymentRequestBody{
		BookingID: 1,
		Phone:     "+233201234567",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, payment.Reference)
	assert.Equal(t, int64(5000), payment.Amount)
	assert.Equal(t, "GHS", payment.Currency)
	assert.Equal(t, enums.PAYMENT_STATUS_PENDING, payment.Status)

	// only the buyer can pay for their booking
	_, err = service.InitiatePayment(5, &models.InitiatePaymentRequestBody{BookingID: 1})
	assert.ErrorIs(t, err, errs.ErrUnauthorized)
}

func TestVerifyPaymentConfirmsBooking(t *testing.T) {
	service, _, bookingRepo, momo := newPaymentServiceForTest(gateway.StatusSuccessful)

	payment, err := service.InitiatePayment(2, &models.InitiatePaymentRequestBody{BookingID: 1})
	require.NoError(t, err)

	verified, err := service.VerifyPayment(context.Background(), 2, payment.Reference)
	require.NoError(t, err)
	assert.Equal(t, enums.PAYMENT_STATUS_VERIFIED, verified.Status)
	require.NotNil(t, verified.VerifiedAt)

	booking, err := bookingRepo.FindByID(1)
	require.NoError(t, err)
	assert.Equal(t, enums.BOOKING_STATUS_CONFIRMED, booking.Status)

	// re-verification settles from the stored row, not the gateway
	again, err := service.VerifyPayment(context.Background(), 2, payment.Reference)
	require.NoError(t, err)
	assert.Equal(t, enums.PAYMENT_STATUS_VERIFIED, again.Status)
	assert.Equal(t, 1, momo.calls)
}

func TestVerifyPaymentFailure(t *testing.T) {
	service, paymentRepo, bookingRepo, _ := newPaymentServiceForTest("FAILED")

	payment, err := service.InitiatePayment(2, &models.InitiatePaymentRequestBody{BookingID: 1})
	require.NoError(t, err)

	_, err = service.VerifyPayment(context.Background(), 2, payment.Reference)
	assert.ErrorIs(t, err, errs.ErrPaymentVerification)

	stored, err := paymentRepo.FindByReference(payment.Reference)
	require.NoError(t, err)
	assert.Equal(t, enums.PAYMENT_STATUS_FAILED, stored.Status)

	booking, err := bookingRepo.FindByID(1)
	require.NoError(t, err)
	assert.Equal(t, enums.BOOKING_STATUS_PENDING, booking.Status)
}

func TestVerifyPaymentUnknownReference(t *testing.T) {
	service, _, _, _ := newPaymentServiceForTest(gateway.StatusSuccessful)

	_, err := service.VerifyPayment(context.Background(), 2, "no-such-reference")
	assert.ErrorIs(t, err, errs.ErrPaymentNotFound)
}

func TestGetInvoice(t *testing.T) {
	service, _, _, _ := newPaymentServiceForTest(gateway.StatusSuccessful)

	payment, err := service.InitiatePayment(2, &models.InitiatePaymentRequestBody{BookingID: 1})
	require.NoError(t, err)
	_, err = service.VerifyPayment(context.Background(), 2, payment.Reference)
	require.NoError(t, err)

	invoice, err := service.GetInvoice(2, 1)
	require.NoError(t, err)
	assert.Equal(t, "Calculus tutoring", invoice.ListingTitle)
	assert.Equal(t, int64(5000), invoice.Total)
	require.NotNil(t, invoice.Payment)
	assert.Equal(t, enums.PAYMENT_STATUS_VERIFIED, invoice.Payment.Status)

	// the provider can pull the invoice too, strangers cannot
	_, err = service.GetInvoice(5, 1)
	assert.NoError(t, err)
	_, err = service.GetInvoice(7, 1)
	assert.ErrorIs(t, err, errs.ErrUnauthorized)
}
