package handlers

import (
	"net/http"

	"campusmarket/internal/errs"
	"campusmarket/internal/models"
	"campusmarket/internal/msgs"
	"campusmarket/internal/utils"

	"github.com/gin-gonic/gin"
)

// CreateListing godoc
// @Summary      Publish a new service listing
// @Tags         marketplace
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Success      200  {object}  models.Response
// @Failure      400  {object}  models.Response
// @Router       /listings [post]
func (rh *RestHandler) CreateListing(ctx *gin.Context) {
	providerID := utils.GetUserIdFromContext(ctx)
	if providerID < 1 {
		unauthorized(ctx)
		return
	}

	var request models.CreateListingRequestBody
	if err := ctx.ShouldBindJSON(&request); err != nil {
		badRequest(ctx, errs.ErrInvalidRequestBody)
		return
	}

	listing, err := rh.listingService.CreateListing(providerID, &request)
	if err != nil {
		badRequest(ctx, err)
		return
	}
	ok(ctx, listing)
}

// GetListings godoc
// @Summary      Browse active listings
// @Tags         marketplace
// @Produce      json
// @Success      200  {object}  models.Response
// @Router       /listings [get]
func (rh *RestHandler) GetListings(ctx *gin.Context) {
	page, size := paginationParams(ctx)
	category := ctx.Query("category")

	response, err := rh.listingService.ListActive(page, size, category)
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{err},
		})
		return
	}
	ok(ctx, response)
}

func (rh *RestHandler) GetSingleListing(ctx *gin.Context) {
	listingID, err := uintParam(ctx, "id")
	if err != nil {
		badRequest(ctx, errs.ErrInvalidParams)
		return
	}
	listing, err := rh.listingService.GetListing(listingID)
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusNotFound, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{err},
		})
		return
	}
	ok(ctx, listing)
}

func (rh *RestHandler) GetListingReviews(ctx *gin.Context) {
	listingID, err := uintParam(ctx, "id")
	if err != nil {
		badRequest(ctx, errs.ErrInvalidParams)
		return
	}
	reviews, err := rh.listingService.ListReviews(listingID)
	if err != nil {
		badRequest(ctx, err)
		return
	}
	ok(ctx, reviews)
}

// CreateBooking godoc
// @Summary      Book a listing for a future time slot
// @Tags         marketplace
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Success      200  {object}  models.Response
// @Failure      400  {object}  models.Response
// @Router       /bookings [post]
func (rh *RestHandler) CreateBooking(ctx *gin.Context) {
	buyerID := utils.GetUserIdFromContext(ctx)
	if buyerID < 1 {
		unauthorized(ctx)
		return
	}

	var request models.CreateBookingRequestBody
	if err := ctx.ShouldBindJSON(&request); err != nil {
		badRequest(ctx, errs.ErrInvalidRequestBody)
		return
	}

	booking, err := rh.bookingService.CreateBooking(buyerID, &request)
	if err != nil {
		badRequest(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgBookingCreated,
		Data:    booking,
	})
}

func (rh *RestHandler) GetBookings(ctx *gin.Context) {
	userID := utils.GetUserIdFromContext(ctx)
	if userID < 1 {
		unauthorized(ctx)
		return
	}
	bookings, err := rh.bookingService.ListBookings(userID)
	if err != nil {
		badRequest(ctx, err)
		return
	}
	ok(ctx, bookings)
}

func (rh *RestHandler) GetSingleBooking(ctx *gin.Context) {
	userID := utils.GetUserIdFromContext(ctx)
	if userID < 1 {
		unauthorized(ctx)
		return
	}
	bookingID, err := uintParam(ctx, "id")
	if err != nil {
		badRequest(ctx, errs.ErrInvalidParams)
		return
	}
	booking, err := rh.bookingService.GetBooking(userID, bookingID)
	if err != nil {
		badRequest(ctx, err)
		return
	}
	ok(ctx, booking)
}

func (rh *RestHandler) UpdateBookingStatus(ctx *gin.Context) {
	userID := utils.GetUserIdFromContext(ctx)
	if userID < 1 {
		unauthorized(ctx)
		return
	}
	bookingID, err := uintParam(ctx, "id")
	if err != nil {
		badRequest(ctx, errs.ErrInvalidParams)
		return
	}

	var request models.UpdateBookingStatusRequestBody
	if err := ctx.ShouldBindJSON(&request); err != nil {
		badRequest(ctx, errs.ErrInvalidRequestBody)
		return
	}

	booking, err := rh.bookingService.UpdateStatus(userID, bookingID, request.Status)
	if err != nil {
		badRequest(ctx, err)
		return
	}
	ok(ctx, booking)
}

// CreateReview godoc
// @Summary      Review a completed booking
// @Tags         marketplace
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Success      200  {object}  models.Response
// @Failure      400  {object}  models.Response
// @Router       /reviews [post]
func (rh *RestHandler) CreateReview(ctx *gin.Context) {
	reviewerID := utils.GetUserIdFromContext(ctx)
	if reviewerID < 1 {
		unauthorized(ctx)
		return
	}

	var request models.CreateReviewRequestBody
	if err := ctx.ShouldBindJSON(&request); err != nil {
		badRequest(ctx, errs.ErrInvalidRequestBody)
		return
	}

	review, err := rh.reviewService.CreateReview(reviewerID, &request)
	if err != nil {
		badRequest(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgReviewCreated,
		Data:    review,
	})
}

// InitiatePayment godoc
// @Summary      Start a mobile-money payment for a booking
// @Tags         marketplace
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Success      200  {object}  models.Response
// @Failure      400  {object}  models.Response
// @Router       /payments [post]
func (rh *RestHandler) InitiatePayment(ctx *gin.Context) {
	buyerID := utils.GetUserIdFromContext(ctx)
	if buyerID < 1 {
		unauthorized(ctx)
		return
	}

	var request models.InitiatePaymentRequestBody
	if err := ctx.ShouldBindJSON(&request); err != nil {
		badRequest(ctx, errs.ErrInvalidRequestBody)
		return
	}

	payment, err := rh.paymentService.InitiatePayment(buyerID, &request)
	if err != nil {
		badRequest(ctx, err)
		return
	}
	ok(ctx, payment)
}

func (rh *RestHandler) VerifyPayment(ctx *gin.Context) {
	viewerID := utils.GetUserIdFromContext(ctx)
	if viewerID < 1 {
		unauthorized(ctx)
		return
	}

	var request models.VerifyPaymentRequestBody
	if err := ctx.ShouldBindJSON(&request); err != nil {
		badRequest(ctx, errs.ErrInvalidRequestBody)
		return
	}

	payment, err := rh.paymentService.VerifyPayment(ctx.Request.Context(), viewerID, request.Reference)
	if err != nil {
		badRequest(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgPaymentVerified,
		Data:    payment,
	})
}

func (rh *RestHandler) GetInvoice(ctx *gin.Context) {
	viewerID := utils.GetUserIdFromContext(ctx)
	if viewerID < 1 {
		unauthorized(ctx)
		return
	}
	bookingID, err := uintParam(ctx, "id")
	if err != nil {
		badRequest(ctx, errs.ErrInvalidParams)
		return
	}
	invoice, err := rh.paymentService.GetInvoice(viewerID, bookingID)
	if err != nil {
		badRequest(ctx, err)
		return
	}
	ok(ctx, invoice)
}

func ok(ctx *gin.Context, data any) {
	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    data,
	})
}

func badRequest(ctx *gin.Context, err error) {
	ctx.AbortWithStatusJSON(http.StatusBadRequest, models.Response{
		Success: false,
		Message: msgs.MsgOperationFailed,
		Errors:  []error{err},
	})
}

func unauthorized(ctx *gin.Context) {
	ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
		Success: false,
		Message: msgs.MsgOperationFailed,
		Errors:  []error{errs.ErrUnauthorized},
	})
}
