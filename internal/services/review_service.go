package services

import (
	"campusmarket/internal/enums"
	"campusmarket/internal/errs"
	"campusmarket/internal/models"
	"campusmarket/internal/repositories"
)

type ReviewService struct {
	reviewRepo  repositories.ReviewRepository
	bookingRepo repositories.BookingRepository
}

func NewReviewService(
	reviewRepo repositories.ReviewRepository,
	bookingRepo repositories.BookingRepository,
) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		bookingRepo: bookingRepo,
	}
}

// CreateReview accepts one review per completed booking, written by its
// buyer.
func (rs *ReviewService) CreateReview(reviewerID uint, request *models.CreateReviewRequestBody) (*models.Review, error) {
	if reviewerID == 0 {
		return nil, errs.ErrUnauthorized
	}
	if request.Rating < 1 || request.Rating > 5 {
		return nil, errs.ErrInvalidRating
	}

	booking, err := rs.bookingRepo.FindByID(request.BookingID)
	if err != nil {
		return nil, errs.ErrBookingNotFound
	}
	if booking.BuyerID != reviewerID {
		return nil, errs.ErrReviewNotBuyer
	}
	if booking.Status != enums.BOOKING_STATUS_COMPLETED {
		return nil, errs.ErrBookingNotCompleted
	}

	existing, err := rs.reviewRepo.FindByBookingID(request.BookingID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errs.ErrReviewAlreadyExists
	}

	review := &models.Review{
		ListingID:  booking.ListingID,
		BookingID:  booking.ID,
		ReviewerID: reviewerID,
		Rating:     request.Rating,
		Comment:    request.Comment,
	}
	if err := rs.reviewRepo.Create(review); err != nil {
		return nil, err
	}
	return review, nil
}
