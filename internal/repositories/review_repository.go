package repositories

import (
	"errors"

	"campusmarket/internal/models"

	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(review *models.Review) error
	FindByBookingID(bookingID uint) (*models.Review, error)
	ListForListing(listingID uint) ([]models.Review, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (rr *reviewRepository) Create(review *models.Review) error {
	return rr.db.Create(review).Error
}

func (rr *reviewRepository) FindByBookingID(bookingID uint) (*models.Review, error) {
	var review models.Review
	err := rr.db.Where("booking_id = ?", bookingID).First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}

func (rr *reviewRepository) ListForListing(listingID uint) ([]models.Review, error) {
	var reviews []models.Review
	if err := rr.db.
		Where("listing_id = ?", listingID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}
