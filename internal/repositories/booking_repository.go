package repositories

import (
	"time"

	"campusmarket/internal/enums"
	"campusmarket/internal/models"

	"gorm.io/gorm"
)

type BookingRepository interface {
	Create(booking *models.Booking) error
	FindByID(bookingID uint) (*models.Booking, error)
	HasOverlap(listingID uint, from, to time.Time) (bool, error)
	ListForUser(userID uint) ([]models.Booking, error)
	UpdateStatus(bookingID uint, status string) error
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (br *bookingRepository) Create(booking *models.Booking) error {
	return br.db.Create(booking).Error
}

func (br *bookingRepository) FindByID(bookingID uint) (*models.Booking, error) {
	var booking models.Booking
	if err := br.db.First(&booking, bookingID).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// HasOverlap reports whether a non-cancelled booking for the listing
// intersects the [from, to) window.
func (br *bookingRepository) HasOverlap(listingID uint, from, to time.Time) (bool, error) {
	var count int64
	err := br.db.Model(&models.Booking{}).
		Where("listing_id = ? AND status <> ?", listingID, enums.BOOKING_STATUS_CANCELLED).
		Where("scheduled_at < ? AND scheduled_at + (duration_minutes * interval '1 minute') > ?", to, from).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (br *bookingRepository) ListForUser(userID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := br.db.
		Where("buyer_id = ? OR provider_id = ?", userID, userID).
		Order("scheduled_at DESC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (br *bookingRepository) UpdateStatus(bookingID uint, status string) error {
	return br.db.Model(&models.Booking{}).
		Where("id = ?", bookingID).
		Update("status", status).Error
}
