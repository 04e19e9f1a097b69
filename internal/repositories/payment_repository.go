package repositories

import (
	"errors"
	"time"

	"campusmarket/internal/models"

	"gorm.io/gorm"
)

type PaymentRepository interface {
	Create(payment *models.Payment) error
	FindByReference(reference string) (*models.Payment, error)
	FindByBookingID(bookingID uint) (*models.Payment, error)
	SetStatus(paymentID uint, status string, verifiedAt *time.Time) error
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (pr *paymentRepository) Create(payment *models.Payment) error {
	return pr.db.Create(payment).Error
}

func (pr *paymentRepository) FindByReference(reference string) (*models.Payment, error) {
	var payment models.Payment
	if err := pr.db.Where("reference = ?", reference).First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (pr *paymentRepository) FindByBookingID(bookingID uint) (*models.Payment, error) {
	var payment models.Payment
	err := pr.db.Where("booking_id = ?", bookingID).Order("created_at DESC").First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

func (pr *paymentRepository) SetStatus(paymentID uint, status string, verifiedAt *time.Time) error {
	updates := map[string]interface{}{"status": status}
	if verifiedAt != nil {
		updates["verified_at"] = verifiedAt
	}
	return pr.db.Model(&models.Payment{}).
		Where("id = ?", paymentID).
		Updates(updates).Error
}
