package repositories

import (
	"campusmarket/internal/models"
	"campusmarket/internal/utils"

	"gorm.io/gorm"
)

type ListingRepository interface {
	Create(listing *models.Listing) error
	FindByID(listingID uint) (*models.Listing, error)
	ListActive(page, size int, category string) (*models.ListingListResponse, error)
	ListByProvider(providerID uint) ([]models.Listing, error)
	SetActive(listingID uint, active bool) error
}

type listingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

func (lr *listingRepository) Create(listing *models.Listing) error {
	return lr.db.Create(listing).Error
}

func (lr *listingRepository) FindByID(listingID uint) (*models.Listing, error) {
	var listing models.Listing
	if err := lr.db.First(&listing, listingID).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

func (lr *listingRepository) ListActive(page, size int, category string) (*models.ListingListResponse, error) {
	var listings []models.Listing
	var total int64

	err := lr.db.Transaction(func(tx *gorm.DB) error {
		query := tx.Model(&models.Listing{}).Where("active = ?", true)
		if category != "" {
			query = query.Where("category = ?", category)
		}
		if err := query.Count(&total).Error; err != nil {
			return err
		}
		return query.
			Scopes(utils.Paginate(page, size)).
			Order("created_at DESC").
			Find(&listings).Error
	})
	if err != nil {
		return nil, err
	}

	return &models.ListingListResponse{
		Listings: listings,
		Page:     page,
		Size:     size,
		Total:    total,
	}, nil
}

func (lr *listingRepository) ListByProvider(providerID uint) ([]models.Listing, error) {
	var listings []models.Listing
	if err := lr.db.
		Where("provider_id = ?", providerID).
		Order("created_at DESC").
		Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

func (lr *listingRepository) SetActive(listingID uint, active bool) error {
	return lr.db.Model(&models.Listing{}).
		Where("id = ?", listingID).
		Update("active", active).Error
}
