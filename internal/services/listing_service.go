package services

import (
	"strings"

	"campusmarket/internal/errs"
	"campusmarket/internal/models"
	"campusmarket/internal/repositories"
)

type ListingService struct {
	listingRepo repositories.ListingRepository
	reviewRepo  repositories.ReviewRepository
}

func NewListingService(
	listingRepo repositories.ListingRepository,
	reviewRepo repositories.ReviewRepository,
) *ListingService {
	return &ListingService{
		listingRepo: listingRepo,
		reviewRepo:  reviewRepo,
	}
}

func (ls *ListingService) CreateListing(providerID uint, request *models.CreateListingRequestBody) (*models.Listing, error) {
	if providerID == 0 {
		return nil, errs.ErrUnauthorized
	}
	if strings.TrimSpace(request.Title) == "" || request.Price <= 0 {
		return nil, errs.ErrInvalidListing
	}
	listing := &models.Listing{
		ProviderID:  providerID,
		Title:       request.Title,
		Description: request.Description,
		Category:    request.Category,
		Price:       request.Price,
		Currency:    request.Currency,
		Active:      true,
	}
	if err := ls.listingRepo.Create(listing); err != nil {
		return nil, err
	}
	return listing, nil
}

func (ls *ListingService) GetListing(listingID uint) (*models.Listing, error) {
	listing, err := ls.listingRepo.FindByID(listingID)
	if err != nil {
		return nil, errs.ErrListingNotFound
	}
	return listing, nil
}

func (ls *ListingService) ListActive(page, size int, category string) (*models.ListingListResponse, error) {
	return ls.listingRepo.ListActive(page, size, category)
}

func (ls *ListingService) ListByProvider(providerID uint) ([]models.Listing, error) {
	return ls.listingRepo.ListByProvider(providerID)
}

func (ls *ListingService) ListReviews(listingID uint) ([]models.Review, error) {
	return ls.reviewRepo.ListForListing(listingID)
}
