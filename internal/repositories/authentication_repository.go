package repositories

import (
	"errors"
	"time"

	"campusmarket/internal/models"
	"campusmarket/internal/utils"

	"gorm.io/gorm"
)

type AuthenticationRepository interface {
	CreateUser(user *models.User) (*models.User, error)
	FindByEmail(email string) *models.User
	FindByID(userID uint) (*models.User, error)
	GetAllUsersWithPagination(page, size int) (*models.GetUsersResponse, error)
	UpdateUser(request *models.UpdateUserRequest) (*models.User, error)
	UpdateProfilePhoto(userID uint, url string) error
	SetOnlineStatus(userID uint, online bool) (*time.Time, error)
}

type authenticationRepository struct {
	db *gorm.DB
}

func NewAuthenticationRepository(db *gorm.DB) AuthenticationRepository {
	return &authenticationRepository{db: db}
}

func (ar *authenticationRepository) CreateUser(user *models.User) (*models.User, error) {
	if err := ar.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (ar *authenticationRepository) FindByEmail(email string) *models.User {
	var user models.User
	result := ar.db.Where("email = ?", email).First(&user)
	if result.Error == nil && result.RowsAffected > 0 {
		return &user
	}
	return nil
}

func (ar *authenticationRepository) FindByID(userID uint) (*models.User, error) {
	var user models.User
	if err := ar.db.First(&user, userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (ar *authenticationRepository) GetAllUsersWithPagination(page, size int) (*models.GetUsersResponse, error) {
	var users []models.User
	var total int64

	err := ar.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Scopes(utils.Paginate(page, size)).
			Order("created_at DESC").
			Find(&users).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Count(&total).Error
	})
	if err != nil {
		return nil, err
	}

	userResponses := make([]*models.UserResponse, 0, len(users))
	for i := range users {
		userResponses = append(userResponses, users[i].ToUserResponse())
	}

	return &models.GetUsersResponse{
		Users: userResponses,
		Page:  page,
		Size:  size,
		Total: total,
	}, nil
}

func (ar *authenticationRepository) UpdateUser(request *models.UpdateUserRequest) (*models.User, error) {
	var user models.User
	if err := ar.db.First(&user, request.ID).Error; err != nil {
		return nil, err
	}
	if request.FirstName != "" {
		user.FirstName = request.FirstName
	}
	if request.LastName != "" {
		user.LastName = request.LastName
	}
	if request.Campus != nil {
		user.Campus = request.Campus
	}
	if request.Phone != nil {
		user.Phone = request.Phone
	}
	if err := ar.db.Save(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (ar *authenticationRepository) UpdateProfilePhoto(userID uint, url string) error {
	result := ar.db.Model(&models.User{}).Where("id = ?", userID).Update("profile_photo", url)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("user not found")
	}
	return nil
}

func (ar *authenticationRepository) SetOnlineStatus(userID uint, online bool) (*time.Time, error) {
	lastSeen := time.Now()
	err := ar.db.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{"is_online": online, "last_seen": lastSeen}).Error
	if err != nil {
		return nil, err
	}
	return &lastSeen, nil
}
