package services

import (
	"time"

	"campusmarket/configs"
	"campusmarket/internal/errs"
	"campusmarket/internal/models"
	"campusmarket/internal/repositories"
	"campusmarket/internal/utils"
	"campusmarket/internal/validators"
)

type AuthenticationService struct {
	authRepo repositories.AuthenticationRepository
	config   *configs.Config
}

func NewAuthenticationService(
	authRepo repositories.AuthenticationRepository,
	config *configs.Config,
) *AuthenticationService {
	return &AuthenticationService{
		authRepo: authRepo,
		config:   config,
	}
}

func (as *AuthenticationService) Register(user *models.User) (*models.User, []error) {
	var errors []error
	if as.CheckIfUserExists(user.Email) {
		errors = append(errors, errs.ErrUserAlreadyExists)
		return nil, errors
	}
	validationErrs := validators.ValidateUser(user)
	if len(validationErrs) > 0 {
		errors = append(errors, validationErrs...)
		return nil, errors
	}
	password, err := utils.HashPassword(user.Password)
	if err != nil {
		errors = append(errors, err)
		return nil, errors
	}
	user.PasswordHash = password
	created, createErr := as.authRepo.CreateUser(user)
	if createErr != nil {
		errors = append(errors, createErr)
		return nil, errors
	}
	return created, nil
}

func (as *AuthenticationService) Login(loginData *models.LoginRequestBody) (*models.LoginResponse, []error) {
	var errors []error

	user := as.authRepo.FindByEmail(loginData.Email)
	if user == nil {
		errors = append(errors, errs.ErrUserNotFound)
		return nil, errors
	}
	if err := utils.CompareHashAndPassword(user.PasswordHash, loginData.Password); err != nil {
		errors = append(errors, errs.ErrWrongPassword)
		return nil, errors
	}

	expiration := time.Now().Add(time.Duration(as.config.Viper.GetInt("jwt.expiration_time")) * time.Second)
	token, jwtErr := utils.CreateJwtToken(
		user.ID,
		user.Email,
		user.FirstName,
		user.LastName,
		as.config.JwtKey(),
		expiration,
	)
	if jwtErr != nil {
		errors = append(errors, jwtErr)
		return nil, errors
	}

	return &models.LoginResponse{
		User:  *user,
		Token: token,
	}, nil
}

func (as *AuthenticationService) CheckIfUserExists(email string) bool {
	return as.authRepo.FindByEmail(email) != nil
}

func (as *AuthenticationService) GetAllUsersWithPagination(page, size int) (*models.GetUsersResponse, []error) {
	var errors []error
	if page < 1 || size < 1 {
		errors = append(errors, errs.ErrInvalidPageOrSize)
		return nil, errors
	}
	response, err := as.authRepo.GetAllUsersWithPagination(page, size)
	if err != nil {
		errors = append(errors, err)
		return nil, errors
	}
	return response, nil
}

func (as *AuthenticationService) GetSingleUser(userID uint) (*models.UserResponse, []error) {
	var errors []error
	user, err := as.authRepo.FindByID(userID)
	if err != nil {
		errors = append(errors, errs.ErrUserNotFound)
		return nil, errors
	}
	return user.ToUserResponse(), nil
}

func (as *AuthenticationService) UpdateUser(request *models.UpdateUserRequest) (*models.ProfileResponse, []error) {
	var errors []error
	user, err := as.authRepo.UpdateUser(request)
	if err != nil {
		errors = append(errors, err)
		return nil, errors
	}
	return user.ToProfileResponse(), nil
}

func (as *AuthenticationService) UpdateUserProfilePhoto(userID uint, url string) []error {
	if err := as.authRepo.UpdateProfilePhoto(userID, url); err != nil {
		return []error{err}
	}
	return nil
}

func (as *AuthenticationService) SetUserOnlineStatus(userID uint, online bool) (*time.Time, error) {
	return as.authRepo.SetOnlineStatus(userID, online)
}
