package auth

import (
	"context"
	"strings"

	"eventhost-backend/internal/models"
	"eventhost-backend/internal/pkg/validation"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

type SignupInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Signup creates the User and its Host profile in one transaction. Every
// account owns exactly one Host from the moment it exists.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*models.User, *models.Host, error) {
	if in.Email == "" || in.Password == "" {
		return nil, nil, ErrEmailPasswordRequired
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if !validation.IsValidEmail(email) {
		return nil, nil, ErrInvalidEmail
	}
	if !validation.IsValidPassword(in.Password) {
		return nil, nil, ErrInvalidPassword
	}

	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, nil, err
	}
	if count > 0 {
		return nil, nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	user := &models.User{Email: email, PasswordHash: string(hash)}
	host := &models.Host{Email: email, Name: in.Name}

	tx := s.DB.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()
	if err := tx.Create(user).Error; err != nil {
		tx.Rollback()
		return nil, nil, err
	}
	host.UserID = user.UserID
	if err := tx.Create(host).Error; err != nil {
		tx.Rollback()
		return nil, nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, nil, err
	}
	return user, host, nil
}

type SigninInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signin finds the user by email and verifies the password.
func (s *Service) Signin(ctx context.Context, in SigninInput) (*models.User, *models.Host, error) {
	if in.Email == "" || in.Password == "" {
		return nil, nil, ErrEmailPasswordRequired
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))

	var user models.User
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, ErrInvalidEmail
		}
		return nil, nil, err
	}
	if user.PasswordHash == "" {
		return nil, nil, ErrInvalidEmail
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, nil, ErrIncorrectPassword
	}

	var host models.Host
	if err := s.DB.WithContext(ctx).Where("user_id = ?", user.UserID).First(&host).Error; err != nil {
		return nil, nil, err
	}
	return &user, &host, nil
}
