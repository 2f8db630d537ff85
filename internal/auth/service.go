package auth

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"findus-backend/internal/constants"
	"findus-backend/internal/models"
	"findus-backend/internal/pkg/validation"
)

const bcryptCost = 10

// Service handles registration, sign-in and password changes. The DB handle
// is explicit; nothing here touches ambient state.
type Service struct {
	DB *gorm.DB
}

// RegisterInput carries the shared account fields plus the contact fields
// that end up on the role profile.
type RegisterInput struct {
	Username  string `json:"username" form:"username"`
	FirstName string `json:"first_name" form:"first_name"`
	LastName  string `json:"last_name" form:"last_name"`
	Email     string `json:"email" form:"email"`
	Password  string `json:"password" form:"password"`
	Password2 string `json:"password2" form:"password2"`

	Address    string `json:"address" form:"address"`
	City       string `json:"city" form:"city"`
	State      string `json:"state" form:"state"`
	Country    string `json:"country" form:"country"`
	PostalCode string `json:"postal_code" form:"postal_code"`
	Phone      string `json:"phone" form:"phone"`
}

// Account pairs a user with the profile resolved for its account type. The
// profile is resolved exactly once, at registration or sign-in, never by
// probing for missing rows later.
type Account struct {
	User      *models.User
	ProfileID uint
}

func (s *Service) validateBase(ctx context.Context, in *RegisterInput) error {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)

	if in.Username == "" || in.FirstName == "" || in.LastName == "" || in.Email == "" || in.Password == "" {
		return ErrMissingFields
	}
	if !validation.IsValidUsername(in.Username) {
		return ErrInvalidUsername
	}
	if !validation.IsValidName(in.FirstName) || !validation.IsValidName(in.LastName) {
		return ErrInvalidName
	}
	if !validation.IsValidEmail(in.Email) {
		return ErrInvalidEmail
	}
	if !validation.IsValidPassword(in.Password) {
		return ErrInvalidPassword
	}
	if in.Password2 != "" && in.Password != in.Password2 {
		return ErrPasswordsDontMatch
	}
	if in.Phone != "" && !validation.IsValidPhone(in.Phone) {
		return ErrInvalidPhone
	}

	var existing models.User
	if err := s.DB.WithContext(ctx).Where("username = ?", in.Username).First(&existing).Error; err == nil {
		return ErrUsernameTaken
	}
	if err := s.DB.WithContext(ctx).Where("email = ?", in.Email).First(&existing).Error; err == nil {
		return ErrEmailTaken
	}
	return nil
}

func (s *Service) createUser(ctx context.Context, in RegisterInput, accountType string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: string(hash),
		AccountType:  accountType,
	}
	if err := s.DB.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

// RegisterCustomer creates a customer account with its profile. Contact
// fields are optional except phone.
func (s *Service) RegisterCustomer(ctx context.Context, in RegisterInput) (*Account, error) {
	if in.Phone == "" {
		return nil, ErrInvalidPhone
	}
	if err := s.validateBase(ctx, &in); err != nil {
		return nil, err
	}
	user, err := s.createUser(ctx, in, constants.AccountCustomer)
	if err != nil {
		return nil, err
	}
	profile := &models.CustomerProfile{
		UserID:     user.ID,
		Address:    in.Address,
		City:       in.City,
		State:      in.State,
		Country:    in.Country,
		PostalCode: in.PostalCode,
		Phone:      in.Phone,
	}
	if err := s.DB.WithContext(ctx).Create(profile).Error; err != nil {
		return nil, err
	}
	return &Account{User: user, ProfileID: profile.ID}, nil
}

// RegisterCraftsman creates a craftsman account with its profile. Address,
// city, state, country, postal code and phone are all required; the business
// fields are filled in later from the profile editor.
func (s *Service) RegisterCraftsman(ctx context.Context, in RegisterInput) (*Account, error) {
	if in.Address == "" || in.City == "" || in.State == "" || in.Country == "" || in.PostalCode == "" || in.Phone == "" {
		return nil, ErrMissingFields
	}
	if err := s.validateBase(ctx, &in); err != nil {
		return nil, err
	}
	user, err := s.createUser(ctx, in, constants.AccountCraftsman)
	if err != nil {
		return nil, err
	}
	profile := &models.CraftsmanProfile{
		UserID:     user.ID,
		Address:    in.Address,
		City:       in.City,
		State:      in.State,
		Country:    in.Country,
		PostalCode: in.PostalCode,
		Phone:      in.Phone,
	}
	if err := s.DB.WithContext(ctx).Create(profile).Error; err != nil {
		return nil, err
	}
	return &Account{User: user, ProfileID: profile.ID}, nil
}

// SignIn verifies credentials and resolves the account's profile. The
// returned Account carries the profile ID for the session; the caller picks
// the dashboard destination from User.AccountType.
func (s *Service) SignIn(ctx context.Context, username, password string) (*Account, error) {
	if username == "" || password == "" {
		return nil, ErrCredentialsRequired
	}
	var user models.User
	if err := s.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrWrongCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrWrongCredentials
	}

	switch user.AccountType {
	case constants.AccountCustomer:
		var p models.CustomerProfile
		if err := s.DB.WithContext(ctx).Where("user_id = ?", user.ID).First(&p).Error; err != nil {
			return nil, ErrUnknownAccountType
		}
		return &Account{User: &user, ProfileID: p.ID}, nil
	case constants.AccountCraftsman:
		var p models.CraftsmanProfile
		if err := s.DB.WithContext(ctx).Where("user_id = ?", user.ID).First(&p).Error; err != nil {
			return nil, ErrUnknownAccountType
		}
		return &Account{User: &user, ProfileID: p.ID}, nil
	}
	return nil, ErrUnknownAccountType
}

// ChangePassword verifies the old password and stores a new one.
func (s *Service) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword, newPassword2 string) error {
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, userID).Error; err != nil {
		return ErrNotAuthenticated
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)) != nil {
		return ErrOldPasswordIncorrect
	}
	if newPassword != newPassword2 {
		return ErrPasswordsDontMatch
	}
	if !validation.IsValidPassword(newPassword) {
		return ErrInvalidPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Model(&user).Update("password_hash", string(hash)).Error
}
