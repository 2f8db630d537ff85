package profiles

import (
	"context"
	"errors"
	"math"
	"time"

	"gorm.io/gorm"

	"findus-backend/internal/constants"
	"findus-backend/internal/models"
	"findus-backend/internal/pkg/validation"
)

var (
	ErrProfileNotFound   = errors.New("Profile not found. Please contact support.")
	ErrCraftsmanNotFound = errors.New("Craftsman not found")
	ErrInvalidCategory   = errors.New("Select a valid service category")
	ErrInvalidExperience = errors.New("Select a valid experience range")
	ErrInvalidPhone      = errors.New("Please enter a valid phone number.")
)

// Service reads and updates profiles, including the public craftsman page
// with its aggregate stats.
type Service struct {
	DB *gorm.DB
}

// CustomerInput carries the editable customer profile fields.
type CustomerInput struct {
	Address    string `json:"address" form:"address"`
	City       string `json:"city" form:"city"`
	State      string `json:"state" form:"state"`
	Country    string `json:"country" form:"country"`
	PostalCode string `json:"postal_code" form:"postal_code"`
	Phone      string `json:"phone" form:"phone"`
}

// GetCustomer loads a customer profile by its ID.
func (s *Service) GetCustomer(ctx context.Context, profileID uint) (*models.CustomerProfile, error) {
	var p models.CustomerProfile
	if err := s.DB.WithContext(ctx).First(&p, profileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

// UpdateCustomer applies the contact fields.
func (s *Service) UpdateCustomer(ctx context.Context, profileID uint, in CustomerInput) (*models.CustomerProfile, error) {
	if in.Phone != "" && !validation.IsValidPhone(in.Phone) {
		return nil, ErrInvalidPhone
	}
	p, err := s.GetCustomer(ctx, profileID)
	if err != nil {
		return nil, err
	}
	p.Address = in.Address
	p.City = in.City
	p.State = in.State
	p.Country = in.Country
	p.PostalCode = in.PostalCode
	p.Phone = in.Phone
	if err := s.DB.WithContext(ctx).Save(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// CraftsmanInput carries the editable craftsman business fields.
type CraftsmanInput struct {
	BusinessName      string `json:"business_name" form:"business_name"`
	ServiceCategory   string `json:"service_category" form:"service_category"`
	ServicesOffered   string `json:"services_offered" form:"services_offered"`
	ServiceArea       string `json:"service_area" form:"service_area"`
	Phone             string `json:"phone" form:"phone"`
	YearsOfExperience string `json:"years_of_experience" form:"years_of_experience"`
	ProfilePhotoURL   string `json:"profile_photo_url" form:"profile_photo_url"`
	LicenseNumber     string `json:"license_number" form:"license_number"`
	Description       string `json:"description" form:"description"`
}

// GetCraftsman loads a craftsman profile by its ID.
func (s *Service) GetCraftsman(ctx context.Context, profileID uint) (*models.CraftsmanProfile, error) {
	var p models.CraftsmanProfile
	if err := s.DB.WithContext(ctx).First(&p, profileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

// UpdateCraftsman applies the business fields.
func (s *Service) UpdateCraftsman(ctx context.Context, profileID uint, in CraftsmanInput) (*models.CraftsmanProfile, error) {
	if in.ServiceCategory != "" && !constants.IsServiceCategory(in.ServiceCategory) {
		return nil, ErrInvalidCategory
	}
	if in.YearsOfExperience != "" && !constants.IsExperienceBucket(in.YearsOfExperience) {
		return nil, ErrInvalidExperience
	}
	if in.Phone != "" && !validation.IsValidPhone(in.Phone) {
		return nil, ErrInvalidPhone
	}
	p, err := s.GetCraftsman(ctx, profileID)
	if err != nil {
		return nil, err
	}
	p.BusinessName = in.BusinessName
	p.ServiceCategory = in.ServiceCategory
	p.ServicesOffered = in.ServicesOffered
	p.ServiceArea = in.ServiceArea
	p.Phone = in.Phone
	p.YearsOfExperience = in.YearsOfExperience
	if in.ProfilePhotoURL != "" {
		p.ProfilePhotoURL = in.ProfilePhotoURL
	}
	p.LicenseNumber = in.LicenseNumber
	p.Description = in.Description
	if err := s.DB.WithContext(ctx).Save(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteCraftsman removes the profile and everything hanging off it:
// services, their reviews and bookmarks. Irreversible.
func (s *Service) DeleteCraftsman(ctx context.Context, profileID uint) (string, error) {
	p, err := s.GetCraftsman(ctx, profileID)
	if err != nil {
		return "", err
	}
	name := p.BusinessName

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var serviceIDs []uint
		if err := tx.Model(&models.Service{}).
			Where("craftsman_id = ?", profileID).
			Pluck("id", &serviceIDs).Error; err != nil {
			return err
		}
		if len(serviceIDs) > 0 {
			if err := tx.Where("service_id IN ?", serviceIDs).Delete(&models.Review{}).Error; err != nil {
				return err
			}
			if err := tx.Where("service_id IN ?", serviceIDs).Delete(&models.SavedService{}).Error; err != nil {
				return err
			}
			if err := tx.Where("craftsman_id = ?", profileID).Delete(&models.Service{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(p).Error
	})
	if err != nil {
		return "", err
	}
	return name, nil
}

// CraftsmanStats are the aggregates shown on the public profile.
type CraftsmanStats struct {
	TotalServices int64     `json:"total_services"`
	TotalReviews  int64     `json:"total_reviews"`
	AvgRating     float64   `json:"avg_rating"`
	MemberSince   time.Time `json:"member_since"`
}

// PublicStats computes the public profile aggregates from the review set.
func (s *Service) PublicStats(ctx context.Context, craftsman *models.CraftsmanProfile) (*CraftsmanStats, error) {
	stats := &CraftsmanStats{MemberSince: craftsman.CreatedAt}

	if err := s.DB.WithContext(ctx).Model(&models.Service{}).
		Where("craftsman_id = ? AND service_status = ?", craftsman.ID, constants.StatusActive).
		Count(&stats.TotalServices).Error; err != nil {
		return nil, err
	}

	reviewScope := s.DB.WithContext(ctx).Model(&models.Review{}).
		Joins("JOIN services ON services.id = reviews.service_id").
		Where("services.craftsman_id = ?", craftsman.ID)
	if err := reviewScope.Count(&stats.TotalReviews).Error; err != nil {
		return nil, err
	}
	if stats.TotalReviews > 0 {
		var avg float64
		row := s.DB.WithContext(ctx).Model(&models.Review{}).
			Joins("JOIN services ON services.id = reviews.service_id").
			Where("services.craftsman_id = ?", craftsman.ID).
			Select("AVG(reviews.rating)").Row()
		if err := row.Scan(&avg); err != nil {
			return nil, err
		}
		stats.AvgRating = math.Round(avg*10) / 10
	}
	return stats, nil
}

// GetPublicCraftsman loads a craftsman by ID for the public page.
func (s *Service) GetPublicCraftsman(ctx context.Context, craftsmanID uint) (*models.CraftsmanProfile, error) {
	var p models.CraftsmanProfile
	if err := s.DB.WithContext(ctx).First(&p, craftsmanID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCraftsmanNotFound
		}
		return nil, err
	}
	return &p, nil
}
