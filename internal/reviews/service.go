package reviews

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"findus-backend/internal/models"
)

var (
	ErrServiceNotFound = errors.New("Service not found")
	ErrAlreadyReviewed = errors.New("You have already reviewed this service")
	ErrInvalidRating   = errors.New("Rating must be between 1 and 5")
	ErrCommentRequired = errors.New("Comment is required")
)

// Service creates and lists reviews. Average rating and review count are
// never stored; they are aggregated where they are read.
type Service struct {
	DB *gorm.DB
}

// CreateInput carries the review form fields.
type CreateInput struct {
	Rating  int    `json:"rating" form:"rating"`
	Title   string `json:"title" form:"title"`
	Comment string `json:"comment" form:"comment"`
}

// Create records one review per (service, customer) pair. The existence
// check answers duplicates with a clean error; the composite unique index
// backstops races.
func (s *Service) Create(ctx context.Context, customerID, serviceID uint, in CreateInput) (*models.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, ErrInvalidRating
	}
	if in.Comment == "" {
		return nil, ErrCommentRequired
	}

	var svc models.Service
	if err := s.DB.WithContext(ctx).First(&svc, serviceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}

	var existing models.Review
	err := s.DB.WithContext(ctx).
		Where("service_id = ? AND customer_id = ?", serviceID, customerID).
		First(&existing).Error
	if err == nil {
		return nil, ErrAlreadyReviewed
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	review := &models.Review{
		ServiceID:  serviceID,
		CustomerID: customerID,
		Rating:     in.Rating,
		Title:      in.Title,
		Comment:    in.Comment,
	}
	if err := s.DB.WithContext(ctx).Create(review).Error; err != nil {
		return nil, ErrAlreadyReviewed
	}
	return review, nil
}

// ForService lists a service's reviews, newest first.
func (s *Service) ForService(ctx context.Context, serviceID uint) ([]models.Review, error) {
	var out []models.Review
	err := s.DB.WithContext(ctx).
		Where("service_id = ?", serviceID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}
