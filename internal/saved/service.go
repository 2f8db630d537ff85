package saved

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"findus-backend/internal/listings"
	"findus-backend/internal/models"
)

var ErrServiceNotFound = errors.New("Service not found")

// Page size for the saved list.
const pageSize = 9

// Service manages a customer's bookmarks. Saving twice is an info outcome,
// not an error.
type Service struct {
	DB *gorm.DB
}

// SaveResult reports whether the save actually inserted a row.
type SaveResult struct {
	AlreadySaved bool
	Message      string
}

// Save bookmarks a service for the customer. Exactly one row per
// (customer, service) pair; the unique index backstops the existence check.
func (s *Service) Save(ctx context.Context, customerID, serviceID uint) (*SaveResult, error) {
	var svc models.Service
	if err := s.DB.WithContext(ctx).First(&svc, serviceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}

	var existing models.SavedService
	err := s.DB.WithContext(ctx).
		Where("customer_id = ? AND service_id = ?", customerID, serviceID).
		First(&existing).Error
	if err == nil {
		return &SaveResult{AlreadySaved: true, Message: "Service already saved."}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	entry := &models.SavedService{CustomerID: customerID, ServiceID: serviceID}
	if err := s.DB.WithContext(ctx).Create(entry).Error; err != nil {
		// Lost a race with a concurrent save; report the same info outcome.
		return &SaveResult{AlreadySaved: true, Message: "Service already saved."}, nil
	}
	return &SaveResult{Message: "Service saved successfully!"}, nil
}

// Unsave removes a bookmark; removing a missing one is an info outcome.
func (s *Service) Unsave(ctx context.Context, customerID, serviceID uint) (*SaveResult, error) {
	var svc models.Service
	if err := s.DB.WithContext(ctx).First(&svc, serviceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}

	res := s.DB.WithContext(ctx).
		Where("customer_id = ? AND service_id = ?", customerID, serviceID).
		Delete(&models.SavedService{})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return &SaveResult{AlreadySaved: false, Message: "Service was not in your saved list."}, nil
	}
	return &SaveResult{Message: "Service removed from saved list."}, nil
}

// ListResult is one page of bookmarks.
type ListResult struct {
	Saved      []models.SavedService
	TotalCount int64
	Page       int
	TotalPages int
	PageSize   int
}

// List pages through the customer's bookmarks, newest first, with the
// bookmarked service preloaded.
func (s *Service) List(ctx context.Context, customerID uint, pageNum int) (*ListResult, error) {
	var total int64
	if err := s.DB.WithContext(ctx).Model(&models.SavedService{}).
		Where("customer_id = ?", customerID).
		Count(&total).Error; err != nil {
		return nil, err
	}
	page, totalPages := listings.Paginate(total, pageNum, pageSize)

	var out []models.SavedService
	err := s.DB.WithContext(ctx).
		Preload("Service").
		Where("customer_id = ?", customerID).
		Order("created_at DESC, id DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return &ListResult{
		Saved:      out,
		TotalCount: total,
		Page:       page,
		TotalPages: totalPages,
		PageSize:   pageSize,
	}, nil
}
