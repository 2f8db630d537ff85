package listings

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"findus-backend/internal/constants"
	"findus-backend/internal/models"
)

var (
	ErrServiceNotFound     = errors.New("Service not found")
	ErrTitleRequired       = errors.New("Title is required")
	ErrInvalidCategory     = errors.New("Select a valid service category")
	ErrInvalidPriceType    = errors.New("Select a valid price type")
	ErrHourlyRateRequired  = errors.New("Hourly rate is required for hourly pricing")
	ErrFixedPriceRequired  = errors.New("Fixed price is required for fixed pricing")
	ErrInvalidAvailability = errors.New("Select a valid availability")
	ErrInvalidJobSize      = errors.New("Select a valid job size")
)

// Service owns the service catalog: browsing, detail, and the craftsman's
// own CRUD. The DB handle is request-scoped via context.
type Service struct {
	DB *gorm.DB
}

// annotated returns a services query joined to craftsman profiles with the
// review aggregates computed per row. Missing reviews mean rating 0.0 and
// count 0.
func (s *Service) annotated(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx).Model(&models.Service{}).
		Select("services.*, "+effectivePriceExpr+" AS effective_price, "+
			"COALESCE(AVG(reviews.rating), 0) AS avg_rating, "+
			"COUNT(DISTINCT reviews.id) AS review_count").
		Joins("JOIN craftsman_profiles ON craftsman_profiles.id = services.craftsman_id").
		Joins("LEFT JOIN reviews ON reviews.service_id = services.id").
		Group("services.id")
}

// Browse runs the filter/sort/paginate pipeline over active services.
func (s *Service) Browse(ctx context.Context, p BrowseParams) (*BrowseResult, error) {
	var total int64
	countQ := s.DB.WithContext(ctx).Model(&models.Service{}).
		Joins("JOIN craftsman_profiles ON craftsman_profiles.id = services.craftsman_id")
	if err := p.applyFilters(countQ).Count(&total).Error; err != nil {
		return nil, err
	}

	page, totalPages := Paginate(total, p.Page, p.PageSize)
	p.Page = page

	var views []ServiceView
	q := p.applyFilters(s.annotated(ctx)).
		Order(p.orderClause()).
		Limit(p.PageSize).
		Offset((page - 1) * p.PageSize)
	if err := q.Find(&views).Error; err != nil {
		return nil, err
	}

	return &BrowseResult{
		Services:   views,
		TotalCount: total,
		Page:       page,
		TotalPages: totalPages,
		PageSize:   p.PageSize,
		Params:     p,
	}, nil
}

// Detail is a single annotated service plus its reviews, the rating
// distribution, and up to 4 related services (same category, verified
// craftsmen, newest first, self excluded).
type Detail struct {
	Service            ServiceView     `json:"service"`
	Reviews            []models.Review `json:"reviews"`
	RatingDistribution map[int]float64 `json:"rating_distribution"`
	RelatedServices    []ServiceView   `json:"related_services"`
}

// GetDetail loads the detail view for one service.
func (s *Service) GetDetail(ctx context.Context, serviceID uint) (*Detail, error) {
	var view ServiceView
	err := s.annotated(ctx).Where("services.id = ?", serviceID).First(&view).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}

	var reviews []models.Review
	if err := s.DB.WithContext(ctx).
		Where("service_id = ?", serviceID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, err
	}

	var related []ServiceView
	err = s.annotated(ctx).
		Where("services.category = ?", view.Category).
		Where("services.id <> ?", serviceID).
		Where("services.service_status = ?", constants.StatusActive).
		Where("craftsman_profiles.is_verified = ?", true).
		Order("services.created_at DESC, services.id DESC").
		Limit(4).
		Find(&related).Error
	if err != nil {
		return nil, err
	}

	return &Detail{
		Service:            view,
		Reviews:            reviews,
		RatingDistribution: RatingDistribution(reviews),
		RelatedServices:    related,
	}, nil
}

// RatingDistribution converts a review set into a percentage per star.
func RatingDistribution(reviews []models.Review) map[int]float64 {
	dist := map[int]float64{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	if len(reviews) == 0 {
		return dist
	}
	for _, r := range reviews {
		if r.Rating >= 1 && r.Rating <= 5 {
			dist[r.Rating]++
		}
	}
	for star := range dist {
		dist[star] = dist[star] / float64(len(reviews)) * 100
	}
	return dist
}

// OwnerServices pages through one craftsman's services, newest first.
func (s *Service) OwnerServices(ctx context.Context, craftsmanID uint, pageNum int) (*BrowseResult, error) {
	var total int64
	if err := s.DB.WithContext(ctx).Model(&models.Service{}).
		Where("craftsman_id = ?", craftsmanID).
		Count(&total).Error; err != nil {
		return nil, err
	}
	page, totalPages := Paginate(total, pageNum, OwnerPageSize)

	var views []ServiceView
	err := s.annotated(ctx).
		Where("services.craftsman_id = ?", craftsmanID).
		Order("services.created_at DESC, services.id DESC").
		Limit(OwnerPageSize).
		Offset((page - 1) * OwnerPageSize).
		Find(&views).Error
	if err != nil {
		return nil, err
	}
	return &BrowseResult{
		Services:   views,
		TotalCount: total,
		Page:       page,
		TotalPages: totalPages,
		PageSize:   OwnerPageSize,
	}, nil
}

// PublicServices pages through a craftsman's active services for the public
// profile.
func (s *Service) PublicServices(ctx context.Context, craftsmanID uint, pageNum int) (*BrowseResult, error) {
	var total int64
	if err := s.DB.WithContext(ctx).Model(&models.Service{}).
		Where("craftsman_id = ? AND service_status = ?", craftsmanID, constants.StatusActive).
		Count(&total).Error; err != nil {
		return nil, err
	}
	page, totalPages := Paginate(total, pageNum, ProfilePageSize)

	var views []ServiceView
	err := s.annotated(ctx).
		Where("services.craftsman_id = ? AND services.service_status = ?", craftsmanID, constants.StatusActive).
		Order("services.created_at DESC, services.id DESC").
		Limit(ProfilePageSize).
		Offset((page - 1) * ProfilePageSize).
		Find(&views).Error
	if err != nil {
		return nil, err
	}
	return &BrowseResult{
		Services:   views,
		TotalCount: total,
		Page:       page,
		TotalPages: totalPages,
		PageSize:   ProfilePageSize,
	}, nil
}

// ServiceInput carries the editable listing fields.
type ServiceInput struct {
	Title             string   `json:"title" form:"title"`
	Category          string   `json:"category" form:"category"`
	Description       string   `json:"description" form:"description"`
	PriceType         string   `json:"price_type" form:"price_type"`
	HourlyRate        float64  `json:"hourly_rate" form:"hourly_rate"`
	FixedPrice        float64  `json:"fixed_price" form:"fixed_price"`
	EstimatedDuration string   `json:"estimated_duration" form:"estimated_duration"`
	MinHours          string   `json:"min_hours" form:"min_hours"`
	ImageURL          string   `json:"image_url" form:"image_url"`
	Availability      string   `json:"availability" form:"availability"`
	JobSize           string   `json:"job_size" form:"job_size"`
	MaterialsIncluded bool     `json:"materials_included" form:"materials_included"`
	TravelFee         float64  `json:"travel_fee" form:"travel_fee"`
	Features          []string `json:"features" form:"features"`
}

func (in *ServiceInput) validate() error {
	if in.Title == "" {
		return ErrTitleRequired
	}
	if !constants.IsServiceCategory(in.Category) {
		return ErrInvalidCategory
	}
	switch in.PriceType {
	case constants.PriceHourly:
		if in.HourlyRate <= 0 {
			return ErrHourlyRateRequired
		}
	case constants.PriceFixed:
		if in.FixedPrice <= 0 {
			return ErrFixedPriceRequired
		}
	default:
		return ErrInvalidPriceType
	}
	if in.Availability == "" {
		in.Availability = "immediate"
	}
	if !constants.IsAvailability(in.Availability) {
		return ErrInvalidAvailability
	}
	if in.JobSize == "" {
		in.JobSize = "medium"
	}
	if !constants.IsJobSize(in.JobSize) {
		return ErrInvalidJobSize
	}
	tags := in.Features[:0]
	for _, f := range in.Features {
		if constants.IsServiceFeature(f) {
			tags = append(tags, f)
		}
	}
	in.Features = tags
	return nil
}

// CreateService publishes a new listing for the craftsman, status Active.
func (s *Service) CreateService(ctx context.Context, craftsmanID uint, in ServiceInput) (*models.Service, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	svc := &models.Service{
		CraftsmanID:       craftsmanID,
		Title:             in.Title,
		Category:          in.Category,
		Description:       in.Description,
		PriceType:         in.PriceType,
		HourlyRate:        in.HourlyRate,
		FixedPrice:        in.FixedPrice,
		EstimatedDuration: in.EstimatedDuration,
		MinHours:          in.MinHours,
		ImageURL:          in.ImageURL,
		Availability:      in.Availability,
		JobSize:           in.JobSize,
		MaterialsIncluded: in.MaterialsIncluded,
		TravelFee:         in.TravelFee,
		Features:          in.Features,
		ServiceStatus:     constants.StatusActive,
	}
	if err := s.DB.WithContext(ctx).Create(svc).Error; err != nil {
		return nil, err
	}
	return svc, nil
}

// GetOwnService loads a service scoped to its owner, for the edit flow.
func (s *Service) GetOwnService(ctx context.Context, craftsmanID, serviceID uint) (*models.Service, error) {
	var svc models.Service
	err := s.DB.WithContext(ctx).
		Where("id = ? AND craftsman_id = ?", serviceID, craftsmanID).
		First(&svc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}
	return &svc, nil
}

// UpdateService applies the input to an owned service. The status is left
// untouched.
func (s *Service) UpdateService(ctx context.Context, craftsmanID, serviceID uint, in ServiceInput) (*models.Service, error) {
	svc, err := s.GetOwnService(ctx, craftsmanID, serviceID)
	if err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	svc.Title = in.Title
	svc.Category = in.Category
	svc.Description = in.Description
	svc.PriceType = in.PriceType
	svc.HourlyRate = in.HourlyRate
	svc.FixedPrice = in.FixedPrice
	svc.EstimatedDuration = in.EstimatedDuration
	svc.MinHours = in.MinHours
	if in.ImageURL != "" {
		svc.ImageURL = in.ImageURL
	}
	svc.Availability = in.Availability
	svc.JobSize = in.JobSize
	svc.MaterialsIncluded = in.MaterialsIncluded
	svc.TravelFee = in.TravelFee
	svc.Features = in.Features
	if err := s.DB.WithContext(ctx).Save(svc).Error; err != nil {
		return nil, err
	}
	return svc, nil
}

// DeleteService removes an owned service. Irreversible; reviews and saved
// entries for it are removed with it.
func (s *Service) DeleteService(ctx context.Context, craftsmanID, serviceID uint) (string, error) {
	svc, err := s.GetOwnService(ctx, craftsmanID, serviceID)
	if err != nil {
		return "", err
	}
	title := svc.Title
	if err := s.DB.WithContext(ctx).Where("service_id = ?", serviceID).Delete(&models.Review{}).Error; err != nil {
		return "", err
	}
	if err := s.DB.WithContext(ctx).Where("service_id = ?", serviceID).Delete(&models.SavedService{}).Error; err != nil {
		return "", err
	}
	if err := s.DB.WithContext(ctx).Delete(svc).Error; err != nil {
		return "", err
	}
	return title, nil
}
