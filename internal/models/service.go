package models

import (
	"time"

	"gorm.io/datatypes"

	"findus-backend/internal/constants"
)

// Service is a listing published by a craftsman.
type Service struct {
	ID                uint                        `gorm:"primaryKey" json:"id"`
	CraftsmanID       uint                        `gorm:"column:craftsman_id;not null;index" json:"craftsman_id"`
	Craftsman         CraftsmanProfile            `gorm:"foreignKey:CraftsmanID" json:"-"`
	Title             string                      `gorm:"not null" json:"title"`
	Category          string                      `gorm:"type:varchar(50);not null;index" json:"category"`
	Description       string                      `json:"description"`
	PriceType         string                      `gorm:"column:price_type;type:varchar(10);not null" json:"price_type"`
	HourlyRate        float64                     `gorm:"column:hourly_rate;type:decimal(8,2)" json:"hourly_rate"`
	FixedPrice        float64                     `gorm:"column:fixed_price;type:decimal(8,2)" json:"fixed_price"`
	EstimatedDuration string                      `gorm:"column:estimated_duration" json:"estimated_duration"`
	MinHours          string                      `gorm:"column:min_hours" json:"min_hours"`
	ImageURL          string                      `gorm:"column:image_url" json:"image_url"`
	Availability      string                      `gorm:"type:varchar(20);default:'immediate'" json:"availability"`
	JobSize           string                      `gorm:"column:job_size;type:varchar(20);default:'medium'" json:"job_size"`
	MaterialsIncluded bool                        `gorm:"column:materials_included;default:false" json:"materials_included"`
	TravelFee         float64                     `gorm:"column:travel_fee;type:decimal(6,2)" json:"travel_fee"`
	Features          datatypes.JSONSlice[string] `json:"features"`
	ServiceStatus     string                      `gorm:"column:service_status;type:varchar(100)" json:"service_status"`
	CreatedAt         time.Time                   `json:"created_at"`
	UpdatedAt         time.Time                   `json:"updated_at"`
}

func (Service) TableName() string {
	return "services"
}

// EffectivePrice is the derived comparison price: hourly rate for hourly
// pricing, fixed price for fixed pricing, zero otherwise. Never stored.
func (s *Service) EffectivePrice() float64 {
	switch s.PriceType {
	case constants.PriceHourly:
		return s.HourlyRate
	case constants.PriceFixed:
		return s.FixedPrice
	}
	return 0
}

// HasFeature reports whether the service carries the given feature tag.
func (s *Service) HasFeature(tag string) bool {
	for _, f := range s.Features {
		if f == tag {
			return true
		}
	}
	return false
}
