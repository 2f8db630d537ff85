package models

import (
	"time"
)

// CraftsmanProfile is the service-provider side of an account.
type CraftsmanProfile struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	UserID            uint      `gorm:"column:user_id;not null;uniqueIndex" json:"user_id"`
	User              User      `gorm:"foreignKey:UserID" json:"-"`
	BusinessName      string    `gorm:"column:business_name" json:"business_name"`
	ServiceCategory   string    `gorm:"column:service_category;type:varchar(100)" json:"service_category"`
	ServicesOffered   string    `gorm:"column:services_offered" json:"services_offered"`
	ServiceArea       string    `gorm:"column:service_area" json:"service_area"`
	YearsOfExperience string    `gorm:"column:years_of_experience;type:varchar(20)" json:"years_of_experience"`
	ProfilePhotoURL   string    `gorm:"column:profile_photo_url" json:"profile_photo_url"`
	LicenseNumber     string    `gorm:"column:license_number" json:"license_number"`
	Description       string    `json:"description"`
	IsVerified        bool      `gorm:"column:is_verified;default:false" json:"is_verified"`
	Address           string    `json:"address"`
	City              string    `json:"city"`
	State             string    `json:"state"`
	Country           string    `json:"country"`
	PostalCode        string    `gorm:"column:postal_code" json:"postal_code"`
	Phone             string    `json:"phone"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (CraftsmanProfile) TableName() string {
	return "craftsman_profiles"
}

// HasCompleteProfile reports whether every field needed for a public listing
// presence is filled in.
func (p *CraftsmanProfile) HasCompleteProfile() bool {
	required := []string{
		p.BusinessName,
		p.ServiceCategory,
		p.ServicesOffered,
		p.ServiceArea,
		p.Phone,
		p.Description,
		p.Address,
		p.City,
		p.State,
		p.Country,
		p.PostalCode,
	}
	for _, f := range required {
		if f == "" {
			return false
		}
	}
	return true
}

// CustomerProfile is the customer side of an account. All contact fields are
// optional at registration time.
type CustomerProfile struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"column:user_id;not null;uniqueIndex" json:"user_id"`
	User       User      `gorm:"foreignKey:UserID" json:"-"`
	Address    string    `json:"address"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	Country    string    `json:"country"`
	PostalCode string    `gorm:"column:postal_code" json:"postal_code"`
	Phone      string    `json:"phone"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (CustomerProfile) TableName() string {
	return "customer_profiles"
}

// HasCompleteProfile for a customer only requires the contact basics.
func (p *CustomerProfile) HasCompleteProfile() bool {
	return p.Address != "" && p.City != "" && p.State != "" && p.Phone != ""
}
