package models

import (
	"time"
)

// Review is a customer's rating of a service. A customer can review a given
// service at most once (composite unique index).
type Review struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	ServiceID  uint            `gorm:"column:service_id;not null;uniqueIndex:idx_reviews_service_customer" json:"service_id"`
	Service    Service         `gorm:"foreignKey:ServiceID" json:"-"`
	CustomerID uint            `gorm:"column:customer_id;not null;uniqueIndex:idx_reviews_service_customer" json:"customer_id"`
	Customer   CustomerProfile `gorm:"foreignKey:CustomerID" json:"-"`
	Rating     int             `gorm:"not null" json:"rating"`
	Title      string          `gorm:"type:varchar(200)" json:"title"`
	Comment    string          `json:"comment"`
	IsVerified bool            `gorm:"column:is_verified;default:false" json:"is_verified"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func (Review) TableName() string {
	return "reviews"
}
