package models

import (
	"time"
)

// SavedService records a customer's bookmark of a service. One row per
// (customer, service) pair.
type SavedService struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	CustomerID uint            `gorm:"column:customer_id;not null;uniqueIndex:idx_saved_customer_service" json:"customer_id"`
	Customer   CustomerProfile `gorm:"foreignKey:CustomerID" json:"-"`
	ServiceID  uint            `gorm:"column:service_id;not null;uniqueIndex:idx_saved_customer_service" json:"service_id"`
	Service    Service         `gorm:"foreignKey:ServiceID" json:"service"`
	CreatedAt  time.Time       `json:"created_at"`
}

func (SavedService) TableName() string {
	return "saved_services"
}
