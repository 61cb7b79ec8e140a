package models

import "time"

type Project struct {
	ID          string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Title       string    `gorm:"size:191;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Category    string    `gorm:"size:64;index" json:"category"`
	// Price in rupees; converted to paise when an order is created.
	Price     float64   `gorm:"type:decimal(12,2);not null" json:"price"`
	Delivery  int       `gorm:"column:delivery_days;default:7" json:"delivery_days"`
	Status    string    `gorm:"size:16;default:'Active'" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Project) TableName() string {
	return "projects"
}
