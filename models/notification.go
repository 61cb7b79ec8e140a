package models

import "time"

type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Type      string    `gorm:"size:32;default:'info'" json:"type"`
	Title     string    `gorm:"size:191;not null" json:"title"`
	Message   string    `gorm:"type:text" json:"message"`
	Read      bool      `gorm:"default:false;index" json:"read"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

func (Notification) TableName() string {
	return "notifications"
}
