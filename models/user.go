package models

import "time"

type User struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:100;not null" json:"name"`
	Phone         string    `gorm:"size:20;uniqueIndex;not null" json:"phone"`
	Email         *string   `gorm:"size:191" json:"email,omitempty"`
	Password      string    `gorm:"size:255;not null" json:"-"`
	College       *string   `gorm:"size:191" json:"college,omitempty"`
	PhoneVerified bool      `gorm:"default:false" json:"phone_verified"`
	Status        string    `gorm:"size:16;default:'Active'" json:"status"`
	CreatedAt     time.Time `json:"-"`
	UpdatedAt     time.Time `json:"-"`
}

func (User) TableName() string {
	return "users"
}
