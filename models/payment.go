package models

import "time"

const (
	PaymentStatusCreated = "Created"
	PaymentStatusPaid    = "Paid"
	PaymentStatusFailed  = "Failed"
)

type Payment struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	UserID    uint    `gorm:"not null;index" json:"user_id"`
	ProjectID string  `gorm:"type:varchar(64);not null;index" json:"project_id"`
	// Gateway-assigned order id, e.g. order_Nxxxxxxxxxxxxx.
	OrderID   string  `gorm:"type:varchar(64);not null;uniqueIndex" json:"order_id"`
	PaymentID *string `gorm:"type:varchar(64)" json:"payment_id,omitempty"`
	Receipt   string  `gorm:"type:varchar(40);not null" json:"receipt"`
	// Amount in the smallest currency unit (paise).
	Amount    int64     `gorm:"not null" json:"amount"`
	Currency  string    `gorm:"size:8;default:'INR'" json:"currency"`
	Status    string    `gorm:"size:16;default:'Created'" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Payment) TableName() string {
	return "payments"
}
