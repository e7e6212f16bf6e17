package model

import "time"

// Уровни алертов.
const (
	AlertInfo     = "info"
	AlertWarning  = "warning"
	AlertCritical = "critical"
)

// Alert — уведомление о выходе показателя за пороги.
type Alert struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID int64  `gorm:"not null;index" json:"user_id"`

	User *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	Type      string  `gorm:"size:20;not null" json:"type"` // info | warning | critical
	VitalType string  `gorm:"size:30;not null" json:"vital_type"`
	Value     float64 `json:"value"`
	Message   string  `gorm:"size:255;not null" json:"message"`

	Acknowledged bool      `gorm:"not null;default:false" json:"acknowledged"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}
