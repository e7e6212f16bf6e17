package model

import "time"

// Device — IoT-устройство пациента.
type Device struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID int64  `gorm:"not null;index" json:"user_id"`

	// Связи
	User *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	Name       string `gorm:"size:100;not null" json:"name"`
	DeviceType string `gorm:"size:50;not null" json:"device_type"` // pulse_oximeter, thermometer, bp_monitor...
	Status     string `gorm:"size:20;not null;default:active" json:"status"`
	Battery    int    `gorm:"not null;default:100" json:"battery"`

	LastSeen  *time.Time `json:"last_seen"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
}
