package model

import "time"

// VitalSign — одно измерение показателей пациента.
// Поле может быть nil, если конкретный датчик его не прислал.
type VitalSign struct {
	ID       int64   `gorm:"primaryKey" json:"id"`
	UserID   int64   `gorm:"not null;index:idx_vitals_user_recorded" json:"user_id"`
	DeviceID *string `gorm:"type:uuid;index" json:"device_id"`

	User   *User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Device *Device `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`

	HeartRate   *float64 `json:"heart_rate"`
	SpO2        *float64 `gorm:"column:spo2" json:"spo2"`
	Temperature *float64 `json:"temperature"`
	BPSystolic  *float64 `gorm:"column:bp_systolic" json:"bp_systolic"`
	BPDiastolic *float64 `gorm:"column:bp_diastolic" json:"bp_diastolic"`

	RecordedAt time.Time `gorm:"not null;index:idx_vitals_user_recorded" json:"recorded_at"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"-"`
}
