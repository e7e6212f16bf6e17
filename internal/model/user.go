package model

import "time"

// User — серверная модель пациента.
type User struct {
	ID           int64  `gorm:"primaryKey"`
	Email        string `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`

	FirstName string `gorm:"size:100"`
	LastName  string `gorm:"size:100"`
	Role      string `gorm:"size:30;not null;default:patient"` // patient | doctor | admin
	IsActive  bool   `gorm:"not null;default:true"`

	LastLogin *time.Time
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// FullName собирает отображаемое имя из частей.
func (u *User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.LastName
	}
}
