package models

import "time"

// EmailOTP is an ephemeral verification code. One row per send; deleted on
// first successful verification. Multiple live codes per email may coexist.
type EmailOTP struct {
	BaseModel

	Email     string    `gorm:"not null;index" json:"email"`
	Code      string    `gorm:"not null;size:6" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expiresAt"`
}
