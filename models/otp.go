// models/otp.go
package models

import "time"

// EmailOTP is a short-lived one-time code delivered by the mailer collaborator.
type EmailOTP struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Email     string    `gorm:"not null;index" json:"email"`
	Code      string    `gorm:"not null;size:10" json:"-"`
	Purpose   string    `gorm:"size:30" json:"purpose"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (EmailOTP) TableName() string {
	return "email_otps"
}
