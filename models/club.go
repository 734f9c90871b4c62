// models/club.go
package models

import "time"

type Club struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"not null;size:100" json:"name"`
	Email       string `gorm:"uniqueIndex;not null" json:"email"`
	Password    string `gorm:"not null" json:"-"`
	Description string `gorm:"type:text" json:"description"`
	LogoURL     string `json:"logo_url"`
	Website     string `json:"website"`

	Events   []Event   `gorm:"foreignKey:ClubID" json:"events,omitempty"`
	Sessions []Session `gorm:"foreignKey:ClubID" json:"sessions,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Club) TableName() string {
	return "clubs"
}

type Admin struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

func (Admin) TableName() string {
	return "admins"
}
