// models/student.go
package models

import (
	"time"
)

type Student struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Name       string `gorm:"not null;size:100" json:"name"`
	Email      string `gorm:"uniqueIndex;not null" json:"email"`
	Password   string `gorm:"not null" json:"-"`
	RollNumber string `gorm:"size:20;index" json:"roll_number"`
	Branch     string `gorm:"size:100" json:"branch"`
	Year       int    `gorm:"default:1" json:"year"`
	Phone      string `gorm:"size:20" json:"phone"`
	ResumeURL  string `json:"resume_url"`
	Verified   bool   `gorm:"default:false" json:"verified"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	LastLogin time.Time `json:"last_login"`
}

func (Student) TableName() string {
	return "students"
}
