package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Username     string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	ShortCode    string         `gorm:"type:varchar(8);uniqueIndex;not null" json:"short_code"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	Email        *string        `gorm:"type:varchar(255)" json:"email,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Tasks  []Task      `gorm:"foreignKey:OwnerID" json:"-"`
	Shares []TaskShare `gorm:"foreignKey:RecipientID" json:"-"`
}
