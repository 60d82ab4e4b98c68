package model

import (
	"time"
)

// Profile holds the points balance of a user
type Profile struct {
	UserID    uint64    `gorm:"primaryKey;autoIncrement:false"`
	Points    int64     `gorm:"not null;default:0;check:chk_profiles_points_non_negative,points >= 0"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	// Define relationships
	User User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Profile
func (Profile) TableName() string {
	return "profiles"
}
