package model

import (
	"time"
)

// User represents the database model for users
type User struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement"`
	Email        string    `gorm:"uniqueIndex:idx_users_email;not null;size:255"`
	PasswordHash *string   `gorm:"size:255"` // Nil for accounts created through an identity provider
	Name         string    `gorm:"not null;size:255"`
	Role         string    `gorm:"not null;size:20;default:user"`
	ExternalID   *string   `gorm:"index:idx_users_external_id;size:255"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
