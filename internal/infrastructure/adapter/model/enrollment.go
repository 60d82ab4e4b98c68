package model

import (
	"time"
)

// Enrollment links a user to a booked class.
// The composite unique index is what rejects concurrent duplicate bookings.
type Enrollment struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	UserID    uint64    `gorm:"not null;uniqueIndex:idx_enrollments_user_class,priority:1"`
	ClassID   uint64    `gorm:"not null;uniqueIndex:idx_enrollments_user_class,priority:2;index:idx_enrollments_class"`
	CreatedAt time.Time `gorm:"not null"`

	// Define relationships
	User  User  `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
	Class Class `gorm:"foreignKey:ClassID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Enrollment
func (Enrollment) TableName() string {
	return "enrollments"
}
