package model

import (
	"time"
)

// Class represents the database model for scheduled classes
type Class struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	Title       string    `gorm:"not null;size:255"`
	Description *string   `gorm:"type:text"`
	ScheduledAt time.Time `gorm:"not null;index:idx_classes_scheduled_at"`
	Capacity    *int      `gorm:"check:chk_classes_capacity_non_negative,capacity >= 0"`
	Cost        int64     `gorm:"not null;check:chk_classes_cost_non_negative,cost >= 0"`
	CreatedBy   uint64    `gorm:"not null;index"`
	CreatedAt   time.Time `gorm:"not null"`

	// Define relationships
	Creator User `gorm:"foreignKey:CreatedBy;references:ID"`
}

// TableName specifies the table name for Class
func (Class) TableName() string {
	return "classes"
}
