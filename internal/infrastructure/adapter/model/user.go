package model

import (
	"time"
)

// User represents the database model for users
type User struct {
	ID                string `gorm:"primaryKey;size:255"`
	Name              string `gorm:"size:255"`
	Email             string `gorm:"size:255"`
	GatewayCustomerID string `gorm:"size:255"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
