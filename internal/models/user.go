package models

import "time"

type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleWaiter UserRole = "waiter"
)

type User struct {
	ID           uint     `gorm:"primaryKey"`
	FirstName    string   `gorm:"size:100;not null"`
	LastName     string   `gorm:"size:100;not null"`
	Email        string   `gorm:"size:100;uniqueIndex;not null"`
	StaffCode    string   `gorm:"size:20;uniqueIndex;not null"` // GGAA + isim baş harfleri, ör: 1909JD
	PasswordHash string   `gorm:"size:255;not null"`
	Role         UserRole `gorm:"size:20;not null"`
	IsActive     bool     `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
