package model

import "time"

// UserRole distinguishes regular subjects from administrators. Security
// officers authenticate through their own table.
type UserRole string

const (
	UserRoleSubject UserRole = "subject"
	UserRoleAdmin   UserRole = "admin"
)

// User is an employee account. Registration and credential management are
// owned by the account subsystem; this service reads users to resolve
// booking and check-in subjects and updates only the profile allow-list.
type User struct {
	ID                string    `gorm:"primaryKey;size:36" json:"id"`
	Email             string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash      string    `gorm:"size:255;not null" json:"-"`
	FirstName         string    `gorm:"size:128;not null" json:"firstName"`
	LastName          string    `gorm:"size:128;not null" json:"lastName"`
	Phone             string    `gorm:"size:32" json:"phone"`
	BuildingID        string    `gorm:"size:36;index" json:"buildingId"`
	LaptopModel       string    `gorm:"size:256" json:"laptopModel"`
	LaptopAssetNumber string    `gorm:"size:128" json:"laptopAssetNumber"`
	PhotoURL          string    `gorm:"size:512" json:"photoUrl"`
	Role              UserRole  `gorm:"size:16;not null;default:'subject'" json:"role"`
	IsActive          bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt         time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt         time.Time `gorm:"not null" json:"updatedAt"`
}
