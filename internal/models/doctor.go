package models

import "time"

type Doctor struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	FirstName      string    `gorm:"not null" json:"firstName"`
	LastName       string    `gorm:"not null" json:"lastName"`
	Specialization string    `json:"specialization"`
	PhoneNumber    string    `json:"phoneNumber"`
	Email          string    `json:"email"`
	LicenseNumber  string    `json:"licenseNumber"`
	Version        uint      `gorm:"not null;default:1" json:"version"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
