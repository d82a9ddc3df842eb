package models

import "time"

// Appointment statuses follow the console: Scheduled, Completed, Cancelled.
type Appointment struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	PatientID       uint      `gorm:"not null;index" json:"patientId"`
	DoctorID        uint      `gorm:"not null;index" json:"doctorId"`
	AppointmentDate time.Time `json:"appointmentDate"`
	Status          string    `gorm:"not null;default:'Scheduled'" json:"status"`
	Reason          string    `json:"reason"`
	Notes           string    `json:"notes"`
	Version         uint      `gorm:"not null;default:1" json:"version"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`

	Patient *Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor  *Doctor  `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}
