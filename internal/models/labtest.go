package models

import "time"

type LabTest struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PatientID uint      `gorm:"not null;index" json:"patientId"`
	TestName  string    `gorm:"not null" json:"testName"`
	TestType  string    `json:"testType"` // Blood, Urine, X-Ray, ...
	TestDate  time.Time `json:"testDate"`
	Status    string    `gorm:"not null;default:'Pending'" json:"status"` // Pending, InProgress, Completed
	Result    string    `json:"result"`
	Notes     string    `json:"notes"`
	Cost      float64   `json:"cost"`
	Version   uint      `gorm:"not null;default:1" json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Patient *Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}
