package models

import "time"

// Prescription owns its items; deleting one removes the items too.
type Prescription struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	PatientID        uint      `gorm:"not null;index" json:"patientId"`
	DoctorID         uint      `gorm:"not null;index" json:"doctorId"`
	PrescriptionDate time.Time `json:"prescriptionDate"`
	Diagnosis        string    `json:"diagnosis"`
	Status           string    `gorm:"not null;default:'Active'" json:"status"` // Active, Dispensed, Cancelled
	Version          uint      `gorm:"not null;default:1" json:"version"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`

	Patient *Patient           `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor  *Doctor            `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Items   []PrescriptionItem `gorm:"foreignKey:PrescriptionID" json:"items,omitempty"`
}

type PrescriptionItem struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	PrescriptionID uint   `gorm:"not null;index" json:"prescriptionId"`
	MedicineID     uint   `gorm:"not null" json:"medicineId"`
	Quantity       int    `json:"quantity"`
	Dosage         string `json:"dosage"`
	Instructions   string `json:"instructions"`

	Medicine *Medicine `gorm:"foreignKey:MedicineID" json:"medicine,omitempty"`
}
