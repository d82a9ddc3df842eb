package services

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"github.com/MATTHEWOGISI/OHMS-NEW/internal/cache"
	"github.com/MATTHEWOGISI/OHMS-NEW/internal/models"
)

const statsCacheKey = "dashboard:stats"

// DashboardStats is the management console overview: entity counts plus the
// revenue position derived from invoices.
type DashboardStats struct {
	Patients           int64   `json:"patients"`
	Doctors            int64   `json:"doctors"`
	Appointments       int64   `json:"appointments"`
	Prescriptions      int64   `json:"prescriptions"`
	LabTests           int64   `json:"labTests"`
	Invoices           int64   `json:"invoices"`
	RevenueCollected   float64 `json:"revenueCollected"`
	RevenueOutstanding float64 `json:"revenueOutstanding"`
}

type StatsService struct {
	DB    *gorm.DB
	Cache *cache.Cache // optional
}

func NewStatsService(db *gorm.DB, c *cache.Cache) *StatsService {
	return &StatsService{DB: db, Cache: c}
}

// Get computes the dashboard aggregates, serving from cache for a short TTL
// when one is configured.
func (s *StatsService) Get(ctx context.Context) (*DashboardStats, error) {
	if raw, ok := s.Cache.Get(ctx, statsCacheKey); ok {
		var cached DashboardStats
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return &cached, nil
		}
	}

	var stats DashboardStats
	counts := []struct {
		model any
		dst   *int64
	}{
		{&models.Patient{}, &stats.Patients},
		{&models.Doctor{}, &stats.Doctors},
		{&models.Appointment{}, &stats.Appointments},
		{&models.Prescription{}, &stats.Prescriptions},
		{&models.LabTest{}, &stats.LabTests},
		{&models.Invoice{}, &stats.Invoices},
	}
	for _, c := range counts {
		if err := s.DB.Model(c.model).Count(c.dst).Error; err != nil {
			return nil, err
		}
	}

	type sums struct {
		Collected   float64
		Outstanding float64
	}
	var row sums
	err := s.DB.Model(&models.Invoice{}).
		Select("COALESCE(SUM(paid_amount),0) AS collected, COALESCE(SUM(balance_amount),0) AS outstanding").
		Where("status <> ?", models.InvoiceStatusCancelled).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	stats.RevenueCollected = Round2(row.Collected)
	stats.RevenueOutstanding = Round2(row.Outstanding)

	if body, err := json.Marshal(&stats); err == nil {
		s.Cache.Set(ctx, statsCacheKey, string(body), 30*time.Second)
	}
	return &stats, nil
}
