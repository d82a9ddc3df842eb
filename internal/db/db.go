package db

import (
	"errors"
	"fmt"
	"time"

	migrate "github.com/golang-migrate/migrate/v4"
	// Blank imports register the postgres driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/MATTHEWOGISI/OHMS-NEW/internal/models"
)

// Models in dependency order, shared by AutoMigrate and the test helpers.
func AllModels() []any {
	return []any{
		&models.Patient{}, &models.Doctor{}, &models.Appointment{},
		&models.Medicine{}, &models.Prescription{}, &models.PrescriptionItem{},
		&models.LabTest{},
		&models.Invoice{}, &models.InvoiceItem{}, &models.Payment{},
		&models.InvoiceSequence{},
	}
}

// Connect opens the store (postgres in production, sqlite for a file/URI DSN)
// with a short retry loop, verifies connectivity, and applies AutoMigrate.
func Connect(dsn string, log zerolog.Logger) (*gorm.DB, error) {
	dsn = NormalizeDSN(dsn)
	if dsn == "" {
		return nil, errors.New("database DSN is empty, check OHMS_DATABASE_DSN")
	}

	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	dial := gorm.Dialector(sqlite.Open(dsn))
	if IsPostgres(dsn) {
		dial = postgres.Open(dsn)
	}

	var conn *gorm.DB
	var err error
	for i := 0; i < 10; i++ {
		conn, err = gorm.Open(dial, cfg)
		if err == nil {
			break
		}
		log.Warn().Err(err).Msg("retrying db connection")
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("connect database after retries: %w", err)
	}
	if pingErr := conn.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}

	for _, m := range AllModels() {
		if migErr := conn.AutoMigrate(m); migErr != nil {
			return nil, fmt.Errorf("automigrate %T: %w", m, migErr)
		}
	}
	return conn, nil
}

// RunSQLMigrations executes the files in ./migrations via golang-migrate.
// Postgres only; sqlite deployments rely on AutoMigrate.
func RunSQLMigrations(dsn string) error {
	dsn = NormalizeDSN(dsn)
	if !IsPostgres(dsn) {
		return errors.New("sql migrations require a postgres DSN")
	}
	m, err := migrate.New("file://migrations", dsn)
	if err != nil {
		return err
	}
	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}

// Seed inserts a small demo dataset. Idempotent: skips when a patient with
// the seed email already exists.
func Seed(conn *gorm.DB) error {
	var count int64
	if err := conn.Model(&models.Patient{}).Where("email = ?", "jane.doe@example.com").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	patient := models.Patient{
		FirstName:   "Jane",
		LastName:    "Doe",
		DateOfBirth: time.Date(1988, 4, 12, 0, 0, 0, 0, time.UTC),
		Gender:      "Female",
		PhoneNumber: "555-0101",
		Email:       "jane.doe@example.com",
		Address:     "12 Main St",
	}
	if err := conn.Create(&patient).Error; err != nil {
		return err
	}
	doctor := models.Doctor{
		FirstName:      "Gregory",
		LastName:       "House",
		Specialization: "Diagnostics",
		PhoneNumber:    "555-0199",
		Email:          "g.house@example.com",
		LicenseNumber:  "MD-10001",
	}
	if err := conn.Create(&doctor).Error; err != nil {
		return err
	}
	medicine := models.Medicine{
		Name:          "Paracetamol",
		Description:   "Analgesic",
		Manufacturer:  "Acme Pharma",
		Price:         4.50,
		StockQuantity: 250,
		Unit:          "Tablets",
		ExpiryDate:    time.Now().UTC().AddDate(2, 0, 0),
	}
	return conn.Create(&medicine).Error
}
