package database

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Babyhex7/Web-Booking-Lapangan-Bola/internal/model"
	"github.com/Babyhex7/Web-Booking-Lapangan-Bola/internal/utils"
)

// SeedOptions controls the initial data written by Seed.
type SeedOptions struct {
	AdminEmail    string
	AdminPassword string
	BcryptCost    int
}

// Seed inserts an administrator and a few demo fields when the tables are
// empty.  It is idempotent.
func Seed(gdb *gorm.DB, opts SeedOptions, log *zap.Logger) error {
	return gdb.Transaction(func(tx *gorm.DB) error {
		if err := seedAdmin(tx, opts, log); err != nil {
			return err
		}
		return seedFields(tx, log)
	})
}

func seedAdmin(tx *gorm.DB, opts SeedOptions, log *zap.Logger) error {
	email := strings.ToLower(strings.TrimSpace(opts.AdminEmail))
	var existing userRow
	err := tx.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	hash, err := utils.HashPassword(opts.AdminPassword, opts.BcryptCost)
	if err != nil {
		return err
	}
	admin := userRow{Email: email, Name: "Administrator", PasswordHash: hash, Role: model.RoleAdmin}
	if err := tx.Create(&admin).Error; err != nil {
		return err
	}
	log.Info("default admin seeded", zap.String("email", email))
	return nil
}

func seedFields(tx *gorm.DB, log *zap.Logger) error {
	var count int64
	if err := tx.Model(&fieldRow{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	fields := []fieldRow{
		{Name: "Lapangan Futsal A", Description: "Lapangan indoor dengan rumput sintetis", HourlyRate: decimal.NewFromInt(150000), Facilities: jsonList("Parkir", "Toilet", "Ruang ganti"), PhotoURLs: jsonList()},
		{Name: "Lapangan Futsal B", Description: "Lapangan indoor dengan lantai vinyl", HourlyRate: decimal.NewFromInt(120000), Facilities: jsonList("Parkir", "Toilet"), PhotoURLs: jsonList()},
		{Name: "Mini Soccer", Description: "Lapangan outdoor dengan lampu malam", HourlyRate: decimal.NewFromInt(200000), Facilities: jsonList("Parkir", "Kantin", "Tribun"), PhotoURLs: jsonList()},
	}
	for i := range fields {
		fields[i].Status = model.FieldActive
	}
	if err := tx.Create(&fields).Error; err != nil {
		return err
	}
	log.Info("demo fields seeded", zap.Int("count", len(fields)))
	return nil
}

func jsonList(items ...string) datatypes.JSON {
	if items == nil {
		items = []string{}
	}
	b, _ := json.Marshal(items)
	return datatypes.JSON(b)
}
