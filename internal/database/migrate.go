package database

import (
	"database/sql"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewGorm wraps an existing pool so that migration and seeding share the
// connection settings of the repositories.
func NewGorm(db *sql.DB) (*gorm.DB, error) {
	return gorm.Open(mysql.New(mysql.Config{Conn: db, SkipInitializeWithVersion: true}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}

// Migrate creates or alters tables in parent to child order.
func Migrate(gdb *gorm.DB, log *zap.Logger) error {
	if err := gdb.AutoMigrate(&userRow{}, &fieldRow{}, &bookingRow{}, &refreshTokenRow{}); err != nil {
		return err
	}
	log.Info("schema migrated", zap.Strings("tables", []string{"users", "fields", "bookings", "refresh_tokens"}))
	return nil
}
