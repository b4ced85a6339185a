package database

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// The structs below describe the schema for migration and seeding only.
// Runtime queries go through the repository package.

type userRow struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement"`
	Email        string    `gorm:"size:191;not null;uniqueIndex"`
	Name         string    `gorm:"size:100;not null"`
	Phone        string    `gorm:"size:20;not null;default:''"`
	PasswordHash string    `gorm:"size:255;not null"`
	Role         string    `gorm:"size:10;not null;default:user"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

func (userRow) TableName() string { return "users" }

type fieldRow struct {
	ID          uint64          `gorm:"primaryKey;autoIncrement"`
	Name        string          `gorm:"size:100;not null"`
	Description string          `gorm:"type:text"`
	HourlyRate  decimal.Decimal `gorm:"type:decimal(12,2);not null;check:chk_fields_hourly_rate,hourly_rate >= 0"`
	PhotoURLs   datatypes.JSON  `gorm:"column:photo_urls;type:json"`
	Facilities  datatypes.JSON  `gorm:"type:json"`
	Status      string          `gorm:"size:10;not null;default:active;index"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

func (fieldRow) TableName() string { return "fields" }

type bookingRow struct {
	ID         uint64          `gorm:"primaryKey;autoIncrement"`
	UserID     uint64          `gorm:"not null;index"`
	FieldID    uint64          `gorm:"not null;index:idx_bookings_slot,priority:1"`
	Date       string          `gorm:"type:date;not null;index:idx_bookings_slot,priority:2"`
	StartTime  string          `gorm:"type:time;not null"`
	EndTime    string          `gorm:"type:time;not null;check:chk_bookings_window,end_time > start_time"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(12,2);not null;check:chk_bookings_price,total_price >= 0"`
	Status     string          `gorm:"size:16;not null;default:pending;index:idx_bookings_slot,priority:3"`
	Note       *string         `gorm:"type:text"`
	CreatedAt  time.Time       `gorm:"not null"`
	UpdatedAt  time.Time       `gorm:"not null"`

	User  userRow  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Field fieldRow `gorm:"foreignKey:FieldID;constraint:OnDelete:CASCADE"`
}

func (bookingRow) TableName() string { return "bookings" }

type refreshTokenRow struct {
	ID        uint64     `gorm:"primaryKey;autoIncrement"`
	UserID    uint64     `gorm:"not null;index"`
	TokenHash string     `gorm:"size:64;not null;uniqueIndex"`
	ExpiresAt time.Time  `gorm:"not null"`
	RevokedAt *time.Time
	CreatedAt time.Time `gorm:"not null"`

	User userRow `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (refreshTokenRow) TableName() string { return "refresh_tokens" }
