package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/arnavshah/timetable-api-go/pkg/config"
)

// APIKey represents the api_keys table. Revoked keys are soft-deleted so a
// still-valid signature cannot register them again.
type APIKey struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Key        string         `gorm:"unique;not null" json:"-"`
	KeyPreview string         `json:"key_preview"`
	Name       string         `gorm:"not null" json:"name"`
	RateLimit  int            `gorm:"default:10000" json:"rate_limit"`
	CreatedAt  time.Time      `json:"created_at"`
	LastUsed   *time.Time     `json:"last_used"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// Revoked reports whether the key was revoked by an admin.
func (k APIKey) Revoked() bool {
	return k.DeletedAt.Valid
}

// APIUsage represents the api_usage table: one row per key per day
type APIUsage struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	KeyID         uint   `gorm:"uniqueIndex:idx_key_date;not null" json:"key_id"`
	Date          string `gorm:"uniqueIndex:idx_key_date;not null" json:"date"`
	RequestCount  int    `gorm:"default:0" json:"request_count"`
	TotalDays     int    `gorm:"default:0" json:"total_days"`
	TotalBlocks   int    `gorm:"default:0" json:"total_blocks"`
	TotalWarnings int    `gorm:"default:0" json:"total_warnings"`
}

// MasterUser represents the master_users table
type MasterUser struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"unique;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// UsageDelta is what one schedule request adds to today's usage row.
type UsageDelta struct {
	Days     int
	Blocks   int
	Warnings int
}

const dateLayout = "2006-01-02"

// InitDB opens Postgres when a URL is configured and SQLite otherwise, then
// migrates the schema.
func InitDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}

	if cfg.URL != "" {
		dialector = postgres.New(postgres.Config{
			DSN:                  cfg.URL,
			PreferSimpleProtocol: true,
		})
		gormCfg.PrepareStmt = false
	} else {
		path := cfg.DataPath
		if path == "" {
			path = "api_keys.db"
		}
		dialector = sqlite.Open(path)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&APIKey{}, &APIUsage{}, &MasterUser{}); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

// Today formats t the way usage rows are keyed.
func Today(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// RecordUsage adds one request to the key's row for date with a single upsert
// (supported by both Postgres and SQLite).
func RecordUsage(db *gorm.DB, keyID uint, date string, d UsageDelta) error {
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"request_count":  gorm.Expr("request_count + ?", 1),
			"total_days":     gorm.Expr("total_days + ?", d.Days),
			"total_blocks":   gorm.Expr("total_blocks + ?", d.Blocks),
			"total_warnings": gorm.Expr("total_warnings + ?", d.Warnings),
		}),
	}).Create(&APIUsage{
		KeyID:         keyID,
		Date:          date,
		RequestCount:  1,
		TotalDays:     d.Days,
		TotalBlocks:   d.Blocks,
		TotalWarnings: d.Warnings,
	}).Error
}

// RequestsOn returns how many requests the key made on date.
func RequestsOn(db *gorm.DB, keyID uint, date string) (int, error) {
	var usage APIUsage
	err := db.Where("key_id = ? AND date = ?", keyID, date).Limit(1).Find(&usage).Error
	if err != nil {
		return 0, err
	}
	return usage.RequestCount, nil
}

// RecentUsage returns up to limit rows for the key, newest first.
func RecentUsage(db *gorm.DB, keyID uint, limit int) ([]APIUsage, error) {
	var usage []APIUsage
	err := db.Where("key_id = ?", keyID).Order("date desc").Limit(limit).Find(&usage).Error
	return usage, err
}
