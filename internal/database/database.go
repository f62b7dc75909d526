package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ DB = (*Client)(nil) // Ensure Client implements DB

// ErrDuplicate is returned when a write violates a unique index.
var ErrDuplicate = errors.New("duplicate entry")

// Client wraps the gorm.DB instance.
type Client struct {
	db   *gorm.DB
	path string
}

// New creates a new database connection and performs migrations.
func New(dbpath string) (*Client, error) {
	if dir := filepath.Dir(dbpath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dsn(dbpath)), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err := db.AutoMigrate(
		&User{},
		&Link{},
		&AuditEntry{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Client{db: db, path: dbpath}, nil
}

// dsn enables foreign keys so ON DELETE SET NULL is enforced by SQLite.
func dsn(dbpath string) string {
	sep := "?"
	if strings.Contains(dbpath, "?") {
		sep = "&"
	}
	return dbpath + sep + "_pragma=foreign_keys(1)"
}

// Path returns the path of the database file.
func (c *Client) Path() string {
	return c.path
}

// Ping checks that the database is reachable.
func (c *Client) Ping(ctx context.Context) error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the underlying database connection.
func (c *Client) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	return sqlDB.Close()
}

// Stats returns row counts for the db-stats command.
func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	var s Stats
	db := c.db.WithContext(ctx)

	if err := db.Model(&User{}).Count(&s.Users).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if err := db.Model(&User{}).Where("active = ?", true).Count(&s.ActiveUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count active users: %w", err)
	}
	if err := db.Model(&Link{}).Where("schvaleno = ?", true).Count(&s.ApprovedLinks).Error; err != nil {
		return nil, fmt.Errorf("failed to count approved links: %w", err)
	}
	if err := db.Model(&Link{}).Where("schvaleno = ?", false).Count(&s.PendingLinks).Error; err != nil {
		return nil, fmt.Errorf("failed to count pending links: %w", err)
	}
	if err := db.Model(&AuditEntry{}).Count(&s.AuditEntries).Error; err != nil {
		return nil, fmt.Errorf("failed to count audit entries: %w", err)
	}
	return &s, nil
}

// translateError maps unique constraint violations to ErrDuplicate.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}
