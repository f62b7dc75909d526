package database

import (
	"context"
	"time"
)

// AuditEntry is an immutable record of an action performed in vazby.
type AuditEntry struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    *uint     `gorm:"index"`
	User      *User     `gorm:"constraint:OnDelete:SET NULL;"`
	Action    string    `gorm:"type:varchar(32);not null;index"`
	Details   string
	CreatedAt time.Time `gorm:"index"`
}

// TableName overrides the default table name.
func (AuditEntry) TableName() string {
	return "audit_log"
}

// CreateAuditEntry appends an entry to the audit log.
// Errors are returned to the caller, which decides whether they matter.
func (c *Client) CreateAuditEntry(ctx context.Context, entry *AuditEntry) error {
	return c.db.WithContext(ctx).Omit("User").Create(entry).Error
}
