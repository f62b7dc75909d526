package database

import "context"

// DB defines the persistence operations used by the link directory.
type DB interface {
	// Users
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, id uint) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	GetAllUsers(ctx context.Context) ([]User, error)
	GetActiveAdmins(ctx context.Context) ([]User, error)
	UsernameTaken(ctx context.Context, username string, excludeID uint) (bool, error)
	EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error)
	UpdateUser(ctx context.Context, id uint, update UserUpdate) error
	DeleteUser(ctx context.Context, id uint) error

	// Links
	CreateLink(ctx context.Context, link *Link) error
	GetLinkByID(ctx context.Context, id uint) (*Link, error)
	GetLinks(ctx context.Context, approvedOnly bool) ([]Link, error)
	GetPendingLinks(ctx context.Context) ([]Link, error)
	LinkConflicts(ctx context.Context, nazev, url string, excludeID uint) (bool, error)
	UpdateLink(ctx context.Context, id uint, update LinkUpdate) error
	DeleteLink(ctx context.Context, id uint) error

	// Audit trail
	CreateAuditEntry(ctx context.Context, entry *AuditEntry) error

	// Utility
	Stats(ctx context.Context) (*Stats, error)
	Ping(ctx context.Context) error
	Close() error
}

// Stats holds row counts of the vazby database.
type Stats struct {
	Users         int64
	ActiveUsers   int64
	ApprovedLinks int64
	PendingLinks  int64
	AuditEntries  int64
}
