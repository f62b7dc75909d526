package database

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
)

// Link is an entry of the directory (a "vazba").
// Nazev and URL are each unique across all links.
type Link struct {
	ID          uint   `gorm:"primaryKey"`
	Nazev       string `gorm:"uniqueIndex;not null"`
	URL         string `gorm:"uniqueIndex;not null"`
	Popis       string
	Kategorie   string `gorm:"index"`
	Schvaleno   bool   `gorm:"not null;index"`
	CreatedByID *uint  `gorm:"column:created_by"`
	CreatedBy   *User  `gorm:"foreignKey:CreatedByID;constraint:OnDelete:SET NULL;"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName overrides the default table name.
func (Link) TableName() string {
	return "vazby"
}

// CreatorUsername returns the username of the creator or an empty string if the creator is gone.
func (l *Link) CreatorUsername() string {
	if l.CreatedBy == nil {
		return ""
	}
	return l.CreatedBy.Username
}

// LinkUpdate carries the fields of a partial link update. Nil fields are left untouched.
type LinkUpdate struct {
	Nazev     *string
	URL       *string
	Popis     *string
	Kategorie *string
	Schvaleno *bool
}

// IsEmpty reports whether the update would not change anything.
func (u LinkUpdate) IsEmpty() bool {
	return u.Nazev == nil && u.URL == nil && u.Popis == nil && u.Kategorie == nil && u.Schvaleno == nil
}

func (u LinkUpdate) columns() map[string]any {
	cols := make(map[string]any)
	if u.Nazev != nil {
		cols["nazev"] = *u.Nazev
	}
	if u.URL != nil {
		cols["url"] = *u.URL
	}
	if u.Popis != nil {
		cols["popis"] = *u.Popis
	}
	if u.Kategorie != nil {
		cols["kategorie"] = *u.Kategorie
	}
	if u.Schvaleno != nil {
		cols["schvaleno"] = *u.Schvaleno
	}
	return cols
}

func (c *Client) CreateLink(ctx context.Context, link *Link) error {
	if err := c.db.WithContext(ctx).Omit("CreatedBy").Create(link).Error; err != nil {
		err = translateError(err)
		if !errors.Is(err, ErrDuplicate) {
			log.Error("failed to create link", "error", err)
		}
		return err
	}
	return nil
}

func (c *Client) GetLinkByID(ctx context.Context, id uint) (*Link, error) {
	var link Link
	if err := c.db.WithContext(ctx).Preload("CreatedBy").First(&link, id).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error("failed to get link by ID", "error", err)
		}
		return nil, err
	}
	return &link, nil
}

// GetLinks returns links newest first. With approvedOnly only approved links are returned.
func (c *Client) GetLinks(ctx context.Context, approvedOnly bool) ([]Link, error) {
	q := c.db.WithContext(ctx).Preload("CreatedBy")
	if approvedOnly {
		q = q.Where("schvaleno = ?", true)
	}
	var links []Link
	if err := q.Order("created_at DESC").Order("id DESC").Find(&links).Error; err != nil {
		log.Error("failed to get links", "error", err)
		return nil, err
	}
	return links, nil
}

// GetPendingLinks returns links waiting for approval, oldest first.
func (c *Client) GetPendingLinks(ctx context.Context) ([]Link, error) {
	var links []Link
	if err := c.db.WithContext(ctx).
		Preload("CreatedBy").
		Where("schvaleno = ?", false).
		Order("created_at ASC").Order("id ASC").
		Find(&links).Error; err != nil {
		log.Error("failed to get pending links", "error", err)
		return nil, err
	}
	return links, nil
}

// LinkConflicts reports whether another link already uses nazev or url.
// excludeID is ignored when zero.
func (c *Client) LinkConflicts(ctx context.Context, nazev, url string, excludeID uint) (bool, error) {
	var count int64
	q := c.db.WithContext(ctx).Model(&Link{}).Where("(nazev = ? OR url = ?)", nazev, url)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		log.Error("failed to check link uniqueness", "error", err)
		return false, err
	}
	return count > 0, nil
}

func (c *Client) UpdateLink(ctx context.Context, id uint, update LinkUpdate) error {
	if update.IsEmpty() {
		return nil
	}
	result := c.db.WithContext(ctx).Model(&Link{ID: id}).Updates(update.columns())
	if result.Error != nil {
		err := translateError(result.Error)
		if !errors.Is(err, ErrDuplicate) {
			log.Error("failed to update link", "error", err)
		}
		return err
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (c *Client) DeleteLink(ctx context.Context, id uint) error {
	result := c.db.WithContext(ctx).Delete(&Link{}, id)
	if result.Error != nil {
		log.Error("failed to delete link", "error", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
