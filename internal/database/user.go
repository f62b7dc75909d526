package database

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"github.com/jon4hz/vazby/internal/auth"
)

// User represents an account that can sign in to vazby.
type User struct {
	ID           uint      `gorm:"primaryKey"`
	Username     string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	Email        string    `gorm:"uniqueIndex;not null"`
	Role         auth.Role `gorm:"type:varchar(16);not null"`
	Active       bool      `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName overrides the default table name.
func (User) TableName() string {
	return "app_users"
}

// UserUpdate carries the fields of a partial user update. Nil fields are left untouched.
type UserUpdate struct {
	Username     *string
	Email        *string
	Role         *auth.Role
	Active       *bool
	PasswordHash *string
}

// IsEmpty reports whether the update would not change anything.
func (u UserUpdate) IsEmpty() bool {
	return u.Username == nil && u.Email == nil && u.Role == nil && u.Active == nil && u.PasswordHash == nil
}

func (u UserUpdate) columns() map[string]any {
	cols := make(map[string]any)
	if u.Username != nil {
		cols["username"] = *u.Username
	}
	if u.Email != nil {
		cols["email"] = *u.Email
	}
	if u.Role != nil {
		cols["role"] = *u.Role
	}
	if u.Active != nil {
		cols["active"] = *u.Active
	}
	if u.PasswordHash != nil {
		cols["password_hash"] = *u.PasswordHash
	}
	return cols
}

func (c *Client) CreateUser(ctx context.Context, user *User) error {
	if err := c.db.WithContext(ctx).Create(user).Error; err != nil {
		err = translateError(err)
		if !errors.Is(err, ErrDuplicate) {
			log.Error("failed to create user", "error", err)
		}
		return err
	}
	return nil
}

func (c *Client) GetUserByID(ctx context.Context, id uint) (*User, error) {
	var user User
	if err := c.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error("failed to get user by ID", "error", err)
		}
		return nil, err
	}
	return &user, nil
}

func (c *Client) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	if err := c.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error("failed to get user by username", "error", err)
		}
		return nil, err
	}
	return &user, nil
}

func (c *Client) GetAllUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&users).Error; err != nil {
		log.Error("failed to get all users", "error", err)
		return nil, err
	}
	return users, nil
}

// GetActiveAdmins returns all active admins that have an email address.
func (c *Client) GetActiveAdmins(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.db.WithContext(ctx).
		Where("role = ? AND active = ? AND email <> ''", auth.RoleAdmin, true).
		Order("id").
		Find(&users).Error; err != nil {
		log.Error("failed to get active admins", "error", err)
		return nil, err
	}
	return users, nil
}

func (c *Client) UsernameTaken(ctx context.Context, username string, excludeID uint) (bool, error) {
	return c.userExists(ctx, "username = ?", username, excludeID)
}

func (c *Client) EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error) {
	return c.userExists(ctx, "email = ?", email, excludeID)
}

func (c *Client) userExists(ctx context.Context, query string, value string, excludeID uint) (bool, error) {
	var count int64
	q := c.db.WithContext(ctx).Model(&User{}).Where(query, value)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		log.Error("failed to check user uniqueness", "error", err)
		return false, err
	}
	return count > 0, nil
}

func (c *Client) UpdateUser(ctx context.Context, id uint, update UserUpdate) error {
	if update.IsEmpty() {
		return nil
	}
	result := c.db.WithContext(ctx).Model(&User{ID: id}).Updates(update.columns())
	if result.Error != nil {
		err := translateError(result.Error)
		if !errors.Is(err, ErrDuplicate) {
			log.Error("failed to update user", "error", err)
		}
		return err
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (c *Client) DeleteUser(ctx context.Context, id uint) error {
	result := c.db.WithContext(ctx).Delete(&User{}, id)
	if result.Error != nil {
		log.Error("failed to delete user", "error", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
