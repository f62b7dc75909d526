package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/jon4hz/vazby/internal/audit"
	"github.com/jon4hz/vazby/internal/auth"
	"github.com/jon4hz/vazby/internal/database"
)

// Login checks the credentials of an active user.
// Unknown users, inactive users and wrong passwords are indistinguishable to the caller.
func (e *Engine) Login(ctx context.Context, username, password string) (*database.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, validationError("username and password are required")
	}

	user, err := e.db.GetUserByUsername(ctx, username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user == nil || !user.Active || !e.hasher.Verify(password, user.PasswordHash) {
		e.audit.Record(ctx, nil, audit.ActionLoginFailed, "Failed login for "+username)
		return nil, ErrInvalidCredentials
	}

	e.audit.Record(ctx, &user.ID, audit.ActionLogin, fmt.Sprintf("User %s logged in", user.Username))
	return user, nil
}

// Logout records the end of a session. It never fails.
func (e *Engine) Logout(ctx context.Context, p *auth.Principal) {
	if p == nil {
		return
	}
	e.audit.Record(ctx, p.ActorID(), audit.ActionLogout, fmt.Sprintf("User %s logged out", p.Username))
}

// CurrentUser returns the user behind a session, or nil if the user no longer exists
// or has been deactivated.
func (e *Engine) CurrentUser(ctx context.Context, userID uint) (*database.User, error) {
	if userID == 0 {
		return nil, nil
	}
	user, err := e.db.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !user.Active {
		return nil, nil
	}
	return user, nil
}

// PrincipalFor builds the request principal of a user.
func PrincipalFor(user *database.User) *auth.Principal {
	if user == nil {
		return nil
	}
	return &auth.Principal{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	}
}

// ChangePassword replaces the password of the principal after checking the current one.
func (e *Engine) ChangePassword(ctx context.Context, p *auth.Principal, current, next string) error {
	if err := auth.Check(auth.OpChangePassword, p); err != nil {
		return err
	}
	if current == "" || next == "" {
		return validationError("current and new password are required")
	}

	user, err := e.CurrentUser(ctx, p.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return auth.ErrUnauthenticated
	}

	if !e.hasher.Verify(current, user.PasswordHash) {
		return validationError("invalid current password")
	}

	hash, err := e.hasher.Hash(next)
	if err != nil {
		return err
	}
	if err := e.db.UpdateUser(ctx, user.ID, database.UserUpdate{PasswordHash: &hash}); err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}

	e.audit.Record(ctx, p.ActorID(), audit.ActionPasswordChange, "User changed password")
	return nil
}
