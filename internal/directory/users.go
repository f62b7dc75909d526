package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"github.com/jon4hz/vazby/internal/audit"
	"github.com/jon4hz/vazby/internal/auth"
	"github.com/jon4hz/vazby/internal/database"
)

// UserInput holds the fields of a new user.
type UserInput struct {
	Username string
	Password string
	Email    string
	Role     string
}

// UserPatch holds the fields of a partial user update. Nil fields are not touched
// and an empty password keeps the current one.
type UserPatch struct {
	Username *string
	Email    *string
	Role     *string
	Active   *bool
	Password *string
}

// ListUsers returns all users, newest first.
func (e *Engine) ListUsers(ctx context.Context, p *auth.Principal) ([]database.User, error) {
	if err := auth.Check(auth.OpListUsers, p); err != nil {
		return nil, err
	}
	users, err := e.db.GetAllUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// CreateUser adds a new active user.
func (e *Engine) CreateUser(ctx context.Context, p *auth.Principal, in UserInput) (*database.User, error) {
	if err := auth.Check(auth.OpCreateUser, p); err != nil {
		return nil, err
	}

	username, err := required("username", in.Username)
	if err != nil {
		return nil, err
	}
	if in.Password == "" {
		return nil, validationError("field 'password' is required")
	}
	email, err := required("email", in.Email)
	if err != nil {
		return nil, err
	}
	roleName, err := required("role", in.Role)
	if err != nil {
		return nil, err
	}
	role, ok := auth.ParseRole(roleName)
	if !ok {
		return nil, validationError("invalid role")
	}

	taken, err := e.db.UsernameTaken(ctx, username, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if !taken {
		taken, err = e.db.EmailTaken(ctx, email, 0)
		if err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
	}
	if taken {
		return nil, conflictError("user with this username or email already exists")
	}

	hash, err := e.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &database.User{
		Username:     username,
		PasswordHash: hash,
		Email:        email,
		Role:         role,
		Active:       true,
	}
	if err := e.db.CreateUser(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, conflictError("user with this username or email already exists")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	e.audit.Record(ctx, p.ActorID(), audit.ActionCreateUser, "Created user: "+username)
	log.Info("user created", "username", username, "role", role, "by", p.Username)

	return user, nil
}

// UpdateUser applies a partial update to a user.
func (e *Engine) UpdateUser(ctx context.Context, p *auth.Principal, id uint, patch UserPatch) (*database.User, error) {
	if err := auth.Check(auth.OpUpdateUser, p); err != nil {
		return nil, err
	}

	if _, err := e.db.GetUserByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("user not found")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	var update database.UserUpdate

	if patch.Username != nil {
		username, err := required("username", *patch.Username)
		if err != nil {
			return nil, err
		}
		taken, err := e.db.UsernameTaken(ctx, username, id)
		if err != nil {
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
		if taken {
			return nil, conflictError("username already exists")
		}
		update.Username = &username
	}

	if patch.Email != nil {
		email, err := required("email", *patch.Email)
		if err != nil {
			return nil, err
		}
		taken, err := e.db.EmailTaken(ctx, email, id)
		if err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if taken {
			return nil, conflictError("email already exists")
		}
		update.Email = &email
	}

	if patch.Role != nil {
		role, ok := auth.ParseRole(strings.TrimSpace(*patch.Role))
		if !ok {
			return nil, validationError("invalid role")
		}
		update.Role = &role
	}

	update.Active = patch.Active

	if patch.Password != nil && *patch.Password != "" {
		hash, err := e.hasher.Hash(*patch.Password)
		if err != nil {
			return nil, err
		}
		update.PasswordHash = &hash
	}

	if update.IsEmpty() {
		return nil, validationError("nothing to update")
	}

	if err := e.db.UpdateUser(ctx, id, update); err != nil {
		switch {
		case errors.Is(err, database.ErrDuplicate):
			return nil, conflictError("user with this username or email already exists")
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, notFoundError("user not found")
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	e.audit.Record(ctx, p.ActorID(), audit.ActionUpdateUser, fmt.Sprintf("Updated user ID: %d", id))

	user, err := e.db.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload user: %w", err)
	}
	return user, nil
}

// DeleteUser removes a user. Links created by the user are kept without a creator.
func (e *Engine) DeleteUser(ctx context.Context, p *auth.Principal, id uint) error {
	if err := auth.Check(auth.OpDeleteUser, p); err != nil {
		return err
	}
	if p.UserID != 0 && id == p.UserID {
		return &Error{Kind: KindSelfDelete, Message: "you cannot delete yourself"}
	}

	user, err := e.db.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundError("user not found")
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if err := e.db.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundError("user not found")
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	e.audit.Record(ctx, p.ActorID(), audit.ActionDeleteUser, "Deleted user: "+user.Username)
	log.Info("user deleted", "username", user.Username, "by", p.Username)
	return nil
}
