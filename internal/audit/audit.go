// Package audit appends entries to the vazby audit trail.
// Recording is best effort: a failure is logged and never returned to the caller.
package audit

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/jon4hz/vazby/internal/database"
)

// Action is the tag stored with every audit entry.
type Action string

const (
	ActionLogin          Action = "LOGIN"
	ActionLoginFailed    Action = "LOGIN_FAILED"
	ActionLogout         Action = "LOGOUT"
	ActionPasswordChange Action = "PASSWORD_CHANGE"

	ActionCreateLink    Action = "CREATE_VAZBA"
	ActionUpdateLink    Action = "UPDATE_VAZBA"
	ActionApproveLink   Action = "APPROVE_VAZBA"
	ActionUnapproveLink Action = "UNAPPROVE_VAZBA"
	ActionDeleteLink    Action = "DELETE_VAZBA"

	ActionCreateUser Action = "CREATE_USER"
	ActionUpdateUser Action = "UPDATE_USER"
	ActionDeleteUser Action = "DELETE_USER"
)

// Store is the persistence needed by the Recorder.
type Store interface {
	CreateAuditEntry(ctx context.Context, entry *database.AuditEntry) error
}

// Recorder writes audit entries.
type Recorder struct {
	store Store
}

// New creates a new Recorder.
func New(store Store) *Recorder {
	return &Recorder{store: store}
}

// Record appends an entry for the given actor. A nil actor is stored as NULL.
func (r *Recorder) Record(ctx context.Context, actor *uint, action Action, details string) {
	if r == nil || r.store == nil {
		return
	}
	entry := &database.AuditEntry{
		UserID:  actor,
		Action:  string(action),
		Details: details,
	}
	if err := r.store.CreateAuditEntry(ctx, entry); err != nil {
		log.Warn("failed to record audit entry", "action", action, "error", err)
	}
}
