// Package directory implements the business rules of the vazby link directory:
// link visibility, the approval workflow, uniqueness checks and user management.
package directory

import (
	"fmt"
	"strings"

	"github.com/jon4hz/vazby/internal/audit"
	"github.com/jon4hz/vazby/internal/auth"
	"github.com/jon4hz/vazby/internal/database"
)

// Engine runs directory operations on behalf of a principal.
type Engine struct {
	db     database.DB
	audit  *audit.Recorder
	hasher *auth.Hasher
}

// New creates a new Engine.
func New(db database.DB, recorder *audit.Recorder, hasher *auth.Hasher) *Engine {
	return &Engine{
		db:     db,
		audit:  recorder,
		hasher: hasher,
	}
}

// required trims value and fails if nothing is left.
func required(field, value string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", validationError(fmt.Sprintf("field '%s' is required", field))
	}
	return v, nil
}

// trimmedPtr trims the value behind p, keeping nil as nil.
func trimmedPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	return &v
}
