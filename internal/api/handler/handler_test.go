package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jon4hz/vazby/internal/auth"
	"github.com/jon4hz/vazby/internal/directory"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"unauthenticated", auth.ErrUnauthenticated, http.StatusUnauthorized, "not logged in"},
		{"forbidden", auth.ErrForbidden, http.StatusForbidden, "insufficient permissions"},
		{"validation", &directory.Error{Kind: directory.KindValidation, Message: "nothing to update"}, http.StatusBadRequest, "nothing to update"},
		{"conflict", &directory.Error{Kind: directory.KindConflict, Message: "email already exists"}, http.StatusBadRequest, "email already exists"},
		{"self delete", &directory.Error{Kind: directory.KindSelfDelete, Message: "you cannot delete yourself"}, http.StatusBadRequest, "you cannot delete yourself"},
		{"not found", &directory.Error{Kind: directory.KindNotFound, Message: "link not found"}, http.StatusNotFound, "link not found"},
		{"invalid credentials", directory.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{"wrapped domain error", fmt.Errorf("outer: %w", &directory.Error{Kind: directory.KindNotFound, Message: "user not found"}), http.StatusNotFound, "user not found"},
		{"unexpected", errors.New("sql: database is closed"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := classify(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestParseUintParam(t *testing.T) {
	id, err := parseUintParam("42")
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	for _, bad := range []string{"", "0", "-1", "abc", "1.5"} {
		_, err := parseUintParam(bad)
		assert.Error(t, err, bad)
	}
}
