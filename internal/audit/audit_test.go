package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jon4hz/vazby/internal/database/mock"
)

func TestRecord(t *testing.T) {
	db := mock.NewMockDB()
	r := New(db)

	r.Record(context.Background(), lo.ToPtr(uint(3)), ActionCreateLink, "Created vazba: Google")
	r.Record(context.Background(), nil, ActionLoginFailed, "username: ghost")

	entries := db.AuditEntries()
	require.Len(t, entries, 2)

	assert.Equal(t, "CREATE_VAZBA", entries[0].Action)
	require.NotNil(t, entries[0].UserID)
	assert.Equal(t, uint(3), *entries[0].UserID)
	assert.Equal(t, "Created vazba: Google", entries[0].Details)

	assert.Equal(t, "LOGIN_FAILED", entries[1].Action)
	assert.Nil(t, entries[1].UserID)
}

func TestRecord_FailureIsSwallowed(t *testing.T) {
	db := mock.NewMockDB()
	db.CreateAuditEntryError = errors.New("disk full")
	r := New(db)

	assert.NotPanics(t, func() {
		r.Record(context.Background(), nil, ActionLogout, "")
	})
	assert.Empty(t, db.AuditEntries())
}

func TestRecord_NilRecorder(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.Record(context.Background(), nil, ActionLogout, "")
	})
}
