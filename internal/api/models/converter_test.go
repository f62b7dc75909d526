package models

import (
	"encoding/json"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jon4hz/vazby/internal/auth"
	"github.com/jon4hz/vazby/internal/database"
)

func TestToLink(t *testing.T) {
	creator := &database.User{ID: 2, Username: "editor"}
	link := ToLink(database.Link{
		ID:          5,
		Nazev:       "GitHub",
		URL:         "https://github.com",
		CreatedByID: lo.ToPtr(uint(2)),
		CreatedBy:   creator,
	})

	assert.Equal(t, uint(5), link.ID)
	require.NotNil(t, link.CreatedBy)
	assert.Equal(t, uint(2), *link.CreatedBy)
	require.NotNil(t, link.CreatedByUsername)
	assert.Equal(t, "editor", *link.CreatedByUsername)
}

func TestToLink_WithoutCreator(t *testing.T) {
	data, err := json.Marshal(ToLink(database.Link{ID: 1, Nazev: "Orphan", URL: "https://orphan.example"}))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "created_by")
	assert.Nil(t, decoded["created_by"])
	assert.Nil(t, decoded["created_by_username"])
	assert.Equal(t, false, decoded["schvaleno"])
}

func TestToUser_NoPasswordHash(t *testing.T) {
	data, err := json.Marshal(ToUser(database.User{
		ID:           1,
		Username:     "admin",
		PasswordHash: "$2a$10$secret",
		Email:        "admin@example.com",
		Role:         auth.RoleAdmin,
		Active:       true,
	}))
	require.NoError(t, err)

	assert.NotContains(t, string(data), "secret")
	assert.NotContains(t, string(data), "password")
	assert.Contains(t, string(data), `"role":"admin"`)
}

func TestToLinks_Empty(t *testing.T) {
	data, err := json.Marshal(ToLinks(nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}
