package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthorize(t *testing.T) {
	viewer := &Principal{UserID: 1, Username: "v", Role: RoleViewer}
	editor := &Principal{UserID: 2, Username: "e", Role: RoleEditor}
	admin := &Principal{UserID: 3, Username: "a", Role: RoleAdmin}

	tests := []struct {
		name      string
		principal *Principal
		allowed   []Role
		wantErr   error
	}{
		{"anonymous with roles", nil, []Role{RoleAdmin}, ErrUnauthenticated},
		{"anonymous with empty set", nil, nil, ErrUnauthenticated},
		{"viewer any authenticated", viewer, nil, nil},
		{"viewer not editor", viewer, []Role{RoleEditor, RoleAdmin}, ErrForbidden},
		{"editor allowed", editor, []Role{RoleEditor, RoleAdmin}, nil},
		{"editor not admin", editor, []Role{RoleAdmin}, ErrForbidden},
		{"admin allowed", admin, []Role{RoleAdmin}, nil},
		// no implicit hierarchy
		{"admin not in viewer-only set", admin, []Role{RoleViewer}, ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.principal, tt.allowed)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCheck(t *testing.T) {
	editor := &Principal{UserID: 2, Role: RoleEditor}
	admin := &Principal{UserID: 3, Role: RoleAdmin}

	assert.NoError(t, Check(OpListLinks, nil))
	assert.NoError(t, Check(OpLogin, nil))
	assert.ErrorIs(t, Check(OpChangePassword, nil), ErrUnauthenticated)
	assert.NoError(t, Check(OpChangePassword, &Principal{Role: RoleViewer}))
	assert.ErrorIs(t, Check(OpCreateLink, &Principal{Role: RoleViewer}), ErrForbidden)
	assert.NoError(t, Check(OpCreateLink, editor))
	assert.NoError(t, Check(OpUpdateLink, editor))
	assert.ErrorIs(t, Check(OpDeleteLink, editor), ErrForbidden)
	assert.NoError(t, Check(OpDeleteLink, admin))
	assert.ErrorIs(t, Check(OpListUsers, editor), ErrForbidden)
	assert.ErrorIs(t, Check(Operation("unknown"), admin), ErrForbidden)
}

func TestPoliciesCoverEveryRole(t *testing.T) {
	for op, policy := range Policies {
		for _, role := range policy.Roles {
			assert.True(t, role.Valid(), "operation %s lists unknown role %q", op, role)
		}
	}
}

func TestParseRole(t *testing.T) {
	r, ok := ParseRole("editor")
	assert.True(t, ok)
	assert.Equal(t, RoleEditor, r)

	_, ok = ParseRole("superuser")
	assert.False(t, ok)

	_, ok = ParseRole("")
	assert.False(t, ok)
}

func TestPrincipal(t *testing.T) {
	var anonymous *Principal
	assert.False(t, anonymous.IsAdmin())
	assert.Nil(t, anonymous.ActorID())

	admin := &Principal{UserID: 7, Role: RoleAdmin}
	assert.True(t, admin.IsAdmin())
	if assert.NotNil(t, admin.ActorID()) {
		assert.Equal(t, uint(7), *admin.ActorID())
	}

	system := System()
	assert.True(t, system.IsAdmin())
	assert.Nil(t, system.ActorID())
}
