package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/jon4hz/vazby/internal/auth"
)

// DatabaseTestSuite runs the repository against a temporary SQLite file.
type DatabaseTestSuite struct {
	suite.Suite
	client *Client
	ctx    context.Context
}

func TestDatabaseTestSuite(t *testing.T) {
	suite.Run(t, new(DatabaseTestSuite))
}

func (s *DatabaseTestSuite) SetupTest() {
	client, err := New(filepath.Join(s.T().TempDir(), "data", "vazby.db"))
	s.Require().NoError(err)
	s.client = client
	s.ctx = context.Background()
}

func (s *DatabaseTestSuite) TearDownTest() {
	if s.client != nil {
		_ = s.client.Close()
	}
}

func (s *DatabaseTestSuite) createUser(username string, role auth.Role) *User {
	u := &User{
		Username:     username,
		PasswordHash: "hash",
		Email:        username + "@example.com",
		Role:         role,
		Active:       true,
	}
	s.Require().NoError(s.client.CreateUser(s.ctx, u))
	s.Require().NotZero(u.ID)
	return u
}

func (s *DatabaseTestSuite) createLink(nazev, url string, approved bool, creator *User) *Link {
	l := &Link{Nazev: nazev, URL: url, Schvaleno: approved}
	if creator != nil {
		l.CreatedByID = lo.ToPtr(creator.ID)
	}
	s.Require().NoError(s.client.CreateLink(s.ctx, l))
	s.Require().NotZero(l.ID)
	return l
}

func (s *DatabaseTestSuite) TestPing() {
	s.NoError(s.client.Ping(s.ctx))
}

func (s *DatabaseTestSuite) TestCreateUser_Duplicate() {
	s.createUser("alice", auth.RoleAdmin)

	err := s.client.CreateUser(s.ctx, &User{
		Username: "alice", PasswordHash: "x", Email: "other@example.com", Role: auth.RoleViewer,
	})
	s.ErrorIs(err, ErrDuplicate)

	err = s.client.CreateUser(s.ctx, &User{
		Username: "bob", PasswordHash: "x", Email: "alice@example.com", Role: auth.RoleViewer,
	})
	s.ErrorIs(err, ErrDuplicate)
}

func (s *DatabaseTestSuite) TestCreateUser_Inactive() {
	u := &User{Username: "dora", PasswordHash: "x", Email: "dora@example.com", Role: auth.RoleViewer}
	s.Require().NoError(s.client.CreateUser(s.ctx, u))

	got, err := s.client.GetUserByID(s.ctx, u.ID)
	s.Require().NoError(err)
	s.False(got.Active)
}

func (s *DatabaseTestSuite) TestGetUser() {
	u := s.createUser("alice", auth.RoleEditor)

	got, err := s.client.GetUserByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(u.ID, got.ID)
	s.Equal(auth.RoleEditor, got.Role)

	_, err = s.client.GetUserByUsername(s.ctx, "nobody")
	s.ErrorIs(err, gorm.ErrRecordNotFound)

	_, err = s.client.GetUserByID(s.ctx, 999)
	s.ErrorIs(err, gorm.ErrRecordNotFound)
}

func (s *DatabaseTestSuite) TestUsernameAndEmailTaken() {
	u := s.createUser("alice", auth.RoleViewer)

	taken, err := s.client.UsernameTaken(s.ctx, "alice", 0)
	s.Require().NoError(err)
	s.True(taken)

	taken, err = s.client.UsernameTaken(s.ctx, "alice", u.ID)
	s.Require().NoError(err)
	s.False(taken)

	taken, err = s.client.EmailTaken(s.ctx, "alice@example.com", 0)
	s.Require().NoError(err)
	s.True(taken)

	taken, err = s.client.EmailTaken(s.ctx, "nobody@example.com", 0)
	s.Require().NoError(err)
	s.False(taken)
}

func (s *DatabaseTestSuite) TestUpdateUser() {
	u := s.createUser("alice", auth.RoleViewer)
	s.createUser("bob", auth.RoleViewer)

	err := s.client.UpdateUser(s.ctx, u.ID, UserUpdate{
		Role:   lo.ToPtr(auth.RoleEditor),
		Active: lo.ToPtr(false),
	})
	s.Require().NoError(err)

	got, err := s.client.GetUserByID(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Equal(auth.RoleEditor, got.Role)
	s.False(got.Active)
	s.Equal("hash", got.PasswordHash)

	err = s.client.UpdateUser(s.ctx, u.ID, UserUpdate{Username: lo.ToPtr("bob")})
	s.ErrorIs(err, ErrDuplicate)

	err = s.client.UpdateUser(s.ctx, 999, UserUpdate{Active: lo.ToPtr(true)})
	s.ErrorIs(err, gorm.ErrRecordNotFound)
}

func (s *DatabaseTestSuite) TestGetAllUsers_NewestFirst() {
	s.createUser("first", auth.RoleViewer)
	s.createUser("second", auth.RoleViewer)

	users, err := s.client.GetAllUsers(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(users, 2)
	s.Equal("second", users[0].Username)
	s.Equal("first", users[1].Username)
}

func (s *DatabaseTestSuite) TestGetActiveAdmins() {
	s.createUser("admin", auth.RoleAdmin)
	inactive := s.createUser("retired", auth.RoleAdmin)
	s.createUser("editor", auth.RoleEditor)
	s.Require().NoError(s.client.UpdateUser(s.ctx, inactive.ID, UserUpdate{Active: lo.ToPtr(false)}))

	admins, err := s.client.GetActiveAdmins(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(admins, 1)
	s.Equal("admin", admins[0].Username)
}

func (s *DatabaseTestSuite) TestLinks_Visibility() {
	s.createLink("Google", "https://google.com", true, nil)
	s.createLink("GitHub", "https://github.com", false, nil)

	approved, err := s.client.GetLinks(s.ctx, true)
	s.Require().NoError(err)
	s.Require().Len(approved, 1)
	s.Equal("Google", approved[0].Nazev)

	all, err := s.client.GetLinks(s.ctx, false)
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal("GitHub", all[0].Nazev)

	pending, err := s.client.GetPendingLinks(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(pending, 1)
	s.Equal("GitHub", pending[0].Nazev)
}

func (s *DatabaseTestSuite) TestCreateLink_UniqueIndexes() {
	s.createLink("Google", "https://google.com", true, nil)

	err := s.client.CreateLink(s.ctx, &Link{Nazev: "Google", URL: "https://other.com"})
	s.ErrorIs(err, ErrDuplicate)

	err = s.client.CreateLink(s.ctx, &Link{Nazev: "Other", URL: "https://google.com"})
	s.ErrorIs(err, ErrDuplicate)
}

func (s *DatabaseTestSuite) TestLinkConflicts() {
	l := s.createLink("Google", "https://google.com", true, nil)

	conflict, err := s.client.LinkConflicts(s.ctx, "Google", "https://new.com", 0)
	s.Require().NoError(err)
	s.True(conflict)

	conflict, err = s.client.LinkConflicts(s.ctx, "New", "https://google.com", 0)
	s.Require().NoError(err)
	s.True(conflict)

	conflict, err = s.client.LinkConflicts(s.ctx, "Google", "https://google.com", l.ID)
	s.Require().NoError(err)
	s.False(conflict)

	conflict, err = s.client.LinkConflicts(s.ctx, "New", "https://new.com", 0)
	s.Require().NoError(err)
	s.False(conflict)
}

func (s *DatabaseTestSuite) TestUpdateAndDeleteLink() {
	l := s.createLink("Google", "https://google.com", false, nil)

	err := s.client.UpdateLink(s.ctx, l.ID, LinkUpdate{
		Popis:     lo.ToPtr("search"),
		Schvaleno: lo.ToPtr(true),
	})
	s.Require().NoError(err)

	got, err := s.client.GetLinkByID(s.ctx, l.ID)
	s.Require().NoError(err)
	s.Equal("search", got.Popis)
	s.True(got.Schvaleno)

	s.ErrorIs(s.client.UpdateLink(s.ctx, 999, LinkUpdate{Popis: lo.ToPtr("x")}), gorm.ErrRecordNotFound)

	s.Require().NoError(s.client.DeleteLink(s.ctx, l.ID))
	_, err = s.client.GetLinkByID(s.ctx, l.ID)
	s.ErrorIs(err, gorm.ErrRecordNotFound)
	s.ErrorIs(s.client.DeleteLink(s.ctx, l.ID), gorm.ErrRecordNotFound)
}

func (s *DatabaseTestSuite) TestDeleteUser_KeepsLinks() {
	editor := s.createUser("editor", auth.RoleEditor)
	l := s.createLink("GitHub", "https://github.com", false, editor)

	got, err := s.client.GetLinkByID(s.ctx, l.ID)
	s.Require().NoError(err)
	s.Equal("editor", got.CreatorUsername())

	s.Require().NoError(s.client.DeleteUser(s.ctx, editor.ID))
	s.ErrorIs(s.client.DeleteUser(s.ctx, editor.ID), gorm.ErrRecordNotFound)

	got, err = s.client.GetLinkByID(s.ctx, l.ID)
	s.Require().NoError(err)
	s.Nil(got.CreatedByID)
	s.Nil(got.CreatedBy)
	s.Empty(got.CreatorUsername())
}

func (s *DatabaseTestSuite) TestAuditEntriesAndStats() {
	u := s.createUser("admin", auth.RoleAdmin)
	s.createLink("Google", "https://google.com", true, u)
	s.createLink("GitHub", "https://github.com", false, u)

	s.Require().NoError(s.client.CreateAuditEntry(s.ctx, &AuditEntry{UserID: lo.ToPtr(u.ID), Action: "LOGIN"}))
	s.Require().NoError(s.client.CreateAuditEntry(s.ctx, &AuditEntry{Action: "LOGIN_FAILED", Details: "username: x"}))

	stats, err := s.client.Stats(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(1), stats.Users)
	s.Equal(int64(1), stats.ActiveUsers)
	s.Equal(int64(1), stats.ApprovedLinks)
	s.Equal(int64(1), stats.PendingLinks)
	s.Equal(int64(2), stats.AuditEntries)
}

func TestDSN(t *testing.T) {
	assert.Equal(t, "vazby.db?_pragma=foreign_keys(1)", dsn("vazby.db"))
	assert.Equal(t, "vazby.db?cache=shared&_pragma=foreign_keys(1)", dsn("vazby.db?cache=shared"))
}
