package mock

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/jon4hz/vazby/internal/auth"
	"github.com/jon4hz/vazby/internal/database"
)

var _ database.DB = (*MockDB)(nil)

// MockDB is a mock implementation of database.DB for testing.
// It enforces the same unique indexes and ON DELETE SET NULL rules as the SQLite schema.
type MockDB struct {
	mu sync.RWMutex

	// User storage
	users      map[uint]*database.User
	nextUserID uint

	// Link storage
	links      map[uint]*database.Link
	nextLinkID uint

	// Audit storage
	auditEntries []database.AuditEntry

	// clock is advanced on every write so ordering by creation time is deterministic.
	clock time.Time

	// Error simulation
	CreateUserError        error
	GetUserByIDError       error
	GetUserByUsernameError error
	GetAllUsersError       error
	GetActiveAdminsError   error
	UserTakenError         error
	UpdateUserError        error
	DeleteUserError        error
	CreateLinkError        error
	GetLinkByIDError       error
	GetLinksError          error
	GetPendingLinksError   error
	LinkConflictsError     error
	UpdateLinkError        error
	DeleteLinkError        error
	CreateAuditEntryError  error
	StatsError             error
	PingError              error
}

// NewMockDB creates a new MockDB instance.
func NewMockDB() *MockDB {
	m := &MockDB{}
	m.Reset()
	return m
}

// Reset clears all data and errors from the mock database.
func (m *MockDB) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.users = make(map[uint]*database.User)
	m.nextUserID = 1
	m.links = make(map[uint]*database.Link)
	m.nextLinkID = 1
	m.auditEntries = nil
	m.clock = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	m.CreateUserError = nil
	m.GetUserByIDError = nil
	m.GetUserByUsernameError = nil
	m.GetAllUsersError = nil
	m.GetActiveAdminsError = nil
	m.UserTakenError = nil
	m.UpdateUserError = nil
	m.DeleteUserError = nil
	m.CreateLinkError = nil
	m.GetLinkByIDError = nil
	m.GetLinksError = nil
	m.GetPendingLinksError = nil
	m.LinkConflictsError = nil
	m.UpdateLinkError = nil
	m.DeleteLinkError = nil
	m.CreateAuditEntryError = nil
	m.StatsError = nil
	m.PingError = nil
}

// AuditEntries returns a copy of all recorded audit entries.
func (m *MockDB) AuditEntries() []database.AuditEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.auditEntries)
}

// AuditActions returns the recorded audit actions in order.
func (m *MockDB) AuditActions() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	actions := make([]string, 0, len(m.auditEntries))
	for _, e := range m.auditEntries {
		actions = append(actions, e.Action)
	}
	return actions
}

func (m *MockDB) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func duplicate(column string) error {
	return fmt.Errorf("%w: UNIQUE constraint failed: %s", database.ErrDuplicate, column)
}

// User operations

func (m *MockDB) CreateUser(ctx context.Context, user *database.User) error {
	if m.CreateUserError != nil {
		return m.CreateUserError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.userTaken("username", user.Username, 0) {
		return duplicate("app_users.username")
	}
	if m.userTaken("email", user.Email, 0) {
		return duplicate("app_users.email")
	}

	now := m.tick()
	user.ID = m.nextUserID
	user.CreatedAt = now
	user.UpdatedAt = now
	m.nextUserID++

	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *MockDB) GetUserByID(ctx context.Context, id uint) (*database.User, error) {
	if m.GetUserByIDError != nil {
		return nil, m.GetUserByIDError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	u := *user
	return &u, nil
}

func (m *MockDB) GetUserByUsername(ctx context.Context, username string) (*database.User, error) {
	if m.GetUserByUsernameError != nil {
		return nil, m.GetUserByUsernameError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, user := range m.users {
		if user.Username == username {
			u := *user
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockDB) GetAllUsers(ctx context.Context) ([]database.User, error) {
	if m.GetAllUsersError != nil {
		return nil, m.GetAllUsersError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]database.User, 0, len(m.users))
	for _, user := range m.users {
		users = append(users, *user)
	}
	slices.SortFunc(users, func(a, b database.User) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(b.ID, a.ID))
	})
	return users, nil
}

func (m *MockDB) GetActiveAdmins(ctx context.Context) ([]database.User, error) {
	if m.GetActiveAdminsError != nil {
		return nil, m.GetActiveAdminsError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var users []database.User
	for _, user := range m.users {
		if user.Role == auth.RoleAdmin && user.Active && user.Email != "" {
			users = append(users, *user)
		}
	}
	slices.SortFunc(users, func(a, b database.User) int { return cmp.Compare(a.ID, b.ID) })
	return users, nil
}

func (m *MockDB) UsernameTaken(ctx context.Context, username string, excludeID uint) (bool, error) {
	if m.UserTakenError != nil {
		return false, m.UserTakenError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.userTaken("username", username, excludeID), nil
}

func (m *MockDB) EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error) {
	if m.UserTakenError != nil {
		return false, m.UserTakenError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.userTaken("email", email, excludeID), nil
}

// userTaken must be called with the lock held.
func (m *MockDB) userTaken(column, value string, excludeID uint) bool {
	for id, user := range m.users {
		if id == excludeID {
			continue
		}
		if (column == "username" && user.Username == value) || (column == "email" && user.Email == value) {
			return true
		}
	}
	return false
}

func (m *MockDB) UpdateUser(ctx context.Context, id uint, update database.UserUpdate) error {
	if m.UpdateUserError != nil {
		return m.UpdateUserError
	}
	if update.IsEmpty() {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if update.Username != nil && m.userTaken("username", *update.Username, id) {
		return duplicate("app_users.username")
	}
	if update.Email != nil && m.userTaken("email", *update.Email, id) {
		return duplicate("app_users.email")
	}

	if update.Username != nil {
		user.Username = *update.Username
	}
	if update.Email != nil {
		user.Email = *update.Email
	}
	if update.Role != nil {
		user.Role = *update.Role
	}
	if update.Active != nil {
		user.Active = *update.Active
	}
	if update.PasswordHash != nil {
		user.PasswordHash = *update.PasswordHash
	}
	user.UpdatedAt = m.tick()
	return nil
}

func (m *MockDB) DeleteUser(ctx context.Context, id uint) error {
	if m.DeleteUserError != nil {
		return m.DeleteUserError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.users, id)

	// ON DELETE SET NULL
	for _, link := range m.links {
		if link.CreatedByID != nil && *link.CreatedByID == id {
			link.CreatedByID = nil
		}
	}
	for i := range m.auditEntries {
		if m.auditEntries[i].UserID != nil && *m.auditEntries[i].UserID == id {
			m.auditEntries[i].UserID = nil
		}
	}
	return nil
}

// Link operations

func (m *MockDB) CreateLink(ctx context.Context, link *database.Link) error {
	if m.CreateLinkError != nil {
		return m.CreateLinkError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.linkTaken("nazev", link.Nazev, 0) {
		return duplicate("vazby.nazev")
	}
	if m.linkTaken("url", link.URL, 0) {
		return duplicate("vazby.url")
	}

	now := m.tick()
	link.ID = m.nextLinkID
	link.CreatedAt = now
	link.UpdatedAt = now
	m.nextLinkID++

	stored := *link
	stored.CreatedBy = nil
	m.links[link.ID] = &stored
	return nil
}

// withCreator returns a copy of link with CreatedBy populated. Must be called with the lock held.
func (m *MockDB) withCreator(link *database.Link) database.Link {
	l := *link
	l.CreatedBy = nil
	if l.CreatedByID != nil {
		if user, ok := m.users[*l.CreatedByID]; ok {
			u := *user
			l.CreatedBy = &u
		}
	}
	return l
}

func (m *MockDB) GetLinkByID(ctx context.Context, id uint) (*database.Link, error) {
	if m.GetLinkByIDError != nil {
		return nil, m.GetLinkByIDError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	link, ok := m.links[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	l := m.withCreator(link)
	return &l, nil
}

func (m *MockDB) GetLinks(ctx context.Context, approvedOnly bool) ([]database.Link, error) {
	if m.GetLinksError != nil {
		return nil, m.GetLinksError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	links := make([]database.Link, 0, len(m.links))
	for _, link := range m.links {
		if approvedOnly && !link.Schvaleno {
			continue
		}
		links = append(links, m.withCreator(link))
	}
	slices.SortFunc(links, func(a, b database.Link) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(b.ID, a.ID))
	})
	return links, nil
}

func (m *MockDB) GetPendingLinks(ctx context.Context) ([]database.Link, error) {
	if m.GetPendingLinksError != nil {
		return nil, m.GetPendingLinksError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var links []database.Link
	for _, link := range m.links {
		if !link.Schvaleno {
			links = append(links, m.withCreator(link))
		}
	}
	slices.SortFunc(links, func(a, b database.Link) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	return links, nil
}

func (m *MockDB) LinkConflicts(ctx context.Context, nazev, url string, excludeID uint) (bool, error) {
	if m.LinkConflictsError != nil {
		return false, m.LinkConflictsError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.linkTaken("nazev", nazev, excludeID) || m.linkTaken("url", url, excludeID), nil
}

// linkTaken must be called with the lock held.
func (m *MockDB) linkTaken(column, value string, excludeID uint) bool {
	for id, link := range m.links {
		if id == excludeID {
			continue
		}
		if (column == "nazev" && link.Nazev == value) || (column == "url" && link.URL == value) {
			return true
		}
	}
	return false
}

func (m *MockDB) UpdateLink(ctx context.Context, id uint, update database.LinkUpdate) error {
	if m.UpdateLinkError != nil {
		return m.UpdateLinkError
	}
	if update.IsEmpty() {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	link, ok := m.links[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if update.Nazev != nil && m.linkTaken("nazev", *update.Nazev, id) {
		return duplicate("vazby.nazev")
	}
	if update.URL != nil && m.linkTaken("url", *update.URL, id) {
		return duplicate("vazby.url")
	}

	if update.Nazev != nil {
		link.Nazev = *update.Nazev
	}
	if update.URL != nil {
		link.URL = *update.URL
	}
	if update.Popis != nil {
		link.Popis = *update.Popis
	}
	if update.Kategorie != nil {
		link.Kategorie = *update.Kategorie
	}
	if update.Schvaleno != nil {
		link.Schvaleno = *update.Schvaleno
	}
	link.UpdatedAt = m.tick()
	return nil
}

func (m *MockDB) DeleteLink(ctx context.Context, id uint) error {
	if m.DeleteLinkError != nil {
		return m.DeleteLinkError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.links[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.links, id)
	return nil
}

// Audit operations

func (m *MockDB) CreateAuditEntry(ctx context.Context, entry *database.AuditEntry) error {
	if m.CreateAuditEntryError != nil {
		return m.CreateAuditEntryError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entry.ID = uint(len(m.auditEntries) + 1)
	entry.CreatedAt = m.tick()
	m.auditEntries = append(m.auditEntries, *entry)
	return nil
}

// Utility

func (m *MockDB) Stats(ctx context.Context) (*database.Stats, error) {
	if m.StatsError != nil {
		return nil, m.StatsError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var s database.Stats
	for _, user := range m.users {
		s.Users++
		if user.Active {
			s.ActiveUsers++
		}
	}
	for _, link := range m.links {
		if link.Schvaleno {
			s.ApprovedLinks++
		} else {
			s.PendingLinks++
		}
	}
	s.AuditEntries = int64(len(m.auditEntries))
	return &s, nil
}

func (m *MockDB) Ping(ctx context.Context) error {
	return m.PingError
}

func (m *MockDB) Close() error {
	return nil
}
