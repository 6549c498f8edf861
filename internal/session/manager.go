// Package session ties each chat to its logged-in learner and that learner's
// progress session. The progress session lives exactly as long as the login:
// it is built on login, register or restore and torn down on logout or when
// another account logs in from the same chat. A learner logged in from several
// chats shares one progress session, so the chats never overwrite each
// other's remote rows.
package session

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"github.com/example/pewma/internal/auth"
	"github.com/example/pewma/internal/catalog"
	"github.com/example/pewma/internal/progress"
	"github.com/example/pewma/pkg/models"
)

type authenticator interface {
	Register(ctx context.Context, key string, cred models.RegisterCredentials) (*models.AuthData, error)
	Login(ctx context.Context, key string, cred models.LoginCredentials) (*models.AuthData, error)
	Logout(key string) error
	Restore(key string) *models.AuthData
	CachedKeys() ([]string, error)
	UpdateProfile(ctx context.Context, key string, current *models.AuthData, upd models.ProfileUpdate) (*models.AuthData, error)
}

// Chat is the authenticated state of one chat
type Chat struct {
	ID       int64
	Auth     models.AuthData
	Progress *progress.Session
}

// Entry pairs a chat with its progress session
type Entry struct {
	ChatID   int64
	Progress *progress.Session
}

// Manager owns the chat sessions of the running service
type Manager struct {
	auth    authenticator
	store   progress.Store
	catalog *catalog.Catalog
	opts    []progress.Option
	log     *slog.Logger

	mu    sync.Mutex
	chats map[int64]*Chat
}

// NewManager creates a manager; opts are passed to every progress session
func NewManager(a authenticator, store progress.Store, cat *catalog.Catalog, log *slog.Logger, opts ...progress.Option) *Manager {
	return &Manager{
		auth:    a,
		store:   store,
		catalog: cat,
		opts:    append([]progress.Option{progress.WithLogger(log)}, opts...),
		log:     log,
		chats:   make(map[int64]*Chat),
	}
}

func chatKey(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}

// Register creates an account and logs the chat into it
func (m *Manager) Register(ctx context.Context, chatID int64, cred models.RegisterCredentials) (*Chat, error) {
	data, err := m.auth.Register(ctx, chatKey(chatID), cred)
	if err != nil {
		return nil, err
	}
	return m.activate(ctx, chatID, *data), nil
}

// Login logs the chat into an existing account
func (m *Manager) Login(ctx context.Context, chatID int64, cred models.LoginCredentials) (*Chat, error) {
	data, err := m.auth.Login(ctx, chatKey(chatID), cred)
	if err != nil {
		return nil, err
	}
	return m.activate(ctx, chatID, *data), nil
}

// Logout ends the chat's session after its pending writes have finished
func (m *Manager) Logout(chatID int64) error {
	m.mu.Lock()
	chat := m.chats[chatID]
	delete(m.chats, chatID)
	orphaned := chat != nil && !m.inUseLocked(chat.Progress)
	m.mu.Unlock()

	if orphaned {
		chat.Progress.Close()
		m.log.Info("session closed", "chat_id", chatID, "user_id", chat.Auth.User.ID)
	}
	return m.auth.Logout(chatKey(chatID))
}

// Get returns the chat's session, restoring a cached login if needed.
// It returns nil when the chat is not logged in.
func (m *Manager) Get(ctx context.Context, chatID int64) *Chat {
	m.mu.Lock()
	chat := m.chats[chatID]
	m.mu.Unlock()
	if chat != nil {
		return chat
	}

	data := m.auth.Restore(chatKey(chatID))
	if data == nil {
		return nil
	}
	return m.activate(ctx, chatID, *data)
}

// UpdateProfile changes the profile of the chat's user
func (m *Manager) UpdateProfile(ctx context.Context, chatID int64, upd models.ProfileUpdate) (*Chat, error) {
	chat := m.Get(ctx, chatID)
	if chat == nil {
		return nil, auth.ErrNotAuthenticated
	}

	current := chat.Auth
	data, err := m.auth.UpdateProfile(ctx, chatKey(chatID), &current, upd)
	if err != nil {
		return nil, err
	}
	return m.activate(ctx, chatID, *data), nil
}

// RestoreAll brings back every cached login, typically once at start-up
func (m *Manager) RestoreAll(ctx context.Context) int {
	keys, err := m.auth.CachedKeys()
	if err != nil {
		m.log.Error("list cached sessions", "error", err)
		return 0
	}

	restored := 0
	for _, key := range keys {
		chatID, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			m.log.Warn("skip cached session", "key", key, "error", err)
			continue
		}
		if m.Get(ctx, chatID) != nil {
			restored++
		}
	}
	return restored
}

// Active returns every chat with a progress session, in no particular order
func (m *Manager) Active() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := make([]Entry, 0, len(m.chats))
	for id, chat := range m.chats {
		entries = append(entries, Entry{ChatID: id, Progress: chat.Progress})
	}
	return entries
}

// Close drains the pending writes of every session
func (m *Manager) Close() {
	m.mu.Lock()
	chats := m.chats
	m.chats = make(map[int64]*Chat)
	m.mu.Unlock()

	closed := make(map[*progress.Session]bool, len(chats))
	for _, chat := range chats {
		if !closed[chat.Progress] {
			chat.Progress.Close()
			closed[chat.Progress] = true
		}
	}
}

// activate binds data to the chat. The progress session is kept when the
// same user is already active in this or another chat and rebuilt from the
// store otherwise.
func (m *Manager) activate(ctx context.Context, chatID int64, data models.AuthData) *Chat {
	m.mu.Lock()
	old := m.chats[chatID]
	if old != nil && old.Auth.User.ID == data.User.ID {
		chat := &Chat{ID: chatID, Auth: data, Progress: old.Progress}
		m.chats[chatID] = chat
		m.mu.Unlock()
		return chat
	}

	sess, shared := m.userSessionLocked(data.User.ID)
	if !shared {
		sess = progress.NewSession(data.User.ID, m.store, m.catalog, m.opts...)
	}
	chat := &Chat{ID: chatID, Auth: data, Progress: sess}
	m.chats[chatID] = chat
	orphaned := old != nil && !m.inUseLocked(old.Progress)
	m.mu.Unlock()

	if orphaned {
		old.Progress.Close()
	}
	if old != nil {
		m.log.Info("session replaced", "chat_id", chatID, "old_user_id", old.Auth.User.ID)
	}

	if shared {
		m.log.Info("session shared", "chat_id", chatID, "user_id", data.User.ID)
		return chat
	}
	sess.Load(ctx)
	m.log.Info("session opened", "chat_id", chatID, "user_id", data.User.ID)
	return chat
}

// userSessionLocked finds the progress session of a user active in any chat
func (m *Manager) userSessionLocked(userID string) (*progress.Session, bool) {
	for _, chat := range m.chats {
		if chat.Auth.User.ID == userID {
			return chat.Progress, true
		}
	}
	return nil, false
}

func (m *Manager) inUseLocked(p *progress.Session) bool {
	for _, chat := range m.chats {
		if chat.Progress == p {
			return true
		}
	}
	return false
}
