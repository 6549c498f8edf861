// Package auth registers and logs in learners and caches the result locally.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/example/pewma/internal/database"
	"github.com/example/pewma/pkg/models"
)

// MinPasswordLength is the shortest password accepted at registration
const MinPasswordLength = 6

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrInvalidInput       = errors.New("invalid input")
)

type userStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	UsernameTaken(ctx context.Context, username, exceptID string) (bool, error)
	Update(ctx context.Context, user models.User) error
	SetPassword(ctx context.Context, userID, hash string) error
	GetPasswordHash(ctx context.Context, userID string) (string, error)
}

type progressStore interface {
	SaveProgress(ctx context.Context, rec models.ProgressRecord) error
}

// Service authenticates learners against the user store
type Service struct {
	users       userStore
	progress    progressStore
	slot        Slot
	log         *slog.Logger
	now         func() time.Time
	cost        int
	defaultGoal int
}

// NewService creates an auth service. Fresh accounts get a progress row with defaultGoal.
func NewService(users userStore, progress progressStore, slot Slot, defaultGoal int, log *slog.Logger) *Service {
	if defaultGoal <= 0 {
		defaultGoal = models.DefaultDailyGoal
	}
	return &Service{
		users:       users,
		progress:    progress,
		slot:        slot,
		log:         log,
		now:         time.Now,
		cost:        bcrypt.DefaultCost,
		defaultGoal: defaultGoal,
	}
}

// Register creates an account, its password and an initial progress row,
// then caches the session under key
func (s *Service) Register(ctx context.Context, key string, cred models.RegisterCredentials) (*models.AuthData, error) {
	email := strings.ToLower(strings.TrimSpace(cred.Email))
	username := strings.TrimSpace(cred.Username)
	if err := validateRegistration(email, username, cred.Password); err != nil {
		return nil, err
	}

	taken, err := s.users.EmailTaken(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	taken, err = s.users.UsernameTaken(ctx, username, "")
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cred.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		ID:        uuid.NewString(),
		Email:     email,
		Username:  username,
		CreatedAt: s.now().UTC(),
	}
	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, database.ErrExists) {
			// lost a race with a concurrent registration
			if taken, _ := s.users.EmailTaken(ctx, email); taken {
				return nil, ErrEmailTaken
			}
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.users.SetPassword(ctx, user.ID, string(hash)); err != nil {
		return nil, fmt.Errorf("save password: %w", err)
	}

	err = s.progress.SaveProgress(ctx, models.ProgressRecord{
		UserID:       user.ID,
		CurrentLevel: 1,
		DailyGoal:    s.defaultGoal,
	})
	if err != nil {
		s.log.Error("create initial progress", "user_id", user.ID, "error", err)
	}

	s.log.Info("user registered", "user_id", user.ID)
	return s.remember(key, user), nil
}

// Login checks the credentials and caches the session under key
func (s *Service) Login(ctx context.Context, key string, cred models.LoginCredentials) (*models.AuthData, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(cred.Email))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	hash, err := s.users.GetPasswordHash(ctx, user.ID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get password: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(cred.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	s.log.Info("user logged in", "user_id", user.ID)
	return s.remember(key, *user), nil
}

// Logout forgets the session cached under key
func (s *Service) Logout(key string) error {
	if err := s.slot.Clear(key); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Restore returns the session cached under key, or nil when nobody is logged in.
// A corrupt cache entry is logged and treated as logged out.
func (s *Service) Restore(key string) *models.AuthData {
	auth, err := s.slot.Load(key)
	if err != nil {
		s.log.Error("restore session", "key", key, "error", err)
		return nil
	}
	return auth
}

// CachedKeys lists the keys with a cached session, used to restore them at start-up
func (s *Service) CachedKeys() ([]string, error) {
	return s.slot.Keys()
}

// UpdateProfile changes the username or bio of the current user. The cached
// session is only updated after the store accepted the change.
func (s *Service) UpdateProfile(ctx context.Context, key string, current *models.AuthData, upd models.ProfileUpdate) (*models.AuthData, error) {
	if current == nil {
		return nil, ErrNotAuthenticated
	}

	user := current.User
	if upd.Username != nil {
		username := strings.TrimSpace(*upd.Username)
		if username == "" {
			return nil, fmt.Errorf("%w: empty username", ErrInvalidInput)
		}
		if username != user.Username {
			taken, err := s.users.UsernameTaken(ctx, username, user.ID)
			if err != nil {
				return nil, fmt.Errorf("check username: %w", err)
			}
			if taken {
				return nil, ErrUsernameTaken
			}
			user.Username = username
		}
	}
	if upd.Bio != nil {
		user.Bio = strings.TrimSpace(*upd.Bio)
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, database.ErrExists) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}

	auth := models.AuthData{User: user, Token: current.Token}
	if err := s.slot.Save(key, auth); err != nil {
		s.log.Error("save session", "user_id", user.ID, "error", err)
	}
	return &auth, nil
}

func (s *Service) remember(key string, user models.User) *models.AuthData {
	auth := models.AuthData{User: user, Token: uuid.NewString()}
	if err := s.slot.Save(key, auth); err != nil {
		s.log.Error("save session", "user_id", user.ID, "error", err)
	}
	return &auth
}

func validateRegistration(email, username, password string) error {
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return fmt.Errorf("%w: email", ErrInvalidInput)
	}
	if username == "" {
		return fmt.Errorf("%w: username", ErrInvalidInput)
	}
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: password must have at least %d characters", ErrInvalidInput, MinPasswordLength)
	}
	return nil
}
