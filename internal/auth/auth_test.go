package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/example/pewma/internal/database"
	"github.com/example/pewma/pkg/models"
)

type mockUserStore struct {
	CreateFunc          func(ctx context.Context, user *models.User) error
	GetByEmailFunc      func(ctx context.Context, email string) (*models.User, error)
	EmailTakenFunc      func(ctx context.Context, email string) (bool, error)
	UsernameTakenFunc   func(ctx context.Context, username, exceptID string) (bool, error)
	UpdateFunc          func(ctx context.Context, user models.User) error
	SetPasswordFunc     func(ctx context.Context, userID, hash string) error
	GetPasswordHashFunc func(ctx context.Context, userID string) (string, error)
}

func (m *mockUserStore) Create(ctx context.Context, user *models.User) error {
	return m.CreateFunc(ctx, user)
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.GetByEmailFunc(ctx, email)
}

func (m *mockUserStore) EmailTaken(ctx context.Context, email string) (bool, error) {
	return m.EmailTakenFunc(ctx, email)
}

func (m *mockUserStore) UsernameTaken(ctx context.Context, username, exceptID string) (bool, error) {
	return m.UsernameTakenFunc(ctx, username, exceptID)
}

func (m *mockUserStore) Update(ctx context.Context, user models.User) error {
	return m.UpdateFunc(ctx, user)
}

func (m *mockUserStore) SetPassword(ctx context.Context, userID, hash string) error {
	return m.SetPasswordFunc(ctx, userID, hash)
}

func (m *mockUserStore) GetPasswordHash(ctx context.Context, userID string) (string, error) {
	return m.GetPasswordHashFunc(ctx, userID)
}

type mockProgressStore struct {
	SaveProgressFunc func(ctx context.Context, rec models.ProgressRecord) error
}

func (m *mockProgressStore) SaveProgress(ctx context.Context, rec models.ProgressRecord) error {
	return m.SaveProgressFunc(ctx, rec)
}

func notTaken() *mockUserStore {
	return &mockUserStore{
		EmailTakenFunc:    func(context.Context, string) (bool, error) { return false, nil },
		UsernameTakenFunc: func(context.Context, string, string) (bool, error) { return false, nil },
	}
}

func newTestService(t *testing.T, users userStore, progress progressStore) (*Service, *FileSlot) {
	t.Helper()
	slot := NewFileSlot(t.TempDir())
	if progress == nil {
		progress = &mockProgressStore{SaveProgressFunc: func(context.Context, models.ProgressRecord) error { return nil }}
	}
	s := NewService(users, progress, slot, 20, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.cost = bcrypt.MinCost
	return s, slot
}

func TestRegister(t *testing.T) {
	users := notTaken()
	var created models.User
	var hash string
	users.CreateFunc = func(_ context.Context, u *models.User) error {
		created = *u
		return nil
	}
	users.SetPasswordFunc = func(_ context.Context, _ string, h string) error {
		hash = h
		return nil
	}
	var initial models.ProgressRecord
	progress := &mockProgressStore{SaveProgressFunc: func(_ context.Context, rec models.ProgressRecord) error {
		initial = rec
		return nil
	}}
	s, slot := newTestService(t, users, progress)

	auth, err := s.Register(context.Background(), "42", models.RegisterCredentials{
		Email:    " Ana@Example.com ",
		Username: "ana",
		Password: "kümelen",
	})
	require.NoError(t, err)

	assert.Equal(t, "ana@example.com", created.Email)
	assert.Equal(t, created.ID, auth.User.ID)
	assert.NotEmpty(t, auth.Token)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("kümelen")))

	assert.Equal(t, created.ID, initial.UserID)
	assert.Equal(t, 1, initial.CurrentLevel)
	assert.Equal(t, 20, initial.DailyGoal)

	cached, err := slot.Load("42")
	require.NoError(t, err)
	assert.Equal(t, auth, cached)
}

func TestRegister_Conflicts(t *testing.T) {
	t.Run("email", func(t *testing.T) {
		users := notTaken()
		users.EmailTakenFunc = func(context.Context, string) (bool, error) { return true, nil }
		s, _ := newTestService(t, users, nil)

		_, err := s.Register(context.Background(), "1", models.RegisterCredentials{Email: "a@b.cl", Username: "a", Password: "secret"})
		require.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("username", func(t *testing.T) {
		users := notTaken()
		users.UsernameTakenFunc = func(context.Context, string, string) (bool, error) { return true, nil }
		s, _ := newTestService(t, users, nil)

		_, err := s.Register(context.Background(), "1", models.RegisterCredentials{Email: "a@b.cl", Username: "a", Password: "secret"})
		require.ErrorIs(t, err, ErrUsernameTaken)
	})

	t.Run("race on insert", func(t *testing.T) {
		users := notTaken()
		users.CreateFunc = func(context.Context, *models.User) error { return database.ErrExists }
		s, _ := newTestService(t, users, nil)

		_, err := s.Register(context.Background(), "1", models.RegisterCredentials{Email: "a@b.cl", Username: "a", Password: "secret"})
		require.ErrorIs(t, err, ErrUsernameTaken)
	})
}

func TestRegister_InvalidInput(t *testing.T) {
	s, _ := newTestService(t, notTaken(), nil)

	for _, cred := range []models.RegisterCredentials{
		{Email: "not-an-email", Username: "a", Password: "secret"},
		{Email: "Ana <a@b.cl>", Username: "a", Password: "secret"},
		{Email: "a@b.cl", Username: "  ", Password: "secret"},
		{Email: "a@b.cl", Username: "a", Password: "123"},
	} {
		_, err := s.Register(context.Background(), "1", cred)
		require.ErrorIs(t, err, ErrInvalidInput, cred)
	}
}

func TestRegister_InitialProgressFailureIsNotFatal(t *testing.T) {
	users := notTaken()
	users.CreateFunc = func(context.Context, *models.User) error { return nil }
	users.SetPasswordFunc = func(context.Context, string, string) error { return nil }
	progress := &mockProgressStore{SaveProgressFunc: func(context.Context, models.ProgressRecord) error {
		return errors.New("unavailable")
	}}
	s, _ := newTestService(t, users, progress)

	auth, err := s.Register(context.Background(), "1", models.RegisterCredentials{Email: "a@b.cl", Username: "a", Password: "secret"})
	require.NoError(t, err)
	require.NotNil(t, auth)
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("chaltu may"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{ID: "u1", Email: "ana@example.com", Username: "ana"}
	users := &mockUserStore{
		GetByEmailFunc: func(_ context.Context, email string) (*models.User, error) {
			if email == "ana@example.com" {
				return user, nil
			}
			return nil, database.ErrNotFound
		},
		GetPasswordHashFunc: func(context.Context, string) (string, error) { return string(hash), nil },
	}
	s, slot := newTestService(t, users, nil)

	auth, err := s.Login(context.Background(), "7", models.LoginCredentials{Email: "ana@example.com", Password: "chaltu may"})
	require.NoError(t, err)
	assert.Equal(t, "u1", auth.User.ID)
	assert.Equal(t, auth, s.Restore("7"))

	_, err = s.Login(context.Background(), "7", models.LoginCredentials{Email: "ana@example.com", Password: "wrong"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.Login(context.Background(), "7", models.LoginCredentials{Email: "nobody@example.com", Password: "chaltu may"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, s.Logout("7"))
	assert.Nil(t, s.Restore("7"))
	cached, err := slot.Load("7")
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestLogin_MissingPassword(t *testing.T) {
	users := &mockUserStore{
		GetByEmailFunc:      func(context.Context, string) (*models.User, error) { return &models.User{ID: "u1"}, nil },
		GetPasswordHashFunc: func(context.Context, string) (string, error) { return "", database.ErrNotFound },
	}
	s, _ := newTestService(t, users, nil)

	_, err := s.Login(context.Background(), "1", models.LoginCredentials{Email: "a@b.cl", Password: "x"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateProfile(t *testing.T) {
	var updated models.User
	users := notTaken()
	users.UpdateFunc = func(_ context.Context, u models.User) error {
		updated = u
		return nil
	}
	s, slot := newTestService(t, users, nil)
	current := &models.AuthData{User: models.User{ID: "u1", Username: "ana", Bio: "old"}, Token: "tok"}

	username, bio := "ana_m", " Aprendiendo mapudungun "
	auth, err := s.UpdateProfile(context.Background(), "1", current, models.ProfileUpdate{Username: &username, Bio: &bio})
	require.NoError(t, err)

	assert.Equal(t, "ana_m", updated.Username)
	assert.Equal(t, "Aprendiendo mapudungun", updated.Bio)
	assert.Equal(t, "tok", auth.Token)

	cached, err := slot.Load("1")
	require.NoError(t, err)
	assert.Equal(t, "ana_m", cached.User.Username)
}

func TestUpdateProfile_Failures(t *testing.T) {
	current := &models.AuthData{User: models.User{ID: "u1", Username: "ana"}, Token: "tok"}
	other := "pedro"

	t.Run("not authenticated", func(t *testing.T) {
		s, _ := newTestService(t, notTaken(), nil)
		_, err := s.UpdateProfile(context.Background(), "1", nil, models.ProfileUpdate{Username: &other})
		require.ErrorIs(t, err, ErrNotAuthenticated)
	})

	t.Run("username taken", func(t *testing.T) {
		users := notTaken()
		users.UsernameTakenFunc = func(_ context.Context, _ string, exceptID string) (bool, error) {
			assert.Equal(t, "u1", exceptID)
			return true, nil
		}
		s, slot := newTestService(t, users, nil)

		_, err := s.UpdateProfile(context.Background(), "1", current, models.ProfileUpdate{Username: &other})
		require.ErrorIs(t, err, ErrUsernameTaken)
		cached, _ := slot.Load("1")
		assert.Nil(t, cached)
	})

	t.Run("store failure leaves cache untouched", func(t *testing.T) {
		users := notTaken()
		users.UpdateFunc = func(context.Context, models.User) error { return errors.New("unavailable") }
		s, slot := newTestService(t, users, nil)
		require.NoError(t, slot.Save("1", *current))

		_, err := s.UpdateProfile(context.Background(), "1", current, models.ProfileUpdate{Username: &other})
		require.Error(t, err)
		cached, _ := slot.Load("1")
		assert.Equal(t, "ana", cached.User.Username)
	})
}
