package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/pollen-calendar/pkg/errors"
)

func TestService_RegisterLoginAndRefresh(t *testing.T) {
	svc := newTestService(newMemoryRepo())

	view, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "User@Example.com",
		Password: "pass1234",
		Nickname: "Pollen Fan",
	})
	require.NoError(t, err)
	require.Equal(t, "user@example.com", view.Email)
	require.Equal(t, "Pollen Fan", view.Nickname)
	require.NotZero(t, view.ID)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "user@example.com",
		Password: "pass1234",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	require.NotEmpty(t, resp.RefreshToken)
	require.Equal(t, view.Email, resp.User.Email)

	claims, err := svc.ValidateToken(context.Background(), resp.Token)
	require.NoError(t, err)
	require.Equal(t, view.ID, claims.UserID)
	require.Equal(t, view.Email, claims.Email)
	require.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, time.Minute)

	refreshed, err := svc.Refresh(context.Background(), resp.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, resp.Token, refreshed.Token)
	require.Equal(t, resp.User.Email, refreshed.User.Email)

	profile, err := svc.Profile(context.Background(), view.ID)
	require.NoError(t, err)
	require.Equal(t, view, profile)
}

func TestService_DefaultNickname(t *testing.T) {
	svc := newTestService(newMemoryRepo())

	view, err := svc.Register(context.Background(), RegisterRequest{Email: "hay.fever@example.com", Password: "pass1234"})
	require.NoError(t, err)
	require.Equal(t, "hay.fever", view.Nickname)
}

func TestService_DuplicateEmail(t *testing.T) {
	svc := newTestService(newMemoryRepo())

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "user@example.com",
		Password: "pass1234",
		Nickname: "NickOne",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterRequest{
		Email:    "user@example.com",
		Password: "pass12345",
		Nickname: "NickTwo",
	})
	require.True(t, apperrors.IsCode(err, apperrors.CodeConflict))
	require.Contains(t, err.Error(), "already registered")
}

func TestService_RejectsBadInput(t *testing.T) {
	svc := newTestService(newMemoryRepo())

	_, err := svc.Register(context.Background(), RegisterRequest{Email: "nope", Password: "pass1234"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	_, err = svc.Register(context.Background(), RegisterRequest{Email: "a@b.com", Password: "short"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	_, err = svc.Register(context.Background(), RegisterRequest{Email: "a@b.com", Password: "pass1234", Nickname: "<script>"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestService_LoginWrongPassword(t *testing.T) {
	svc := newTestService(newMemoryRepo())
	_, err := svc.Register(context.Background(), RegisterRequest{Email: "a@b.com", Password: "pass1234"})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "a@b.com", Password: "pass12345"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))

	_, err = svc.Login(context.Background(), LoginRequest{Email: "missing@b.com", Password: "pass1234"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
}

func TestService_TokenTypesAreNotInterchangeable(t *testing.T) {
	svc := newTestService(newMemoryRepo())
	_, err := svc.Register(context.Background(), RegisterRequest{Email: "a@b.com", Password: "pass1234"})
	require.NoError(t, err)
	resp, err := svc.Login(context.Background(), LoginRequest{Email: "a@b.com", Password: "pass1234"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), resp.RefreshToken)
	require.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))

	_, err = svc.Refresh(context.Background(), resp.Token)
	require.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
}

func TestService_ExpiredToken(t *testing.T) {
	svc := newTestService(newMemoryRepo()).(*service)
	_, err := svc.Register(context.Background(), RegisterRequest{Email: "a@b.com", Password: "pass1234"})
	require.NoError(t, err)
	resp, err := svc.Login(context.Background(), LoginRequest{Email: "a@b.com", Password: "pass1234"})
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.ValidateToken(context.Background(), resp.Token)
	require.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))

	other := NewService(Config{Secret: "other-secret", TokenTTL: time.Hour}, newMemoryRepo(), newTestLogger())
	_, err = other.ValidateToken(context.Background(), resp.RefreshToken)
	require.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
}

func newTestService(repo Repository) Service {
	return NewService(Config{
		Secret:          "test-secret",
		TokenTTL:        time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
	}, repo, newTestLogger())
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

type memoryRepo struct {
	users map[int64]User
	seq   int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{users: make(map[int64]User)}
}

func (m *memoryRepo) Create(_ context.Context, email, nickname, passwordHash string) (User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return User{}, ErrEmailExists
		}
	}
	m.seq++
	user := User{
		ID:           m.seq,
		Email:        email,
		Nickname:     nickname,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	m.users[user.ID] = user
	return user, nil
}

func (m *memoryRepo) GetByEmail(_ context.Context, email string) (User, bool, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, true, nil
		}
	}
	return User{}, false, nil
}

func (m *memoryRepo) GetByID(_ context.Context, id int64) (User, bool, error) {
	user, ok := m.users[id]
	return user, ok, nil
}
