package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hagwonlab/hagwon-api/internal/dto"
	"github.com/hagwonlab/hagwon-api/internal/models"
	"github.com/hagwonlab/hagwon-api/pkg/identity"
)

type fakeUserRepo struct {
	users map[string]models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]models.User)}
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uint) (models.User, error) {
	for _, user := range f.users {
		if user.ID == id {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (models.User, error) {
	user, ok := f.users[email]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	user.ID = uint(len(f.users) + 1)
	f.users[user.Email] = *user
	return nil
}

func (f *fakeUserRepo) CountByRole(_ context.Context, roleLevel string) (int64, error) {
	var count int64
	for _, user := range f.users {
		if user.RoleLevel == roleLevel {
			count++
		}
	}
	return count, nil
}

func TestAuthServiceLoginIssuesToken(t *testing.T) {
	users := newFakeUserRepo()
	users.users["admin@hagwon.local"] = models.User{ID: 1, Email: "admin@hagwon.local", Name: "원장", RoleLevel: "ADMIN"}

	directory := identity.NewLocalDirectory()
	_, err := directory.CreateUser(context.Background(), "admin@hagwon.local", "secret", "원장", "ADMIN")
	require.NoError(t, err)

	svc := NewAuthService(users, directory, testValidator(), "test-secret", time.Hour, testLogger())

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Email: "admin@hagwon.local", Password: "secret"})
	require.NoError(t, err)
	require.Equal(t, "ADMIN", resp.User.RoleLevel)
	require.WithinDuration(t, time.Now().Add(time.Hour), resp.ExpiresAt, 5*time.Second)

	parsed, err := jwt.Parse(resp.Token, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	require.Equal(t, "1", claims["sub"])
	require.Equal(t, "ADMIN", claims["role"])
}

func TestAuthServiceLoginRejectsWrongPassword(t *testing.T) {
	users := newFakeUserRepo()
	users.users["admin@hagwon.local"] = models.User{ID: 1, Email: "admin@hagwon.local", RoleLevel: "ADMIN"}

	directory := identity.NewLocalDirectory()
	_, err := directory.CreateUser(context.Background(), "admin@hagwon.local", "secret", "원장", "ADMIN")
	require.NoError(t, err)

	svc := NewAuthService(users, directory, testValidator(), "test-secret", time.Hour, testLogger())

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "admin@hagwon.local", Password: "wrong"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthServiceLoginDirectoryDown(t *testing.T) {
	users := newFakeUserRepo()
	directory := identity.NewLocalDirectory()
	directory.FailNext(identity.ErrUnavailable)

	svc := NewAuthService(users, directory, testValidator(), "test-secret", time.Hour, testLogger())

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "admin@hagwon.local", Password: "secret"})
	require.ErrorIs(t, err, ErrIdentityUnavailable)
}
