package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inovelapp/inovel-server/internal/auth"
	"github.com/inovelapp/inovel-server/internal/domain"
	domainerrors "github.com/inovelapp/inovel-server/internal/errors"
	"github.com/inovelapp/inovel-server/internal/store/storetest"
)

func TestAuthService_Register(t *testing.T) {
	svc := setupServices(t, storetest.Fixture{})
	ctx := context.Background()

	user, err := svc.auth.Register(ctx, RegisterRequest{Username: "  林夕 ", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, 1, user.ID)
	assert.Equal(t, "林夕", user.Username)
	assert.Empty(t, user.Favorites)
	assert.Empty(t, user.RecentRead)

	second, err := svc.auth.Register(ctx, RegisterRequest{Username: "ann", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, 2, second.ID)

	users := storetest.MustLoad(t, svc.store.Users)
	require.Len(t, users, 2)
	assert.True(t, auth.VerifyPassword(users[0].PasswordHash, "secret"))
	assert.Empty(t, users[0].LegacyPassword)
	assert.NotNil(t, users[0].Favorites)
}

func TestAuthService_Register_IDIsMaxPlusOne(t *testing.T) {
	svc := setupServices(t, storetest.Fixture{Users: []domain.User{testUser(7, "old"), testUser(3, "older")}})

	user, err := svc.auth.Register(context.Background(), RegisterRequest{Username: "new", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, 8, user.ID)
}

func TestAuthService_Register_Conflict(t *testing.T) {
	svc := setupServices(t, storetest.Fixture{Users: []domain.User{testUser(1, "ann")}})
	ctx := context.Background()

	_, err := svc.auth.Register(ctx, RegisterRequest{Username: "ann ", Password: "pw"})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrConflict))

	// Usernames are case-sensitive.
	_, err = svc.auth.Register(ctx, RegisterRequest{Username: "Ann", Password: "pw"})
	assert.NoError(t, err)
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := setupServices(t, storetest.Fixture{})

	tests := []struct {
		name string
		req  RegisterRequest
	}{
		{"blank username", RegisterRequest{Username: "   ", Password: "pw"}},
		{"missing password", RegisterRequest{Username: "ann"}},
		{"control character", RegisterRequest{Username: "a\x00b", Password: "pw"}},
		{"password over byte limit", RegisterRequest{Username: "ann", Password: strings.Repeat("密", 500)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.auth.Register(context.Background(), tt.req)
			require.Error(t, err)
			assert.Equal(t, domainerrors.CodeValidation, domainerrors.CodeOf(err))
		})
	}

	assert.Empty(t, storetest.MustLoad(t, svc.store.Users))
}

func TestAuthService_Login(t *testing.T) {
	svc := setupServices(t, storetest.Fixture{})
	ctx := context.Background()

	_, err := svc.auth.Register(ctx, RegisterRequest{Username: "ann", Password: "secret"})
	require.NoError(t, err)

	resp, err := svc.auth.Login(ctx, LoginRequest{Username: "ann", Password: "secret"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "ann", resp.User.Username)
	assert.True(t, resp.Session.LoggedIn)
	assert.Equal(t, 1, resp.Session.UserID)

	session, err := svc.sessions.Resolve(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.Session.ID, session.ID)
	assert.Equal(t, "ann", session.Username)
}

func TestAuthService_Login_TrimsUsername(t *testing.T) {
	svc := setupServices(t, storetest.Fixture{})
	ctx := context.Background()

	_, err := svc.auth.Register(ctx, RegisterRequest{Username: " bob ", Password: "pw"})
	require.NoError(t, err)

	for _, name := range []string{"bob", " bob ", "\tbob"} {
		resp, err := svc.auth.Login(ctx, LoginRequest{Username: name, Password: "pw"})
		require.NoError(t, err, "login as %q", name)
		assert.Equal(t, "bob", resp.User.Username)
	}
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	svc := setupServices(t, storetest.Fixture{})
	ctx := context.Background()

	_, err := svc.auth.Register(ctx, RegisterRequest{Username: "ann", Password: "secret"})
	require.NoError(t, err)

	_, wrongPassword := svc.auth.Login(ctx, LoginRequest{Username: "ann", Password: "nope"})
	_, unknownUser := svc.auth.Login(ctx, LoginRequest{Username: "bob", Password: "secret"})

	require.Error(t, wrongPassword)
	require.Error(t, unknownUser)
	assert.True(t, domainerrors.Is(wrongPassword, domainerrors.ErrInvalidCredentials))
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
	assert.Equal(t, 0, svc.sessions.ActiveSessions())
}

func TestAuthService_Login_UpgradesLegacyPassword(t *testing.T) {
	legacy := testUser(1, "ann")
	legacy.LegacyPassword = "123456"
	svc := setupServices(t, storetest.Fixture{Users: []domain.User{legacy}})
	ctx := context.Background()

	_, err := svc.auth.Login(ctx, LoginRequest{Username: "ann", Password: "wrong"})
	require.Error(t, err)

	_, err = svc.auth.Login(ctx, LoginRequest{Username: "ann", Password: "123456"})
	require.NoError(t, err)

	users := storetest.MustLoad(t, svc.store.Users)
	assert.Empty(t, users[0].LegacyPassword)
	assert.True(t, auth.VerifyPassword(users[0].PasswordHash, "123456"))

	_, err = svc.auth.Login(ctx, LoginRequest{Username: "ann", Password: "123456"})
	assert.NoError(t, err, "the upgraded hash keeps working")
}

func TestAuthService_Logout(t *testing.T) {
	svc := setupServices(t, storetest.Fixture{})
	ctx := context.Background()

	_, err := svc.auth.Register(ctx, RegisterRequest{Username: "ann", Password: "secret"})
	require.NoError(t, err)
	resp, err := svc.auth.Login(ctx, LoginRequest{Username: "ann", Password: "secret"})
	require.NoError(t, err)

	require.NoError(t, svc.auth.Logout(ctx, resp.Session))

	session, err := svc.sessions.Resolve(resp.Token)
	require.Error(t, err)
	assert.False(t, session.Authenticated())

	assert.NoError(t, svc.auth.Logout(ctx, resp.Session), "second logout is a no-op")
	assert.NoError(t, svc.auth.Logout(ctx, domain.AnonymousSession()))
}

func TestAuthService_HashLegacyPasswords(t *testing.T) {
	a := testUser(1, "ann")
	a.LegacyPassword = "one"
	b := testUser(2, "bob")
	svc := setupServices(t, storetest.Fixture{Users: []domain.User{a, b}})

	n, err := svc.auth.HashLegacyPasswords(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	users := storetest.MustLoad(t, svc.store.Users)
	assert.True(t, auth.VerifyPassword(users[0].PasswordHash, "one"))
	assert.Empty(t, users[0].LegacyPassword)
	assert.Empty(t, users[1].PasswordHash)
}
