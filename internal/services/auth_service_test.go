package services

import (
	"context"
	"testing"

	"github.com/denizocal/photostream/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegisterIssuesPair(t *testing.T) {
	f := newFixture(t)
	auth := NewAuthService(f.users, f.tokens)
	ctx := context.Background()

	pair, err := auth.Register(ctx, &dto.RegisterRequest{
		Username:    "tobyKing1",
		ProfileName: "Toby King Kovacs",
		Email:       "toby1@test.com",
		Password:    "hunter22",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	user, err := f.users.FindByUsername(ctx, "tobyKing1")
	require.NoError(t, err)
	assert.Equal(t, "Toby King Kovacs", user.ProfileName)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("hunter22")))
}

func TestRegisterDuplicateUsername(t *testing.T) {
	f := newFixture(t)
	auth := NewAuthService(f.users, f.tokens)
	ctx := context.Background()

	req := &dto.RegisterRequest{
		Username: "dupe", ProfileName: "One", Email: "one@test.com", Password: "pw123456",
	}
	_, err := auth.Register(ctx, req)
	require.NoError(t, err)

	req.Email = "two@test.com"
	_, err = auth.Register(ctx, req)
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestRegisterMissingFields(t *testing.T) {
	f := newFixture(t)
	auth := NewAuthService(f.users, f.tokens)

	_, err := auth.Register(context.Background(), &dto.RegisterRequest{Username: "only"})
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestRegisterDirectoryFailureIsNotMisreadAsFree(t *testing.T) {
	f := newFixture(t)
	auth := NewAuthService(f.users, f.tokens)

	// A failing user directory must propagate, not be treated as
	// "username free".
	sqlDB, err := f.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = auth.Register(context.Background(), &dto.RegisterRequest{
		Username: "ghost", ProfileName: "G", Email: "g@test.com", Password: "pw123456",
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUsernameTaken)
	assert.NotErrorIs(t, err, ErrMissingFields)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	auth := NewAuthService(f.users, f.tokens)
	ctx := context.Background()

	_, err := auth.Register(ctx, &dto.RegisterRequest{
		Username: "sofia88", ProfileName: "Sofia", Email: "sofia@test.com", Password: "pw123456",
	})
	require.NoError(t, err)

	pair, err := auth.Login(ctx, &dto.LoginRequest{Username: "sofia88", Password: "pw123456"})
	require.NoError(t, err)
	assert.NotEmpty(t, pair.RefreshToken)

	_, err = auth.Login(ctx, &dto.LoginRequest{Username: "sofia88", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Login(ctx, &dto.LoginRequest{Username: "nobody", Password: "pw123456"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
