package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shadows-market/storefront/pkg/models"
)

func TestTokenRoundtrip(t *testing.T) {
	tokens := NewTokens([]byte("test-secret"), time.Hour)

	token, err := tokens.Issue("alice", models.RoleClient)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	username, role, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", username)
	assert.Equal(t, models.RoleClient, role)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	tokens := NewTokens([]byte("test-secret"), time.Hour)

	_, _, err := tokens.Verify("not-a-token")
	assert.Error(t, err)

	_, _, err = tokens.Verify("")
	assert.Error(t, err)
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	issuer := NewTokens([]byte("secret-a"), time.Hour)
	verifier := NewTokens([]byte("secret-b"), time.Hour)

	token, err := issuer.Issue("alice", models.RoleAdmin)
	require.NoError(t, err)

	_, _, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestVerifyRejectsExpired(t *testing.T) {
	tokens := NewTokens([]byte("test-secret"), -time.Minute)

	token, err := tokens.Issue("alice", models.RoleClient)
	require.NoError(t, err)

	_, _, err = tokens.Verify(token)
	assert.Error(t, err)
}

func TestMemoryUserStore(t *testing.T) {
	store := NewMemoryUserStore()
	user := &models.User{Username: "alice", PasswordHash: "hash", Role: models.RoleClient}

	require.NoError(t, store.Create(context.Background(), user))
	assert.ErrorIs(t, store.Create(context.Background(), user), ErrUserExists)

	found, err := store.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, models.RoleClient, found.Role)

	_, err = store.FindByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSeedAdminIdempotent(t *testing.T) {
	service := NewService(NewMemoryUserStore(), NewTokens([]byte("test-secret"), time.Hour))

	require.NoError(t, service.SeedAdmin(context.Background(), "admin", "changeme"))
	// Seeding again is a no-op, not a failure.
	require.NoError(t, service.SeedAdmin(context.Background(), "admin", "changeme"))
}
