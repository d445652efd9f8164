package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/novahq/nova-dashboard/internal/domain/auth"
	"github.com/novahq/nova-dashboard/internal/testutil"
)

// setupTestRedis creates a Redis client for testing.
// Tests will be skipped if Redis is not available.
func setupTestRedis(t *testing.T) redis.UniversalClient {
	t.Helper()
	return testutil.SetupTestRedis(t)
}

func testSession(id string) domainauth.Session {
	return domainauth.Session{
		ID:          id,
		Email:       "User@Example.com",
		DisplayName: "Test User",
		AvatarURL:   "https://example.com/avatar.png",
		CreatedAt:   time.Now().UTC(),
	}
}

func TestSessionStore_SaveAndRestore(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client, time.Hour)
	ctx := context.Background()

	session := testSession("test-session-1")
	require.NoError(t, store.Save(ctx, session))

	restored, ok, err := store.Restore(ctx, "test-session-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, session.ID, restored.ID)
	assert.Equal(t, "User@Example.com", restored.Email, "email casing survives the round trip")
	assert.Equal(t, session.DisplayName, restored.DisplayName)
	assert.Equal(t, session.AvatarURL, restored.AvatarURL)
	assert.WithinDuration(t, session.CreatedAt, restored.CreatedAt, time.Second)
}

func TestSessionStore_SaveRejectsEmptyID(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client, time.Hour)

	err := store.Save(context.Background(), domainauth.Session{Email: "user@example.com"})
	require.Error(t, err)
}

func TestSessionStore_RestoreAbsent(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client, time.Hour)
	ctx := context.Background()

	_, ok, err := store.Restore(ctx, "non-existent")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = store.Restore(ctx, "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionStore_RestoreCorruptedSlot(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client, time.Hour)
	ctx := context.Background()

	// Plant garbage where a session should be.
	require.NoError(t, client.Set(ctx, "session:corrupted", "{not-json", time.Hour).Err())

	_, ok, err := store.Restore(ctx, "corrupted")
	require.NoError(t, err, "corruption is absorbed, not surfaced")
	assert.False(t, ok)

	// The slot is gone: no future restore sees the garbage.
	exists, err := client.Exists(ctx, "session:corrupted").Result()
	require.NoError(t, err)
	assert.Zero(t, exists)
}

func TestSessionStore_Delete(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSession("to-delete")))
	require.NoError(t, store.Delete(ctx, "to-delete"))

	_, ok, err := store.Restore(ctx, "to-delete")
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting again, and deleting nothing, are both no-ops.
	require.NoError(t, store.Delete(ctx, "to-delete"))
	require.NoError(t, store.Delete(ctx, ""))
}

func TestSessionStore_TTLApplied(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSession("with-ttl")))

	ttl, err := client.TTL(ctx, "session:with-ttl").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Hour)
}
