package artifact

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s, err := NewRedisStore(RedisOptions{Addr: mr.Addr(), TTL: time.Hour})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, mr
}

func TestRedisStore_PutGetRoundtrip(t *testing.T) {
	s, _ := newRedisTestStore(t)
	ctx := context.Background()

	content := []byte("converted bytes")
	id, err := s.Put(ctx, content, "application/pdf", "doc.pdf")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	art, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, content, art.Content)
	assert.Equal(t, "application/pdf", art.MediaType)
	assert.Equal(t, "doc.pdf", art.Filename)
}

func TestRedisStore_EveryKeyCarriesTTL(t *testing.T) {
	s, mr := newRedisTestStore(t)
	ctx := context.Background()

	id, err := s.Put(ctx, []byte("x"), "image/png", "x.png")
	require.NoError(t, err)

	// A key without an expiry would never be reclaimed.
	ttl := mr.TTL(redisKeyPrefix + id)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Hour)
}

func TestRedisStore_ExpiredKeyIsGone(t *testing.T) {
	s, mr := newRedisTestStore(t)
	ctx := context.Background()

	id, err := s.Put(ctx, []byte("x"), "image/png", "x.png")
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)

	_, err = s.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_UnknownID(t *testing.T) {
	s, _ := newRedisTestStore(t)

	_, err := s.Get(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_HalfFinishedInsertIsNotFound(t *testing.T) {
	s, mr := newRedisTestStore(t)
	ctx := context.Background()

	// Simulate a crash after the claim write: only the id field exists.
	mr.HSet(redisKeyPrefix+"orphan", "id", "orphan")

	_, err := s.Get(ctx, "orphan")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_Len(t *testing.T) {
	s, _ := newRedisTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := s.Put(ctx, []byte{byte(i)}, "text/plain", "f.txt")
		require.NoError(t, err)
	}

	n, err := s.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
