package kv

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// exerciseStore runs the behaviour every backend has to share.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "cart_storage")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "cart_storage", []byte(`[{"id":"a"}]`)))
	got, err := s.Get(ctx, "cart_storage")
	require.NoError(t, err)
	require.Equal(t, `[{"id":"a"}]`, string(got))

	require.NoError(t, s.Set(ctx, "cart_storage", []byte(`[]`)))
	got, err = s.Get(ctx, "cart_storage")
	require.NoError(t, err)
	require.Equal(t, `[]`, string(got))

	require.NoError(t, s.Remove(ctx, "cart_storage"))
	_, err = s.Get(ctx, "cart_storage")
	require.ErrorIs(t, err, ErrNotFound)

	// removing a missing key is not an error
	require.NoError(t, s.Remove(ctx, "cart_storage"))
	require.NoError(t, Ping(ctx, s))
}

func TestMemory(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestMemory_CopiesValues(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	v := []byte("abc")
	require.NoError(t, m.Set(ctx, "k", v))
	v[0] = 'x'

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "abc", string(got))
}

func newMiniRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedis(t *testing.T) {
	_, client := newMiniRedis(t)
	exerciseStore(t, NewRedis(client, 0, ""))
}

func TestRedis_TTLAndPrefix(t *testing.T) {
	mr, client := newMiniRedis(t)
	s := NewRedis(client, time.Hour, "shopper-1:")
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "checkout_storage", []byte(`{}`)))
	require.True(t, mr.Exists("shopper-1:checkout_storage"))
	require.Equal(t, time.Hour, mr.TTL("shopper-1:checkout_storage"))

	mr.FastForward(2 * time.Hour)
	_, err := s.Get(ctx, "checkout_storage")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDialRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	s, err := DialRedis(context.Background(), RedisOptions{Addr: addr, Timeout: time.Second})
	require.NoError(t, err)
	defer s.Close()
	exerciseStore(t, s)

	mr.Close()
	_, err = DialRedis(context.Background(), RedisOptions{Addr: addr, DialTimeout: 100 * time.Millisecond})
	require.Error(t, err)
}

// TestPostgres needs a throwaway database; it skips unless KV_POSTGRES_DSN is set.
func TestPostgres(t *testing.T) {
	dsn := os.Getenv("KV_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("KV_POSTGRES_DSN not set; skipping DB integration test")
	}
	ctx := context.Background()
	s, err := OpenPostgres(ctx, dsn)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Migrate())
	require.NoError(t, s.Migrate())
	exerciseStore(t, s)
}
