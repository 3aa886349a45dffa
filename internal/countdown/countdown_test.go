package countdown

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/novacart/checkout/internal/kv"
	"github.com/novacart/checkout/internal/sl"
)

func newTimer(store kv.Store, now *time.Time) *Timer {
	t := New(store, sl.Discard())
	t.now = func() time.Time { return *now }
	return t
}

func TestRemaining_StartsInitialWindow(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	now := time.Date(2026, time.October, 19, 8, 0, 0, 0, time.UTC)
	timer := newTimer(store, &now)

	require.Equal(t, InitialWindow, timer.Remaining(ctx))

	raw, err := store.Get(ctx, Key)
	require.NoError(t, err)
	require.Equal(t, strconv.FormatInt(now.Add(InitialWindow).UnixMilli(), 10), string(raw))

	now = now.Add(time.Hour + 1500*time.Millisecond)
	require.Equal(t, InitialWindow-time.Hour-2*time.Second, timer.Remaining(ctx))
}

func TestRemaining_ResetsAfterExpiry(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	now := time.Date(2026, time.October, 19, 8, 0, 0, 0, time.UTC)
	require.NoError(t, store.Set(ctx, Key, []byte(strconv.FormatInt(now.UnixMilli(), 10))))

	timer := newTimer(store, &now)
	require.Equal(t, ResetWindow, timer.Remaining(ctx))

	now = now.Add(time.Minute)
	require.Equal(t, ResetWindow-time.Minute, timer.Remaining(ctx))
}

func TestRemaining_MalformedValue(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	require.NoError(t, store.Set(ctx, Key, []byte("soon")))

	now := time.Date(2026, time.October, 19, 8, 0, 0, 0, time.UTC)
	require.Equal(t, InitialWindow, newTimer(store, &now).Remaining(ctx))
}

type brokenStore struct{}

func (brokenStore) Get(context.Context, string) ([]byte, error) { return nil, errors.New("down") }
func (brokenStore) Set(context.Context, string, []byte) error   { return errors.New("down") }
func (brokenStore) Remove(context.Context, string) error        { return errors.New("down") }

func TestRemaining_StorageDown(t *testing.T) {
	now := time.Date(2026, time.October, 19, 8, 0, 0, 0, time.UTC)
	require.Equal(t, InitialWindow, newTimer(brokenStore{}, &now).Remaining(context.Background()))
}

func TestClock(t *testing.T) {
	require.Equal(t, "12:45:29", Clock(InitialWindow))
	require.Equal(t, "24:00:00", Clock(ResetWindow))
	require.Equal(t, "00:00:09", Clock(9*time.Second+900*time.Millisecond))
	require.Equal(t, "00:00:00", Clock(-time.Second))
}
