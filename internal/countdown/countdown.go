// Package countdown drives the promotional timer on the shop page. The end
// of the current window is persisted so reloads do not restart it.
package countdown

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/exp/slog"

	"github.com/novacart/checkout/internal/kv"
	"github.com/novacart/checkout/internal/sl"
)

const (
	Key = "countdown_endTime"

	InitialWindow = 12*time.Hour + 45*time.Minute + 29*time.Second
	ResetWindow   = 24 * time.Hour
)

type Timer struct {
	store  kv.Store
	logger *slog.Logger
	now    func() time.Time
}

func New(store kv.Store, logger *slog.Logger) *Timer {
	return &Timer{store: store, logger: logger, now: time.Now}
}

// Remaining returns the whole seconds left in the current window. The first
// call starts the initial window; once a window runs out a fresh 24 hour one
// begins. Storage problems are logged and never stop the timer.
func (t *Timer) Remaining(ctx context.Context) time.Duration {
	now := t.now()
	end, ok := t.load(ctx)
	if !ok {
		end = now.Add(InitialWindow)
		t.save(ctx, end)
	}

	left := end.Sub(now).Truncate(time.Second)
	if left <= 0 {
		end = now.Add(ResetWindow)
		t.save(ctx, end)
		left = ResetWindow
	}
	return left
}

func (t *Timer) load(ctx context.Context) (time.Time, bool) {
	raw, err := t.store.Get(ctx, Key)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			t.logger.Warn("reading countdown end", sl.Err(err))
		}
		return time.Time{}, false
	}
	ms, err := strconv.ParseInt(strings.TrimSpace(string(raw)), 10, 64)
	if err != nil {
		t.logger.Warn("malformed countdown end", slog.String("value", string(raw)))
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}

func (t *Timer) save(ctx context.Context, end time.Time) {
	v := strconv.FormatInt(end.UnixMilli(), 10)
	if err := t.store.Set(ctx, Key, []byte(v)); err != nil {
		t.logger.Warn("saving countdown end", sl.Err(err))
	}
}

// Clock renders d as HH:MM:SS.
func Clock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	s := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s%3600)/60, s%60)
}
