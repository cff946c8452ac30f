package autosave

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type draft struct {
	Customer string `json:"customer"`
	Price    string `json:"price"`
}

type recorder struct {
	mu    sync.Mutex
	saved []draft
	fail  atomic.Bool
	block chan struct{}
}

func (r *recorder) save(ctx context.Context, d draft) error {
	if r.block != nil {
		select {
		case <-r.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if r.fail.Load() {
		return errors.New("network down")
	}
	r.mu.Lock()
	r.saved = append(r.saved, d)
	r.mu.Unlock()
	return nil
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.saved)
}

func (r *recorder) last() draft {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saved[len(r.saved)-1]
}

func fastOpts() Options {
	return Options{
		Interval:   20 * time.Millisecond,
		SavedHold:  30 * time.Millisecond,
		ErrorHold:  30 * time.Millisecond,
		MaxBackoff: 100 * time.Millisecond,
	}
}

func TestDebounce_SavesLatestOnce(t *testing.T) {
	rec := &recorder{}
	a := New(rec.save, fastOpts())
	defer a.Close()

	a.Changed(draft{Customer: "A"})
	a.Changed(draft{Customer: "AB"})
	a.Changed(draft{Customer: "ABC"})

	require.Eventually(t, func() bool { return rec.count() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, rec.count())
	assert.Equal(t, "ABC", rec.last().Customer)
}

func TestUnchangedStateIsSkipped(t *testing.T) {
	rec := &recorder{}
	a := New(rec.save, fastOpts())
	defer a.Close()

	require.NoError(t, a.SaveNow(draft{Customer: "A"}))
	require.NoError(t, a.SaveNow(draft{Customer: "A"}))
	assert.Equal(t, 1, rec.count())

	require.NoError(t, a.SaveNow(draft{Customer: "A", Price: "1"}))
	assert.Equal(t, 2, rec.count())
	assert.False(t, a.LastSaved().IsZero())
}

func TestOverlappingSaveIgnored(t *testing.T) {
	rec := &recorder{block: make(chan struct{})}
	a := New(rec.save, fastOpts())
	defer a.Close()

	done := make(chan error, 1)
	go func() { done <- a.SaveNow(draft{Customer: "first"}) }()
	require.Eventually(t, func() bool { return a.Status() == StatusSaving }, time.Second, time.Millisecond)

	// save kedua saat yang pertama masih berjalan → diabaikan
	require.NoError(t, a.SaveNow(draft{Customer: "second"}))

	close(rec.block)
	require.NoError(t, <-done)
	assert.Equal(t, 1, rec.count())
	assert.Equal(t, "first", rec.last().Customer)
}

func TestStatusTransitions(t *testing.T) {
	var mu sync.Mutex
	var seen []Status
	opts := fastOpts()
	opts.OnStatus = func(s Status) {
		mu.Lock()
		seen = append(seen, s)
		mu.Unlock()
	}
	rec := &recorder{}
	a := New(rec.save, opts)
	defer a.Close()

	assert.Equal(t, StatusIdle, a.Status())
	require.NoError(t, a.SaveNow(draft{Customer: "A"}))
	assert.Equal(t, StatusSaved, a.Status())
	require.Eventually(t, func() bool { return a.Status() == StatusIdle }, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []Status{StatusSaving, StatusSaved, StatusIdle}, seen)
}

func TestFailureBackoffAndReset(t *testing.T) {
	rec := &recorder{}
	rec.fail.Store(true)
	opts := fastOpts()
	a := New(rec.save, opts)
	defer a.Close()

	assert.Equal(t, opts.Interval, a.NextDelay())

	assert.Error(t, a.SaveNow(draft{Customer: "A"}))
	assert.Equal(t, StatusError, a.Status())
	assert.Equal(t, 40*time.Millisecond, a.NextDelay())

	assert.Error(t, a.SaveNow(draft{Customer: "A"}))
	assert.Equal(t, 80*time.Millisecond, a.NextDelay())

	assert.Error(t, a.SaveNow(draft{Customer: "A"}))
	assert.Equal(t, opts.MaxBackoff, a.NextDelay())
	assert.Equal(t, 3, a.Failures())

	// state yang gagal tetap dikirim ulang (belum pernah sukses)
	rec.fail.Store(false)
	require.NoError(t, a.SaveNow(draft{Customer: "A"}))
	assert.Equal(t, 1, rec.count())
	assert.Equal(t, 0, a.Failures())
	assert.Equal(t, opts.Interval, a.NextDelay())

	require.Eventually(t, func() bool { return a.Status() == StatusIdle }, time.Second, 5*time.Millisecond)
}

func TestClose_StopsPendingSave(t *testing.T) {
	rec := &recorder{}
	a := New(rec.save, fastOpts())

	a.Changed(draft{Customer: "A"})
	a.Close()
	time.Sleep(60 * time.Millisecond)

	assert.Equal(t, 0, rec.count())
	require.NoError(t, a.SaveNow(draft{Customer: "B"}))
	assert.Equal(t, 0, rec.count())
}
