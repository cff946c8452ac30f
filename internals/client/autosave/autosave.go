package autosave

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

type Status string

const (
	StatusIdle   Status = "idle"
	StatusSaving Status = "saving"
	StatusSaved  Status = "saved"
	StatusError  Status = "error"
)

const (
	DefaultInterval   = 30 * time.Second
	DefaultSavedHold  = 2 * time.Second
	DefaultErrorHold  = 3 * time.Second
	DefaultMaxBackoff = 5 * time.Minute
)

type SaveFunc[T any] func(ctx context.Context, v T) error

type Options struct {
	Interval   time.Duration
	SavedHold  time.Duration
	ErrorHold  time.Duration
	MaxBackoff time.Duration
	// dipanggil di luar lock; boleh memanggil method Autosaver
	OnStatus func(Status)
	Logger   *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.Interval <= 0 {
		o.Interval = DefaultInterval
	}
	if o.SavedHold <= 0 {
		o.SavedHold = DefaultSavedHold
	}
	if o.ErrorHold <= 0 {
		o.ErrorHold = DefaultErrorHold
	}
	if o.MaxBackoff <= 0 {
		o.MaxBackoff = DefaultMaxBackoff
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// Autosaver: satu timer debounce per form. Save yang tumpang tindih diabaikan,
// state yang sama dengan save sukses terakhir tidak dikirim ulang.
type Autosaver[T any] struct {
	mu   sync.Mutex
	save SaveFunc[T]
	opts Options

	ctx    context.Context
	cancel context.CancelFunc

	timer     *time.Timer
	holdTimer *time.Timer
	holdSeq   uint64

	saving      bool
	closed      bool
	lastData    []byte
	lastSavedAt time.Time
	status      Status

	bo       *backoff.ExponentialBackOff
	delay    time.Duration
	failures int
}

func New[T any](save SaveFunc[T], opts Options) *Autosaver[T] {
	opts = opts.withDefaults()

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * opts.Interval
	bo.Multiplier = 2
	bo.RandomizationFactor = 0
	bo.MaxInterval = opts.MaxBackoff
	bo.MaxElapsedTime = 0
	bo.Reset()

	ctx, cancel := context.WithCancel(context.Background())
	return &Autosaver[T]{
		save:   save,
		opts:   opts,
		ctx:    ctx,
		cancel: cancel,
		status: StatusIdle,
		bo:     bo,
		delay:  opts.Interval,
	}
}

// Changed: re-arm debounce dengan state terbaru
func (a *Autosaver[T]) Changed(v T) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.delay, func() { _ = a.run(v) })
}

// SaveNow: simpan segera (timer yang tertunda dibatalkan).
// nil juga bila dilewati (sedang menyimpan / tidak berubah / sudah Close).
func (a *Autosaver[T]) SaveNow(v T) error {
	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.mu.Unlock()
	return a.run(v)
}

func (a *Autosaver[T]) run(v T) error {
	data, mErr := sonic.Marshal(v)
	if mErr != nil {
		a.opts.Logger.Warn("autosave: serialisasi gagal, cek perubahan dilewati", zap.Error(mErr))
		data = nil
	}

	a.mu.Lock()
	if a.closed || a.saving {
		a.mu.Unlock()
		return nil
	}
	if data != nil && a.lastData != nil && bytes.Equal(data, a.lastData) {
		a.mu.Unlock()
		return nil
	}
	a.saving = true
	a.setStatusLocked(StatusSaving)
	ctx := a.ctx
	a.mu.Unlock()
	a.notify(StatusSaving)

	err := a.save(ctx, v)

	a.mu.Lock()
	a.saving = false
	var st Status
	if err == nil {
		a.lastData = data
		a.lastSavedAt = time.Now()
		a.failures = 0
		a.bo.Reset()
		a.delay = a.opts.Interval
		st = StatusSaved
		a.holdLocked(st, a.opts.SavedHold)
	} else {
		a.failures++
		a.delay = a.bo.NextBackOff()
		if a.delay > a.opts.MaxBackoff {
			a.delay = a.opts.MaxBackoff
		}
		st = StatusError
		a.holdLocked(st, a.opts.ErrorHold)
		a.opts.Logger.Error("[Autosave] Error saving draft",
			zap.Error(err), zap.Int("failures", a.failures), zap.Duration("next_delay", a.delay))
	}
	a.mu.Unlock()
	a.notify(st)
	return err
}

func (a *Autosaver[T]) setStatusLocked(s Status) {
	a.status = s
	a.holdSeq++
	if a.holdTimer != nil {
		a.holdTimer.Stop()
		a.holdTimer = nil
	}
}

// holdLocked: status s ditahan selama d lalu kembali ke idle
func (a *Autosaver[T]) holdLocked(s Status, d time.Duration) {
	a.setStatusLocked(s)
	seq := a.holdSeq
	a.holdTimer = time.AfterFunc(d, func() {
		a.mu.Lock()
		if a.closed || a.holdSeq != seq {
			a.mu.Unlock()
			return
		}
		a.status = StatusIdle
		a.mu.Unlock()
		a.notify(StatusIdle)
	})
}

func (a *Autosaver[T]) notify(s Status) {
	if a.opts.OnStatus != nil {
		a.opts.OnStatus(s)
	}
}

func (a *Autosaver[T]) Status() Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

func (a *Autosaver[T]) LastSaved() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastSavedAt
}

// NextDelay: jeda debounce berikutnya (membesar setelah gagal beruntun)
func (a *Autosaver[T]) NextDelay() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.delay
}

func (a *Autosaver[T]) Failures() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.failures
}

// Close: hentikan semua timer; save yang sedang berjalan menerima ctx yang dibatalkan
func (a *Autosaver[T]) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.closed = true
	if a.timer != nil {
		a.timer.Stop()
	}
	if a.holdTimer != nil {
		a.holdTimer.Stop()
	}
	a.cancel()
}
