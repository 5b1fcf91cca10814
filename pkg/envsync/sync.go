// Package envsync converges the persisted CDN settings record on the values
// declared in the environment.
package envsync

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"quantwp/pkg/envsource"
	"quantwp/pkg/logger"
	"quantwp/pkg/settings"
)

var (
	ErrLoadSettings = errors.New("failed to load settings record")
	ErrSaveSettings = errors.New("failed to save settings record")
)

// Change describes one applied field update. Secret values are masked.
type Change struct {
	Key    string `json:"key"`
	Source string `json:"source"`
	Old    string `json:"old"`
	New    string `json:"new"`
}

// Result summarises a synchronization pass.
type Result struct {
	PassID      string        `json:"pass_id"`
	SettingsKey string        `json:"settings_key"`
	Changes     []Change      `json:"changes"`
	Written     bool          `json:"written"`
	Skipped     bool          `json:"skipped"`
	Duration    time.Duration `json:"duration"`
}

// Notifier receives the result of passes that applied changes. Delivery runs
// after the pass has released the sync lock, detached from the caller's
// cancellation.
type Notifier interface {
	Notify(ctx context.Context, result *Result) error
}

// Options configures a Syncer.
type Options struct {
	Store       settings.Store
	SettingsKey string
	Env         envsource.Source
	Notifier    Notifier
}

// Syncer runs synchronization passes. Passes within one process are serial.
type Syncer struct {
	store    settings.Store
	key      string
	env      envsource.Source
	notifier Notifier

	mu       sync.Mutex
	lastRun  time.Time
	lastPass *Result

	notifying sync.WaitGroup
}

func New(opts Options) *Syncer {
	env := opts.Env
	if env == nil {
		env = envsource.New(nil)
	}
	return &Syncer{
		store:    opts.Store,
		key:      opts.SettingsKey,
		env:      env,
		notifier: opts.Notifier,
	}
}

// Sync runs one pass. A Syncer without a store or settings key is a no-op.
func (s *Syncer) Sync(ctx context.Context) (*Result, error) {
	result, err := s.pass(ctx)
	if err != nil {
		return nil, err
	}
	if result.Written && s.notifier != nil {
		s.notify(ctx, result.clone())
	}
	return result, nil
}

func (s *Syncer) pass(ctx context.Context) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	result := &Result{PassID: uuid.New().String(), SettingsKey: s.key}
	ctx = logger.WithPassID(ctx, result.PassID)
	log := logger.FromContext(ctx)

	if s.store == nil || s.key == "" {
		log.Debug("Settings store not configured, skipping environment sync")
		result.Skipped = true
		return result, nil
	}

	rec, err := settings.Load(ctx, s.store, s.key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadSettings, err)
	}
	for _, key := range rec.Invalid() {
		log.Debug("Quant: Stored value is malformed, using default", zap.String("key", key))
	}

	for _, f := range fields {
		if change, ok := s.apply(log, rec, f); ok {
			result.Changes = append(result.Changes, change)
		}
	}

	if len(result.Changes) > 0 {
		keys := make([]string, len(result.Changes))
		for i, c := range result.Changes {
			keys[i] = c.Key
		}
		if err := settings.SaveKeys(ctx, s.store, s.key, rec, keys...); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSaveSettings, err)
		}
		result.Written = true
		log.Info("Quant: Configuration updated from environment variables",
			zap.String("settings_key", s.key),
			zap.Int("changes", len(result.Changes)))
	} else {
		log.Debug("Quant: Settings already match environment", zap.String("settings_key", s.key))
	}

	result.Duration = time.Since(start)
	s.lastRun = start
	s.lastPass = result
	return result, nil
}

func (s *Syncer) notify(ctx context.Context, result *Result) {
	ctx = context.WithoutCancel(ctx)
	s.notifying.Add(1)
	go func() {
		defer s.notifying.Done()
		if err := s.notifier.Notify(ctx, result); err != nil {
			logger.FromContext(ctx).Warn("Failed to deliver settings audit notification",
				zap.String("pass_id", result.PassID),
				zap.Error(err))
		}
	}()
}

// Wait blocks until notifications of finished passes have been delivered.
func (s *Syncer) Wait() {
	s.notifying.Wait()
}

func (r *Result) clone() *Result {
	c := *r
	c.Changes = append([]Change(nil), r.Changes...)
	return &c
}

// apply stages f's environment value on rec when it differs.
func (s *Syncer) apply(log *zap.Logger, rec *settings.Record, f field) (Change, bool) {
	switch f.kind {
	case kindBool:
		raw, present := s.env.Lookup(f.env)
		if !present {
			return Change{}, false
		}
		v, ok := ParseBool(raw)
		if !ok {
			log.Debug("Quant: Ignoring unparseable boolean", zap.String("variable", f.env))
			return Change{}, false
		}
		ref := f.intRef(rec)
		if *ref == v && !rec.IsInvalid(f.key) {
			return Change{}, false
		}
		change := Change{Key: f.key, Source: f.env, Old: strconv.Itoa(*ref), New: strconv.Itoa(v)}
		*ref = v
		log.Info(fmt.Sprintf("Quant: Set %s to %t from %s environment variable", f.label, v == 1, f.env))
		return change, true

	case kindInt:
		raw, present := s.env.LookupNonEmpty(f.env)
		if !present {
			return Change{}, false
		}
		v, ok := ParseTimeout(raw)
		if !ok {
			log.Debug("Quant: Ignoring non-positive or malformed integer", zap.String("variable", f.env))
			return Change{}, false
		}
		ref := f.intRef(rec)
		if *ref == v && !rec.IsInvalid(f.key) {
			return Change{}, false
		}
		change := Change{Key: f.key, Source: f.env, Old: strconv.Itoa(*ref), New: strconv.Itoa(v)}
		*ref = v
		log.Info(fmt.Sprintf("Quant: Set %s to %d from %s environment variable", f.label, v, f.env))
		return change, true

	default:
		v, present := s.env.LookupNonEmpty(f.env)
		if !present {
			return Change{}, false
		}
		ref := f.strRef(rec)
		if *ref == v && !rec.IsInvalid(f.key) {
			return Change{}, false
		}
		change := Change{Key: f.key, Source: f.env, Old: *ref, New: v}
		if f.secret {
			change.Old, change.New = mask(change.Old), mask(change.New)
		}
		*ref = v
		log.Info(fmt.Sprintf("Quant: Set %s from %s environment variable", f.label, f.env))
		return change, true
	}
}

// LastPass returns the most recent completed pass, if any.
func (s *Syncer) LastPass() (*Result, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastPass, s.lastRun
}

func mask(v string) string {
	if v == "" {
		return ""
	}
	return "********"
}
