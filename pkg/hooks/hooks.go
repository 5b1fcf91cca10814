// Package hooks is the minimal host-framework surface the integration
// registers against: an init phase plus named, prioritised filters and
// actions.
package hooks

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// Well-known hook names.
const (
	FilterMailFrom       = "wp_mail_from"
	FilterMailFromName   = "wp_mail_from_name"
	FilterUploadsBaseURL = "upload_dir_baseurl"

	ActionAdminInit = "admin_init"

	DefaultPriority = 10
)

type InitFunc func(ctx context.Context) error

type FilterFunc func(ctx context.Context, value string) string

type ActionFunc func(ctx context.Context) error

// Host is what the host framework must supply.
type Host interface {
	OnInit(fn InitFunc)
	RegisterFilter(name string, fn FilterFunc, priority int)
}

// ActionHost is a Host that also runs named actions.
type ActionHost interface {
	Host
	AddAction(name string, fn ActionFunc, priority int)
}

type filterEntry struct {
	fn       FilterFunc
	priority int
}

type actionEntry struct {
	fn       ActionFunc
	priority int
}

// Registry is an in-process ActionHost.
type Registry struct {
	mu      sync.RWMutex
	inits   []InitFunc
	filters map[string][]filterEntry
	actions map[string][]actionEntry
}

func NewRegistry() *Registry {
	return &Registry{
		filters: make(map[string][]filterEntry),
		actions: make(map[string][]actionEntry),
	}
}

func (r *Registry) OnInit(fn InitFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inits = append(r.inits, fn)
}

func (r *Registry) RegisterFilter(name string, fn FilterFunc, priority int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries := append(r.filters[name], filterEntry{fn: fn, priority: priority})
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].priority < entries[j].priority })
	r.filters[name] = entries
}

func (r *Registry) AddAction(name string, fn ActionFunc, priority int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries := append(r.actions[name], actionEntry{fn: fn, priority: priority})
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].priority < entries[j].priority })
	r.actions[name] = entries
}

// Init runs every init callback in registration order. All callbacks run;
// their errors are joined.
func (r *Registry) Init(ctx context.Context) error {
	r.mu.RLock()
	inits := append([]InitFunc(nil), r.inits...)
	r.mu.RUnlock()

	var errs []error
	for _, fn := range inits {
		if err := fn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ApplyFilters passes value through the filters registered under name,
// lowest priority first.
func (r *Registry) ApplyFilters(ctx context.Context, name, value string) string {
	r.mu.RLock()
	entries := append([]filterEntry(nil), r.filters[name]...)
	r.mu.RUnlock()

	for _, e := range entries {
		value = e.fn(ctx, value)
	}
	return value
}

// DoAction runs the actions registered under name, joining their errors.
func (r *Registry) DoAction(ctx context.Context, name string) error {
	r.mu.RLock()
	entries := append([]actionEntry(nil), r.actions[name]...)
	r.mu.RUnlock()

	var errs []error
	for _, e := range entries {
		if err := e.fn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Registry) HasFilter(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.filters[name]) > 0
}
