// Package envsource provides the two-tier environment lookup used by the
// settings synchronization: a structured map consulted first, then the
// process environment.
package envsource

import (
	"os"
)

// Source looks up environment-style variables.
type Source interface {
	// Lookup reports the raw value and whether the key exists at all.
	Lookup(key string) (string, bool)
	// LookupNonEmpty returns the first non-empty value for key.
	LookupNonEmpty(key string) (string, bool)
}

// LookupFunc adapts os.LookupEnv style functions.
type LookupFunc func(key string) (string, bool)

// Layered queries Primary then Secondary.
type Layered struct {
	Primary   map[string]string
	Secondary LookupFunc
}

// New returns a Layered source over values and the process environment.
func New(values map[string]string) *Layered {
	return &Layered{Primary: values, Secondary: os.LookupEnv}
}

// FromMap returns a source that never consults the process environment.
func FromMap(values map[string]string) *Layered {
	return &Layered{Primary: values}
}

// Lookup returns the primary value when the key exists there, otherwise
// the secondary one.
func (l *Layered) Lookup(key string) (string, bool) {
	if v, ok := l.Primary[key]; ok {
		return v, true
	}
	if l.Secondary != nil {
		return l.Secondary(key)
	}
	return "", false
}

func (l *Layered) LookupNonEmpty(key string) (string, bool) {
	if v := l.Primary[key]; v != "" {
		return v, true
	}
	if l.Secondary != nil {
		if v, ok := l.Secondary(key); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// Get is LookupNonEmpty without the presence flag.
func Get(src Source, key string) string {
	v, _ := src.LookupNonEmpty(key)
	return v
}
