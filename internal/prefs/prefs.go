// Package prefs is the device's key-value preference store.
//
// Values are nullable timestamps, flags and short strings, persisted until they are
// explicitly cleared. Every successful write wakes the watchers registered for the
// written key; watchers re-read the values they care about.
package prefs

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"
)

// Key names a stored preference.
type Key string

// Quarantine source timestamps.
const (
	KeyFirstMedicalConfirmation Key = "quarantine.first_medical_confirmation"
	KeyFirstSelfDiagnose        Key = "quarantine.first_self_diagnose"
	KeyLastSelfDiagnose         Key = "quarantine.last_self_diagnose"
	KeyFirstSelfDiagnoseBackup  Key = "quarantine.first_self_diagnose_backup"
	KeyLastSelfDiagnoseBackup   Key = "quarantine.last_self_diagnose_backup"
	KeyLastRedContact           Key = "quarantine.last_red_contact"
	KeyLastYellowContact        Key = "quarantine.last_yellow_contact"
	KeyLastSelfMonitoring       Key = "quarantine.last_self_monitoring_instruction"
	KeyShowQuarantineEnd        Key = "quarantine.show_quarantine_end"
)

// Other device state.
const (
	KeyExposureFrameworkWanted Key = "exposure.framework_wanted"
	KeyConfiguration           Key = "configuration.cached"
)

// backend persists raw string values.
type backend interface {
	load(ctx context.Context, key Key) (string, bool, error)
	save(ctx context.Context, key Key, value string) error
	remove(ctx context.Context, key Key) error
}

// Preferences layers typed accessors and change notification over a backend.
type Preferences struct {
	backend backend

	mu       sync.Mutex
	watchers map[*watcher]struct{}
}

type watcher struct {
	keys map[Key]struct{}
	ch   chan struct{}
}

func newPreferences(b backend) *Preferences {
	return &Preferences{backend: b, watchers: make(map[*watcher]struct{})}
}

// Time returns the timestamp stored under key, or nil when unset.
func (p *Preferences) Time(ctx context.Context, key Key) (*time.Time, error) {
	raw, ok, err := p.backend.load(ctx, key)
	if err != nil || !ok {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return &t, nil
}

// SetTime stores t under key; nil clears the key.
func (p *Preferences) SetTime(ctx context.Context, key Key, t *time.Time) error {
	if t == nil {
		return p.Clear(ctx, key)
	}
	return p.SetString(ctx, key, t.UTC().Format(time.RFC3339Nano))
}

// Bool returns the flag stored under key; unset reads as false.
func (p *Preferences) Bool(ctx context.Context, key Key) (bool, error) {
	raw, ok, err := p.backend.load(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return v, nil
}

// SetBool stores a flag.
func (p *Preferences) SetBool(ctx context.Context, key Key, v bool) error {
	return p.SetString(ctx, key, strconv.FormatBool(v))
}

// String returns the raw value under key and whether it was set.
func (p *Preferences) String(ctx context.Context, key Key) (string, bool, error) {
	return p.backend.load(ctx, key)
}

// SetString stores a raw value.
func (p *Preferences) SetString(ctx context.Context, key Key, v string) error {
	if err := p.backend.save(ctx, key, v); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	p.notify(key)
	return nil
}

// Clear removes key. Clearing an unset key still notifies watchers.
func (p *Preferences) Clear(ctx context.Context, key Key) error {
	if err := p.backend.remove(ctx, key); err != nil {
		return fmt.Errorf("clear %s: %w", key, err)
	}
	p.notify(key)
	return nil
}

// Watch returns a coalescing change signal for keys (all keys when none given)
// and a func that stops the watch.
func (p *Preferences) Watch(keys ...Key) (<-chan struct{}, func()) {
	w := &watcher{ch: make(chan struct{}, 1)}
	if len(keys) > 0 {
		w.keys = make(map[Key]struct{}, len(keys))
		for _, k := range keys {
			w.keys[k] = struct{}{}
		}
	}

	p.mu.Lock()
	p.watchers[w] = struct{}{}
	p.mu.Unlock()

	var once sync.Once
	return w.ch, func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.watchers, w)
			p.mu.Unlock()
		})
	}
}

func (p *Preferences) notify(key Key) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for w := range p.watchers {
		if w.keys != nil {
			if _, ok := w.keys[key]; !ok {
				continue
			}
		}
		select {
		case w.ch <- struct{}{}:
		default:
		}
	}
}
