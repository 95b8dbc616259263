// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package operation

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

const (
	// sweepThreshold is the entry count above which old tombstones are dropped
	sweepThreshold = 100
	// tombstoneMaxAge is how long a cancellation waits for its operation
	tombstoneMaxAge = 60 * time.Second
)

var (
	// ErrCancelled is returned when an id was cancelled before it registered
	ErrCancelled = errors.Base("operation was cancelled")
	// ErrAlreadyRunning is returned when an id is registered twice
	ErrAlreadyRunning = errors.Base("operation already running")
)

// entry is either an active registration or a tombstone
type entry struct {
	cancel    context.CancelFunc // nil for tombstones
	tombstone time.Time
}

func (e *entry) active() bool {
	return e.cancel != nil
}

// 📋 Registry tracks running operations by id so they can be cancelled from
// elsewhere. Cancelling an id that has not registered yet leaves a tombstone,
// and the later registration fails with ErrCancelled.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
}

// 🏭 NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// 🎫 TryRegister registers id and returns a context that is cancelled when
// Cancel(id) is called, along with a release func that must be called when
// the operation ends. Release is safe to call more than once.
func (r *Registry) TryRegister(ctx context.Context, id string) (context.Context, func(), error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[id]; ok {
		if !e.active() {
			delete(r.entries, id)
			zerolog.Ctx(ctx).Debug().Str("operation", id).Msg("operation cancelled before start")
			return nil, nil, errors.Errorf("registering %s: %w", id, ErrCancelled)
		}
		return nil, nil, errors.Errorf("registering %s: %w", id, ErrAlreadyRunning)
	}

	if len(r.entries) > sweepThreshold {
		r.sweepLocked()
	}

	opCtx, cancel := context.WithCancel(ctx)
	e := &entry{cancel: cancel}
	r.entries[id] = e

	var once sync.Once
	release := func() {
		once.Do(func() {
			cancel()
			r.mu.Lock()
			defer r.mu.Unlock()
			if r.entries[id] == e {
				delete(r.entries, id)
			}
		})
	}

	return opCtx, release, nil
}

// 🛑 Cancel cancels the operation registered under id. When nothing is
// registered a tombstone is left instead. Cancel is idempotent.
func (r *Registry) Cancel(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[id]; ok {
		if e.active() {
			e.cancel()
		}
		return
	}
	r.entries[id] = &entry{tombstone: r.now()}
}

// sweepLocked drops tombstones older than tombstoneMaxAge
func (r *Registry) sweepLocked() {
	now := r.now()
	for id, e := range r.entries {
		if !e.active() && now.Sub(e.tombstone) >= tombstoneMaxAge {
			delete(r.entries, id)
		}
	}
}

// Len returns the number of active entries and tombstones
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// IsActive reports whether id is currently registered
func (r *Registry) IsActive(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	return ok && e.active()
}

// IsTombstone reports whether id has a pending cancellation
func (r *Registry) IsTombstone(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	return ok && !e.active()
}
