package bundle

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// Event describes a finished load attempt. Bundle is nil when Err is set.
type Event struct {
	Bundle *Bundle
	Source string
	Err    error
	At     time.Time
}

// Registry holds the bundle currently served. Readers call Current and keep
// the returned pointer for the whole query; a reload swaps the pointer and
// never touches a bundle that was already published.
type Registry struct {
	current atomic.Pointer[Bundle]

	// loadMu serializes reloads so publishes happen in load order.
	loadMu    sync.Mutex
	observers []func(Event)
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Observe registers fn to run after every load attempt. Register observers
// before the first Reload; fn runs on the reloading goroutine.
func (r *Registry) Observe(fn func(Event)) {
	r.loadMu.Lock()
	defer r.loadMu.Unlock()
	r.observers = append(r.observers, fn)
}

// Current returns the published bundle, or nil before the first successful load.
func (r *Registry) Current() *Bundle {
	return r.current.Load()
}

// Publish makes b the current bundle.
func (r *Registry) Publish(b *Bundle) {
	r.current.Store(b)
}

// Reload loads a fresh bundle from store and publishes it. On failure the
// previously published bundle, if any, stays current.
func (r *Registry) Reload(ctx context.Context, store Store) (*Bundle, error) {
	r.loadMu.Lock()
	defer r.loadMu.Unlock()

	b, err := Load(ctx, store)
	ev := Event{Bundle: b, Source: store.Describe(), Err: err, At: time.Now().UTC()}
	if err != nil {
		log.Printf("bundle load failed: source=%s err=%v", ev.Source, err)
	} else {
		r.Publish(b)
		log.Printf("bundle loaded: version=%s source=%s categories=%d trees=%d/%d",
			b.Version, b.Source, b.Schema.Len(), len(b.Classifier.Trees), len(b.Regressor.Trees))
	}

	for _, fn := range r.observers {
		fn(ev)
	}
	return b, err
}
