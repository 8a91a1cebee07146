package actor

import (
	"sync"

	csmap "github.com/mhmtszr/concurrent-swiss-map"
	"github.com/zeebo/xxh3"
)

// registry is the name -> handle map described in §4.5. Lookups (Send, Has)
// go straight to the sharded concurrent map with no extra locking, so reads
// dominate and never contend with each other. registerMu only serializes the
// rarer check-then-insert of Register and the check-then-delete of Release,
// which csmap's own per-shard locks don't make atomic across a read and a
// write.
type registry[Kind comparable, Payload any] struct {
	entries    *csmap.CsMap[ID, *handle[Kind, Payload]]
	registerMu sync.Mutex
}

func newRegistry[Kind comparable, Payload any]() *registry[Kind, Payload] {
	m := csmap.Create[ID, *handle[Kind, Payload]](
		csmap.WithShardCount[ID, *handle[Kind, Payload]](32),
		csmap.WithCustomHasher[ID, *handle[Kind, Payload]](func(key ID) uint64 {
			return xxh3.HashString(key)
		}),
	)
	return &registry[Kind, Payload]{entries: m}
}

// lookup returns a pinned handle for name, or ok=false if no actor is
// registered under it. The caller must call h.release() exactly once when
// done with the returned handle.
func (r *registry[Kind, Payload]) lookup(name ID) (h *handle[Kind, Payload], ok bool) {
	h, found := r.entries.Load(name)
	if !found {
		return nil, false
	}
	if !h.acquire() {
		// Lost the race with a finalize that already dropped refs to zero.
		return nil, false
	}
	return h, true
}

func (r *registry[Kind, Payload]) has(name ID) bool {
	_, ok := r.entries.Load(name)
	return ok
}

// insert adds h under its id, failing if the name is already taken.
func (r *registry[Kind, Payload]) insert(h *handle[Kind, Payload]) bool {
	r.registerMu.Lock()
	defer r.registerMu.Unlock()
	if _, exists := r.entries.Load(h.id); exists {
		return false
	}
	r.entries.Store(h.id, h)
	return true
}

// remove drops name from the map, if present, and returns the handle that
// was mapped there. It does not finalize the handle; the caller must drop
// the registry's own reference via h.release() to let finalize run once any
// other in-flight references have also gone away.
func (r *registry[Kind, Payload]) remove(name ID) (*handle[Kind, Payload], bool) {
	r.registerMu.Lock()
	defer r.registerMu.Unlock()
	h, ok := r.entries.Load(name)
	if !ok {
		return nil, false
	}
	r.entries.Delete(name)
	return h, true
}

// drain removes and returns every handle currently registered, atomically
// with respect to further inserts — used by Shutdown.
func (r *registry[Kind, Payload]) drain() []*handle[Kind, Payload] {
	r.registerMu.Lock()
	defer r.registerMu.Unlock()
	var out []*handle[Kind, Payload]
	r.entries.Range(func(_ ID, h *handle[Kind, Payload]) bool {
		out = append(out, h)
		return false // false continues the iteration
	})
	for _, h := range out {
		r.entries.Delete(h.id)
	}
	return out
}
