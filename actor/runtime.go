package actor

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/nsroot/actorhub/log"
)

// scheduler is the strategy a Runtime delegates actual dispatch to. The
// package ships two: dedicatedScheduler (one goroutine per actor) and
// poolScheduler (a fixed worker pool draining a shared ready-queue). Both
// satisfy the same three hooks so Runtime itself stays mode-agnostic.
type scheduler[Kind comparable, Payload any] interface {
	// start runs the actor's OnEnter hook (wherever the mode says it should
	// run) and, on success, leaves the actor ready to receive. It returns
	// the OnEnter error, if any.
	start(h *handle[Kind, Payload]) error
	// afterEnqueue is called once per successful or Overhead push, after
	// the envelope is already visible in the mailbox. Dedicated mode has
	// nothing to do here (the blocking thread wakes on its own); pool mode
	// uses it to schedule the mailbox.
	afterEnqueue(h *handle[Kind, Payload])
	// shutdown stops every worker the scheduler owns. It must return only
	// after no scheduler-owned goroutine will ever call into a handle
	// again.
	shutdown()
}

// Runtime hosts a dynamic set of actors addressed by name and routes
// envelopes between them. A single instance commits to exactly one
// dispatch strategy for its whole lifetime — see NewDedicatedRuntime and
// NewPoolRuntime.
type Runtime[Kind comparable, Payload any] struct {
	registry        *registry[Kind, Payload]
	sched           scheduler[Kind, Payload]
	logger          log.Logger
	defaultOverhead int
	defaultCapacity int
	shuttingDown    atomic.Bool
}

// NewDedicatedRuntime creates a Runtime in which every registered actor
// owns its own goroutine, blocked on its mailbox for as long as the actor
// lives. This is the simplest strategy and the one with the least
// scheduling overhead per message, at the cost of one goroutine per actor.
func NewDedicatedRuntime[Kind comparable, Payload any](opts ...Option) *Runtime[Kind, Payload] {
	cfg := defaultRuntimeConfig()
	for _, o := range opts {
		o.apply(&cfg)
	}
	rt := &Runtime[Kind, Payload]{
		registry:        newRegistry[Kind, Payload](),
		logger:          cfg.logger,
		defaultOverhead: cfg.defaultOverhead,
		defaultCapacity: cfg.defaultCapacity,
	}
	rt.sched = newDedicatedScheduler[Kind, Payload](cfg.logger)
	return rt
}

// NewPoolRuntime creates a Runtime backed by a fixed pool of workers
// draining mailboxes from a shared ready-queue, batching up to K envelopes
// per visit. It returns an error if workers or the batch bound are not
// positive, or if any worker fails to start.
func NewPoolRuntime[Kind comparable, Payload any](opts ...Option) (*Runtime[Kind, Payload], error) {
	cfg := defaultRuntimeConfig()
	for _, o := range opts {
		o.apply(&cfg)
	}
	if cfg.workers <= 0 {
		return nil, ErrInvalidWorkerCount
	}
	if cfg.batchBound <= 0 {
		return nil, ErrInvalidBatchBound
	}
	rt := &Runtime[Kind, Payload]{
		registry:        newRegistry[Kind, Payload](),
		logger:          cfg.logger,
		defaultOverhead: cfg.defaultOverhead,
		defaultCapacity: cfg.defaultCapacity,
	}
	sched, err := newPoolScheduler[Kind, Payload](rt, cfg.workers, cfg.batchBound, cfg.logger)
	if err != nil {
		return nil, err
	}
	rt.sched = sched
	return rt, nil
}

// Register adds a new Owned actor to the runtime under name: the runtime
// alone is responsible for it from here on, including running its OnExit
// hook on release or shutdown. It fails with ErrRuntimeShuttingDown if
// Shutdown has already been called, ErrAlreadyRegistered if name is taken,
// and wraps ErrEnterFailed if the actor's OnEnter hook returns an error.
func (rt *Runtime[Kind, Payload]) Register(name ID, a Actor[Kind, Payload], opts ...RegisterOption) error {
	return rt.register(name, a, true, opts...)
}

// RegisterBorrowed is Register for an actor the caller retains ownership
// of: the runtime will still run OnEnter/OnMessage/OnExit on it, but never
// treats releasing it as anything more than forgetting the reference.
func (rt *Runtime[Kind, Payload]) RegisterBorrowed(name ID, a Actor[Kind, Payload], opts ...RegisterOption) error {
	return rt.register(name, a, false, opts...)
}

// RegisterAnonymous is Register under a name the caller does not need to
// pick itself: a UUID, freshly generated per call. It returns the
// generated id so the caller can address the actor afterward.
func (rt *Runtime[Kind, Payload]) RegisterAnonymous(a Actor[Kind, Payload], opts ...RegisterOption) (ID, error) {
	name := uuid.NewString()
	if err := rt.register(name, a, true, opts...); err != nil {
		return "", err
	}
	return name, nil
}

func (rt *Runtime[Kind, Payload]) register(name ID, a Actor[Kind, Payload], owned bool, opts ...RegisterOption) error {
	if rt.shuttingDown.Load() {
		return ErrRuntimeShuttingDown
	}
	if rt.registry.has(name) {
		return ErrAlreadyRegistered
	}

	cfg := registerConfig{overhead: rt.defaultOverhead, capacity: rt.defaultCapacity}
	for _, o := range opts {
		o.apply(&cfg)
	}

	h := newHandle(rt, name, a, owned, cfg.overhead, cfg.capacity)
	if err := rt.sched.start(h); err != nil {
		return fmt.Errorf("%w: %w", ErrEnterFailed, err)
	}
	h.state.Store(int32(stateRunning))

	if !rt.registry.insert(h) {
		h.abort()
		return ErrAlreadyRegistered
	}
	return nil
}

// Release removes name from the registry, if present, closes its mailbox,
// drains every envelope already enqueued, and runs its OnExit hook. It is
// safe to call more than once; the second call is a no-op. Release does
// not block the caller on the drain when other references to the handle
// are still in flight (a concurrent Send, or a pool worker's batch) —
// finalize runs as soon as the last one drops. When Release drops the last
// reference itself, finalize runs on the caller's goroutine; in dedicated
// mode that includes waiting for the actor's goroutine to handle every
// queued envelope.
func (rt *Runtime[Kind, Payload]) Release(name ID) {
	h, ok := rt.registry.remove(name)
	if !ok {
		return
	}
	h.release()
}

// Has reports whether name is currently registered.
func (rt *Runtime[Kind, Payload]) Has(name ID) bool {
	return rt.registry.has(name)
}

// Send enqueues kind/payload for target, attributing it to source. It is
// the entry point for senders outside any actor's own handler — an
// external caller, a CLI, a test. Handlers should use Context.Send instead,
// which also covers the self-send fast path.
func (rt *Runtime[Kind, Payload]) Send(source, target ID, kind Kind, payload Payload) Result {
	if rt.shuttingDown.Load() {
		return NotFound
	}
	h, ok := rt.registry.lookup(target)
	if !ok {
		return NotFound
	}
	defer h.release()

	outcome := h.mailbox.push(Envelope[Kind, Payload]{source: source, kind: kind, payload: payload})
	rt.afterEnqueue(h, outcome)
	return outcomeToResult(outcome)
}

// sendFrom is Context.Send's entry point: it enforces NotRegistered for a
// handler whose own handle is no longer Running, and takes the self-send
// bypass (handle.sendSelf) before falling back to a normal
// registry-mediated Send.
func (rt *Runtime[Kind, Payload]) sendFrom(self *handle[Kind, Payload], target ID, kind Kind, payload Payload) Result {
	if !self.isRunning() {
		return NotRegistered
	}
	if target == self.id {
		return self.sendSelf(self.id, kind, payload)
	}
	return rt.Send(self.id, target, kind, payload)
}

// afterEnqueue forwards a successful or Overhead push to the scheduler so
// it can (in pool mode) schedule the mailbox. Closed and OutOfMemory pushes
// never reach the scheduler, since nothing was actually enqueued.
func (rt *Runtime[Kind, Payload]) afterEnqueue(h *handle[Kind, Payload], outcome pushOutcome) {
	if outcome == pushOk || outcome == pushOverhead {
		rt.sched.afterEnqueue(h)
	}
}

// Shutdown stops every worker the runtime owns and releases every
// remaining actor, draining and exiting each of them. It is safe to call
// more than once; only the first call does anything. After Shutdown
// returns, Send to any name returns NotFound.
func (rt *Runtime[Kind, Payload]) Shutdown() {
	if !rt.shuttingDown.CompareAndSwap(false, true) {
		return
	}
	rt.sched.shutdown()
	for _, h := range rt.registry.drain() {
		h.release()
	}
}
