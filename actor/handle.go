package actor

import (
	"sync"
	"sync/atomic"
)

// lifecycleState is an actor's four lifecycle states: Entering
// while OnEnter runs, Running once it has succeeded and the actor is
// reachable, Exiting while release is draining it, Terminated once OnExit
// has returned.
type lifecycleState int32

const (
	stateEntering lifecycleState = iota
	stateRunning
	stateExiting
	stateTerminated
)

// handle is the registry's reference-counted entry for one registered
// actor: its mailbox, its identity, and everything the scheduler needs to
// dispatch to it and eventually tear it down exactly once.
//
// refs keeps a handle returned by a lookup alive independently of
// concurrent releases: the registry holds one reference for as long as the
// name is mapped, and every in-flight Send and every pool worker's batch
// holds a temporary one of its own. A dedicated goroutine holds none;
// finalize waits for it through stopped instead. The handle only finalizes —
// closes its mailbox, drains it, and calls OnExit — once the count reaches
// zero.
//
// dispatchMu is the actual serial-per-actor lock: whichever goroutine is
// currently allowed to call OnMessage for this actor (the dedicated thread,
// or the pool worker that dequeued its mailbox) holds it for the duration
// of that delivery. Release's drain-then-exit step also takes it, which is
// what lets release wait out an in-flight pool batch before running OnExit.
type handle[Kind comparable, Payload any] struct {
	id      ID
	actor   Actor[Kind, Payload]
	mailbox *mailbox[Kind, Payload]
	owned   bool
	rt      *Runtime[Kind, Payload]

	state atomic.Int32
	refs  atomic.Int32

	dispatchMu sync.Mutex
	exitOnce   sync.Once

	// stopped is closed by the dedicated-mode goroutine when its receive
	// loop returns (mailbox closed and drained of everything it could see
	// while running). nil in pool mode, where there is no per-actor thread
	// to join.
	stopped chan struct{}
}

func newHandle[Kind comparable, Payload any](rt *Runtime[Kind, Payload], id ID, a Actor[Kind, Payload], owned bool, overhead, capacity int) *handle[Kind, Payload] {
	h := &handle[Kind, Payload]{
		id:      id,
		actor:   a,
		owned:   owned,
		rt:      rt,
		mailbox: newMailbox[Kind, Payload](id, overhead, capacity),
	}
	h.state.Store(int32(stateEntering))
	h.refs.Store(1) // the registry's own reference
	return h
}

// acquire increments the reference count, failing if the handle has already
// dropped to zero (a lookup racing a finalize that already won).
func (h *handle[Kind, Payload]) acquire() bool {
	for {
		n := h.refs.Load()
		if n <= 0 {
			return false
		}
		if h.refs.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

// release drops a reference, finalizing the actor when it reaches zero.
func (h *handle[Kind, Payload]) release() {
	if h.refs.Add(-1) == 0 {
		h.finalize()
	}
}

func (h *handle[Kind, Payload]) isRunning() bool {
	return lifecycleState(h.state.Load()) == stateRunning
}

// sendSelf is the self-send fast path: it
// skips the registry read lock entirely and pushes straight into this
// actor's own mailbox.
func (h *handle[Kind, Payload]) sendSelf(source ID, kind Kind, payload Payload) Result {
	outcome := h.mailbox.push(Envelope[Kind, Payload]{source: source, kind: kind, payload: payload})
	h.rt.afterEnqueue(h, outcome)
	return outcomeToResult(outcome)
}

// deliver calls the actor's handler for one envelope. The caller must hold
// dispatchMu; deliver does not acquire it, since both the dedicated loop and
// the pool worker hold it for a whole pop-or-batch, not per message. A panic
// inside OnMessage is recovered and logged here, so one bad envelope never
// takes down the worker delivering it or the rest of its batch.
func (h *handle[Kind, Payload]) deliver(env Envelope[Kind, Payload]) {
	defer func() {
		if r := recover(); r != nil {
			h.rt.logger.Errorf("actor %q panicked handling message %v: %v", h.id, env.kind, r)
		}
	}()
	ctx := &Context[Kind, Payload]{envelope: env, self: h}
	h.actor.OnMessage(ctx)
}

// abort tears down a handle that failed to reach the registry — either its
// OnEnter returned an error, or it lost a race against a concurrent
// Register under the same name. Neither OnMessage nor OnExit can have run,
// since nothing outside Register itself ever held a reference to h.
func (h *handle[Kind, Payload]) abort() {
	h.mailbox.close()
	if h.stopped != nil {
		<-h.stopped
	}
}

// finalize runs the drain-then-exit protocol exactly once: close the
// mailbox, wait for any dedicated thread to stop on its own, take
// dispatchMu to be certain no pool worker is mid-batch, drain whatever is
// left, and call OnExit. Safe to call multiple times; only the first call
// (the one that saw refs hit zero) does anything.
func (h *handle[Kind, Payload]) finalize() {
	h.exitOnce.Do(func() {
		h.state.Store(int32(stateExiting))
		h.mailbox.close()

		if h.stopped != nil {
			<-h.stopped
		}

		h.dispatchMu.Lock()
		for {
			env, ok := h.mailbox.tryPop()
			if !ok {
				break
			}
			h.deliver(env)
		}
		h.dispatchMu.Unlock()

		h.actor.OnExit()
		h.state.Store(int32(stateTerminated))
	})
}
