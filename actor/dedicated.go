package actor

import (
	"github.com/nsroot/actorhub/internal/workergroup"
	"github.com/nsroot/actorhub/log"
)

// dedicatedScheduler is the one-goroutine-per-actor strategy: every handle
// gets its own receive loop, blocked on mailbox.pop for as long as the
// actor is registered. There is no shared ready-queue and no scheduling
// bit to manage — afterEnqueue is a no-op because the blocked pop already
// wakes on its own.
type dedicatedScheduler[Kind comparable, Payload any] struct {
	logger log.Logger
}

func newDedicatedScheduler[Kind comparable, Payload any](logger log.Logger) *dedicatedScheduler[Kind, Payload] {
	return &dedicatedScheduler[Kind, Payload]{logger: logger}
}

// start runs the actor's OnEnter hook on its own goroutine and blocks the
// caller until it has either finished or failed, using a workergroup.Group
// created fresh for this one call as the synchronous handshake. The group
// is never shared across registrations: workergroup's failed flag latches
// for the life of a Group, so reusing one across actors would let an
// earlier actor's OnEnter failure make every later WaitInit on this
// scheduler return immediately, before that later actor's own done() ever
// runs. A Group of one is the simplest way to keep each actor's init
// handshake independent. On success the same goroutine falls straight
// through into the actor's receive loop; on failure it closes h.stopped and
// exits without ever calling OnMessage or OnExit.
func (s *dedicatedScheduler[Kind, Payload]) start(h *handle[Kind, Payload]) error {
	h.stopped = make(chan struct{})

	group := workergroup.New()
	var enterErr error
	group.Attach(func(done workergroup.Done) {
		defer close(h.stopped)

		err := h.actor.OnEnter()
		enterErr = err
		done(err)
		if err != nil {
			return
		}

		for {
			env, ok := h.mailbox.pop()
			if !ok {
				return
			}
			h.dispatchMu.Lock()
			h.deliver(env)
			h.dispatchMu.Unlock()
		}
	})

	if ok := group.WaitInit(); !ok {
		return enterErr
	}
	return nil
}

// afterEnqueue is a no-op in dedicated mode: the actor's own blocked pop
// wakes as soon as push signals its condvar.
func (s *dedicatedScheduler[Kind, Payload]) afterEnqueue(h *handle[Kind, Payload]) {}

// shutdown has nothing of its own left to do. Each dedicated goroutine's
// exit is already joined by its own handle — finalize waits on <-h.stopped
// — as part of Runtime.Shutdown's registry drain, which runs after this
// call returns. Waiting here too, before that drain has closed any
// mailbox, would block forever on goroutines still parked in mailbox.pop.
func (s *dedicatedScheduler[Kind, Payload]) shutdown() {}
