package actor

import (
	"github.com/nsroot/actorhub/internal/readyqueue"
	"github.com/nsroot/actorhub/internal/workergroup"
	"github.com/nsroot/actorhub/log"
)

// poolScheduler is the shared-worker-pool strategy: a fixed number of
// worker goroutines drain handles from a single ready-queue, each visit
// delivering up to batchBound envelopes before re-queuing (if more remain)
// or clearing the mailbox's scheduling bit (if not). No actor owns a
// goroutine of its own; dispatch is a race for whichever worker pops the
// mailbox next, serialised per actor by handle.dispatchMu exactly as in
// dedicated mode.
type poolScheduler[Kind comparable, Payload any] struct {
	queue      *readyqueue.Queue[*handle[Kind, Payload]]
	group      *workergroup.Group
	batchBound int
	logger     log.Logger
}

// newPoolScheduler starts workers goroutines and blocks until all of them
// are up, returning an error only if one panics during startup (workers
// themselves never fail to "enter" — they have nothing to initialise).
func newPoolScheduler[Kind comparable, Payload any](rt *Runtime[Kind, Payload], workers, batchBound int, logger log.Logger) (*poolScheduler[Kind, Payload], error) {
	s := &poolScheduler[Kind, Payload]{
		queue:      readyqueue.New[*handle[Kind, Payload]](),
		group:      workergroup.New(),
		batchBound: batchBound,
		logger:     logger,
	}

	for i := 0; i < workers; i++ {
		s.group.Attach(func(done workergroup.Done) {
			done(nil)
			s.runWorker()
		})
	}

	if ok := s.group.WaitInit(); !ok {
		return nil, ErrInvalidWorkerCount
	}
	return s, nil
}

// start runs the actor's OnEnter hook inline, on the registering caller's
// own goroutine. Unlike dedicated mode there is no per-actor thread to
// hand the actor off to — once OnEnter succeeds the handle is simply
// eligible to be scheduled the first time something is sent to it.
func (s *poolScheduler[Kind, Payload]) start(h *handle[Kind, Payload]) error {
	return h.actor.OnEnter()
}

// runWorker is one pool worker's whole lifetime: pop a ready mailbox,
// dispatch a bounded batch from it, repeat until the ready-queue closes.
func (s *poolScheduler[Kind, Payload]) runWorker() {
	for {
		h, ok := s.queue.Pop()
		if !ok {
			return
		}
		s.dispatchBatch(h)
	}
}

// dispatchBatch pins h, delivers up to batchBound envelopes from its mailbox
// under its dispatch lock, then decides whether h needs to go back on the
// ready-queue. If h can no longer be pinned, its last reference is already
// gone and finalize drains what is left, so the worker only clears the
// scheduling bit. After a batch that emptied the mailbox the bit is cleared
// and emptiness checked again: a push that landed in between is picked up by
// reclaiming the bit, so it is never stranded off the queue. A re-push that
// fails (ready-queue closed during shutdown) clears the bit instead.
func (s *poolScheduler[Kind, Payload]) dispatchBatch(h *handle[Kind, Payload]) {
	if !h.acquire() {
		h.mailbox.releaseScheduleFlag()
		return
	}
	defer h.release()

	h.dispatchMu.Lock()
	for i := 0; i < s.batchBound; i++ {
		env, ok := h.mailbox.tryPop()
		if !ok {
			break
		}
		h.deliver(env)
	}
	h.dispatchMu.Unlock()

	if !h.mailbox.empty() {
		if !s.queue.Push(h) {
			h.mailbox.releaseScheduleFlag()
		}
		return
	}
	h.mailbox.releaseScheduleFlag()
	if !h.mailbox.empty() {
		// A push landed between the empty check above and clearing the
		// flag; reclaim scheduling responsibility rather than strand it.
		if h.mailbox.acquireScheduleFlag() && !s.queue.Push(h) {
			h.mailbox.releaseScheduleFlag()
		}
	}
}

// afterEnqueue schedules h onto the ready-queue if this push is the one
// that transitions its scheduling bit from clear to set. A push that loses
// that race is piggybacking on a batch some other worker already committed
// to running.
func (s *poolScheduler[Kind, Payload]) afterEnqueue(h *handle[Kind, Payload]) {
	if h.mailbox.acquireScheduleFlag() {
		s.queue.Push(h)
	}
}

// shutdown closes the ready-queue, which wakes every idle worker's Pop and
// lets runWorker return, then waits for all of them to exit.
func (s *poolScheduler[Kind, Payload]) shutdown() {
	s.queue.Close()
	s.group.Join()
}
