package actor

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// recordingActor is the shared test double: it records every payload it
// receives, in order, and counts how many times its lifecycle hooks ran.
// When gate is non-nil, OnMessage blocks on a receive from it before doing
// anything else, letting a test pin a handler mid-delivery.
type recordingActor struct {
	mu       sync.Mutex
	received []int
	enterErr error
	entered  int32
	exited   int32
	gate     chan struct{}

	inflight  atomic.Int32
	sawRace   atomic.Bool
}

func (a *recordingActor) OnEnter() error {
	atomic.AddInt32(&a.entered, 1)
	return a.enterErr
}

func (a *recordingActor) OnMessage(ctx *Context[string, int]) {
	if n := a.inflight.Add(1); n > 1 {
		a.sawRace.Store(true)
	}
	if a.gate != nil {
		<-a.gate
	}
	a.mu.Lock()
	a.received = append(a.received, ctx.Payload())
	a.mu.Unlock()
	a.inflight.Add(-1)
}

func (a *recordingActor) OnExit() {
	atomic.AddInt32(&a.exited, 1)
}

func (a *recordingActor) snapshot() []int {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]int, len(a.received))
	copy(out, a.received)
	return out
}

func newPoolRuntimeT(t *testing.T, opts ...Option) *Runtime[string, int] {
	t.Helper()
	rt, err := NewPoolRuntime[string, int](opts...)
	require.NoError(t, err)
	t.Cleanup(rt.Shutdown)
	return rt
}

func newDedicatedRuntimeT(t *testing.T, opts ...Option) *Runtime[string, int] {
	t.Helper()
	rt := NewDedicatedRuntime[string, int](opts...)
	t.Cleanup(rt.Shutdown)
	return rt
}

func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	require.True(t, cond(), "condition never became true")
}

func TestRuntimes_SendAndReceiveInOrder(t *testing.T) {
	for _, mode := range []string{"dedicated", "pool"} {
		t.Run(mode, func(t *testing.T) {
			var rt *Runtime[string, int]
			if mode == "dedicated" {
				rt = newDedicatedRuntimeT(t)
			} else {
				rt = newPoolRuntimeT(t)
			}

			act := &recordingActor{}
			require.NoError(t, rt.Register("alice", act))

			for i := 0; i < 10; i++ {
				res := rt.Send("test", "alice", "ping", i)
				require.Equal(t, Ok, res)
			}

			eventually(t, func() bool { return len(act.snapshot()) == 10 })
			require.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, act.snapshot())
			require.False(t, act.sawRace.Load(), "OnMessage ran concurrently with itself")
		})
	}
}

func TestRuntimes_SerialDeliveryUnderConcurrentSenders(t *testing.T) {
	for _, mode := range []string{"dedicated", "pool"} {
		t.Run(mode, func(t *testing.T) {
			var rt *Runtime[string, int]
			if mode == "dedicated" {
				rt = newDedicatedRuntimeT(t)
			} else {
				rt = newPoolRuntimeT(t, WithWorkers(8))
			}

			act := &recordingActor{}
			require.NoError(t, rt.Register("bob", act))

			const perSender = 50
			const senders = 20
			var wg sync.WaitGroup
			for s := 0; s < senders; s++ {
				wg.Add(1)
				go func(s int) {
					defer wg.Done()
					for i := 0; i < perSender; i++ {
						rt.Send("sender", "bob", "ping", s*perSender+i)
					}
				}(s)
			}
			wg.Wait()

			eventually(t, func() bool { return len(act.snapshot()) == senders*perSender })
			require.False(t, act.sawRace.Load(), "OnMessage ran concurrently with itself")
		})
	}
}

func TestRegister_DuplicateName(t *testing.T) {
	rt := newDedicatedRuntimeT(t)
	require.NoError(t, rt.Register("dup", &recordingActor{}))
	err := rt.Register("dup", &recordingActor{})
	require.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestRegister_OnEnterFailurePreventsRegistration(t *testing.T) {
	for _, mode := range []string{"dedicated", "pool"} {
		t.Run(mode, func(t *testing.T) {
			var rt *Runtime[string, int]
			if mode == "dedicated" {
				rt = newDedicatedRuntimeT(t)
			} else {
				rt = newPoolRuntimeT(t)
			}

			boom := errors.New("boom")
			act := &recordingActor{enterErr: boom}
			err := rt.Register("failed", act)
			require.Error(t, err)
			require.ErrorIs(t, err, ErrEnterFailed)
			require.False(t, rt.Has("failed"))
			require.Equal(t, Result(NotFound), rt.Send("test", "failed", "ping", 1))
			require.Equal(t, int32(0), act.exited, "OnExit must never run for an actor whose OnEnter failed")
		})
	}
}

func TestSend_NotFound(t *testing.T) {
	rt := newDedicatedRuntimeT(t)
	require.Equal(t, NotFound, rt.Send("test", "ghost", "ping", 1))
}

func TestRelease_DrainsPendingMessagesBeforeExit(t *testing.T) {
	for _, mode := range []string{"dedicated", "pool"} {
		t.Run(mode, func(t *testing.T) {
			var rt *Runtime[string, int]
			if mode == "dedicated" {
				rt = newDedicatedRuntimeT(t)
			} else {
				rt = newPoolRuntimeT(t)
			}

			gate := make(chan struct{})
			act := &recordingActor{gate: gate}
			require.NoError(t, rt.Register("draining", act))

			for i := 0; i < 5; i++ {
				require.Equal(t, Ok, rt.Send("test", "draining", "ping", i))
			}

			// In dedicated mode Release waits for the actor's goroutine,
			// which is parked on the gate, so it runs on its own goroutine.
			released := make(chan struct{})
			go func() {
				rt.Release("draining")
				close(released)
			}()
			eventually(t, func() bool { return !rt.Has("draining") })

			// Nothing has been delivered yet: the gate is still shut.
			require.Equal(t, int32(0), atomic.LoadInt32(&act.exited))

			for i := 0; i < 5; i++ {
				gate <- struct{}{}
			}

			<-released
			require.False(t, rt.Has("draining"))
			eventually(t, func() bool { return atomic.LoadInt32(&act.exited) == 1 })
			require.Equal(t, []int{0, 1, 2, 3, 4}, act.snapshot())
		})
	}
}

func TestRelease_Idempotent(t *testing.T) {
	rt := newDedicatedRuntimeT(t)
	act := &recordingActor{}
	require.NoError(t, rt.Register("once", act))
	rt.Release("once")
	rt.Release("once")
	eventually(t, func() bool { return atomic.LoadInt32(&act.exited) == 1 })
}

type selfSendingActor struct {
	recordingActor
	sent bool
}

func (a *selfSendingActor) OnMessage(ctx *Context[string, int]) {
	a.recordingActor.OnMessage(ctx)
	if !a.sent && ctx.Payload() == 1 {
		a.sent = true
		ctx.Send(ctx.Self(), "continuation", 2)
	}
}

func TestContextSend_SelfBypassesRegistry(t *testing.T) {
	rt := newDedicatedRuntimeT(t)
	act := &selfSendingActor{}
	require.NoError(t, rt.Register("looper", act))

	require.Equal(t, Ok, rt.Send("test", "looper", "ping", 1))
	eventually(t, func() bool { return len(act.snapshot()) == 2 })
	require.Equal(t, []int{1, 2}, act.snapshot())
}

func TestMailbox_OverheadSignal(t *testing.T) {
	rt := newDedicatedRuntimeT(t)
	gate := make(chan struct{})
	act := &recordingActor{gate: gate}
	require.NoError(t, rt.Register("backpressure", act, WithOverhead(1)))

	// The first envelope is popped immediately and blocks the receive loop
	// on the gate, so the second and third both accumulate in the mailbox;
	// the third pushes depth past the threshold of 1.
	require.Equal(t, Ok, rt.Send("test", "backpressure", "ping", 1))
	time.Sleep(10 * time.Millisecond)
	require.Equal(t, Ok, rt.Send("test", "backpressure", "ping", 2))
	require.Equal(t, Overhead, rt.Send("test", "backpressure", "ping", 3))

	close(gate)
}

func TestMailbox_OutOfMemory(t *testing.T) {
	rt := newDedicatedRuntimeT(t)
	gate := make(chan struct{})
	act := &recordingActor{gate: gate}
	require.NoError(t, rt.Register("capped", act, WithCapacity(1)))

	// The first envelope is popped immediately and blocks the receive loop
	// on the gate, leaving the mailbox empty again; the second fills the
	// capacity of 1, and only the third overflows it.
	require.Equal(t, Ok, rt.Send("test", "capped", "ping", 1))
	time.Sleep(10 * time.Millisecond)
	require.Equal(t, Ok, rt.Send("test", "capped", "ping", 2))
	require.Equal(t, OutOfMemory, rt.Send("test", "capped", "ping", 99))

	close(gate)
}

func TestNewPoolRuntime_RejectsInvalidConfig(t *testing.T) {
	_, err := NewPoolRuntime[string, int](WithWorkers(0))
	require.ErrorIs(t, err, ErrInvalidWorkerCount)

	_, err = NewPoolRuntime[string, int](WithBatchBound(0))
	require.ErrorIs(t, err, ErrInvalidBatchBound)
}

func TestShutdown_ReleasesEveryActorAndStopsWorkers(t *testing.T) {
	for _, mode := range []string{"dedicated", "pool"} {
		t.Run(mode, func(t *testing.T) {
			var rt *Runtime[string, int]
			if mode == "dedicated" {
				rt = NewDedicatedRuntime[string, int]()
			} else {
				var err error
				rt, err = NewPoolRuntime[string, int]()
				require.NoError(t, err)
			}

			actors := make([]*recordingActor, 5)
			for i := range actors {
				actors[i] = &recordingActor{}
				require.NoError(t, rt.Register(string(rune('a'+i)), actors[i]))
			}

			rt.Shutdown()

			for _, act := range actors {
				require.Equal(t, int32(1), atomic.LoadInt32(&act.exited))
			}
			require.Equal(t, NotFound, rt.Send("test", "a", "ping", 1))

			rt.Shutdown() // must not panic or block on a second call
		})
	}
}

func TestRegisterAnonymous_GeneratesAUsableID(t *testing.T) {
	rt := newDedicatedRuntimeT(t)
	act := &recordingActor{}
	id, err := rt.RegisterAnonymous(act)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	require.True(t, rt.Has(id))
	require.Equal(t, Ok, rt.Send("test", id, "ping", 1))
	eventually(t, func() bool { return len(act.snapshot()) == 1 })
}

func TestRegister_RejectsAfterShutdown(t *testing.T) {
	rt := newDedicatedRuntimeT(t)
	rt.Shutdown()
	err := rt.Register("late", &recordingActor{})
	require.ErrorIs(t, err, ErrRuntimeShuttingDown)
}

// TestContextSend_NotRegisteredAfterOwnRelease exercises sendFrom's
// isRunning guard: a handler that calls Send while its own handle is being
// drained by release/finalize (state already Exiting, OnExit not yet run)
// must see NotRegistered, never a registry lookup of "someone-else".
func TestContextSend_NotRegisteredAfterOwnRelease(t *testing.T) {
	rt := newDedicatedRuntimeT(t)

	entered := make(chan struct{})
	gate := make(chan struct{})
	done := make(chan Result, 1)
	act := &onceSenderActor{entered: entered, gate: gate, done: done}
	require.NoError(t, rt.Register("ephemeral", act))

	require.Equal(t, Ok, rt.Send("test", "ephemeral", "ping", 1))
	<-entered

	go rt.Release("ephemeral")
	time.Sleep(10 * time.Millisecond) // let finalize store Exiting and close the mailbox
	close(gate)

	require.Equal(t, NotRegistered, <-done)
}

// onceSenderActor signals entered as soon as OnMessage starts, then blocks
// on gate before sending — giving the test a window to release it mid-delivery.
type onceSenderActor struct {
	entered chan struct{}
	gate    chan struct{}
	done    chan Result
}

func (a *onceSenderActor) OnEnter() error { return nil }

func (a *onceSenderActor) OnMessage(ctx *Context[string, int]) {
	close(a.entered)
	<-a.gate
	a.done <- ctx.Send("someone-else", "probe", 0)
}

func (a *onceSenderActor) OnExit() {}
