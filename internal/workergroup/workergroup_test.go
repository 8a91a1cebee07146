package workergroup

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWaitInit_WaitsForEveryAttachedWorker(t *testing.T) {
	g := New()
	var ran atomic.Int32
	for i := 0; i < 5; i++ {
		g.Attach(func(done Done) {
			ran.Add(1)
			done(nil)
		})
	}
	require.True(t, g.WaitInit())
	require.EqualValues(t, 5, ran.Load())
	g.Join()
}

func TestWaitInit_FalseOnInitError(t *testing.T) {
	g := New()
	g.Attach(func(done Done) {
		done(errors.New("boom"))
	})
	require.False(t, g.WaitInit())
	g.Join()
}

func TestWaitInit_FalseOnPanicBeforeDone(t *testing.T) {
	g := New()
	g.Attach(func(done Done) {
		panic("never called done")
	})
	require.False(t, g.WaitInit())
	g.Join()
}

func TestWaitInit_IsMonotonicAcrossIncrementalAttach(t *testing.T) {
	g := New()
	g.Attach(func(done Done) { done(nil) })
	require.True(t, g.WaitInit())

	block := make(chan struct{})
	g.Attach(func(done Done) {
		<-block
		done(nil)
	})

	waited := make(chan bool, 1)
	go func() { waited <- g.WaitInit() }()

	select {
	case <-waited:
		t.Fatal("WaitInit returned before the newly attached worker reported in")
	case <-time.After(20 * time.Millisecond):
	}

	close(block)
	require.True(t, <-waited)
	g.Join()
}

func TestJoin_WaitsForEveryWorkerGoroutineToReturn(t *testing.T) {
	g := New()
	var exited atomic.Int32
	for i := 0; i < 3; i++ {
		g.Attach(func(done Done) {
			done(nil)
			exited.Add(1)
		})
	}
	g.Join()
	require.EqualValues(t, 3, exited.Load())
}
