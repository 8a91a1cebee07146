package readyqueue

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPushPop_FIFOOrder(t *testing.T) {
	q := New[int]()
	require.True(t, q.Push(1))
	require.True(t, q.Push(2))
	require.True(t, q.Push(3))

	for _, want := range []int{1, 2, 3} {
		got, ok := q.Pop()
		require.True(t, ok)
		require.Equal(t, want, got)
	}
}

func TestPop_BlocksUntilPush(t *testing.T) {
	q := New[string]()
	done := make(chan string, 1)
	go func() {
		v, ok := q.Pop()
		require.True(t, ok)
		done <- v
	}()

	select {
	case <-done:
		t.Fatal("Pop returned before anything was pushed")
	case <-time.After(20 * time.Millisecond):
	}

	require.True(t, q.Push("hello"))
	require.Equal(t, "hello", <-done)
}

func TestPop_UnblocksFalseOnClose(t *testing.T) {
	q := New[int]()
	results := make(chan bool, 4)
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok := q.Pop()
			results <- ok
		}()
	}
	time.Sleep(10 * time.Millisecond)
	q.Close()
	wg.Wait()
	close(results)
	for ok := range results {
		require.False(t, ok)
	}
}

func TestPop_DrainsRemainingItemsBeforeReportingClosed(t *testing.T) {
	q := New[int]()
	require.True(t, q.Push(1))
	require.True(t, q.Push(2))
	q.Close()

	v, ok := q.Pop()
	require.True(t, ok)
	require.Equal(t, 1, v)

	v, ok = q.Pop()
	require.True(t, ok)
	require.Equal(t, 2, v)

	_, ok = q.Pop()
	require.False(t, ok)
}

func TestPush_FailsAfterClose(t *testing.T) {
	q := New[int]()
	q.Close()
	require.False(t, q.Push(1))
}

func TestClose_Idempotent(t *testing.T) {
	q := New[int]()
	q.Close()
	q.Close()
	_, ok := q.Pop()
	require.False(t, ok)
}
