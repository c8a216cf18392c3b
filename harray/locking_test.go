package harray_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/graphia-go/graphon/handle"
	"github.com/graphia-go/graphon/harray"
)

// TestLockingConcurrentReadWrite mirrors the teacher's own concurrency
// idiom (core_test.TestConcurrentAddEdge): many goroutines hammering a
// single shared structure, asserted race-free via -race rather than via
// explicit synchronization checks.
func TestLockingConcurrentReadWrite(t *testing.T) {
	reg := harray.NewRegistry()
	reg.GrowTo(50)
	l := harray.NewLocking[handle.Node, int](reg)

	const writers = 50
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func(i int) {
			defer wg.Done()
			require.NoError(t, l.Set(handle.NodeHandle(i), i*2))
		}(i)
	}
	wg.Wait()

	for i := 0; i < writers; i++ {
		v, err := l.Get(handle.NodeHandle(i))
		require.NoError(t, err)
		require.Equal(t, i*2, v)
	}
}

func TestLockingGrowsWithRegistry(t *testing.T) {
	reg := harray.NewRegistry()
	l := harray.NewLocking[handle.Node, int](reg)
	require.Equal(t, 0, l.Len())
	reg.GrowTo(4)
	require.Equal(t, 4, l.Len())
}

func TestLockingInvalidate(t *testing.T) {
	reg := harray.NewRegistry()
	reg.GrowTo(2)
	l := harray.NewLocking[handle.Node, int](reg)
	l.Invalidate()

	_, err := l.Get(handle.NodeHandle(0))
	require.ErrorIs(t, err, harray.ErrInvalidated)

	// Further registry growth must not reach the unregistered array.
	reg.GrowTo(10)
}
