package squeue

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRing_PushPopFIFO(t *testing.T) {
	r := NewRing[int](3)
	require.True(t, r.Push(1))
	require.True(t, r.Push(2))
	require.True(t, r.Push(3))
	require.False(t, r.Push(4)) // refuse on full

	v, ok := r.Pop()
	require.True(t, ok)
	require.Equal(t, 1, v)
	require.True(t, r.Push(4))

	for _, want := range []int{2, 3, 4} {
		v, ok := r.Pop()
		require.True(t, ok)
		require.Equal(t, want, v)
	}
	_, ok = r.Pop()
	require.False(t, ok)
}

func TestRing_DrainFunc(t *testing.T) {
	r := NewRing[int](4)
	r.Push(1)
	r.Push(2)
	var drained []int
	r.DrainFunc(func(v int) { drained = append(drained, v) })
	require.Equal(t, []int{1, 2}, drained)
	require.True(t, r.Empty())
}

const (
	listRunning = 1
	listPaused  = 2
	listRemoved = 3
)

func TestPool_AllocFreeConservesCapacity(t *testing.T) {
	p := NewPool[string](4, 4)
	require.Equal(t, 4, p.Len(ListFree))

	idx, ok := p.Alloc(listRunning, "a")
	require.True(t, ok)
	require.Equal(t, 3, p.Len(ListFree))
	require.Equal(t, 1, p.Len(listRunning))
	require.Equal(t, "a", *p.Value(idx))

	p.Free(idx)
	require.Equal(t, 4, p.Len(ListFree))
	require.Equal(t, 0, p.Len(listRunning))
}

func TestPool_AllocFailsWhenFreeExhausted(t *testing.T) {
	p := NewPool[int](2, 2)
	_, ok1 := p.Alloc(listRunning, 1)
	_, ok2 := p.Alloc(listRunning, 2)
	_, ok3 := p.Alloc(listRunning, 3)
	require.True(t, ok1)
	require.True(t, ok2)
	require.False(t, ok3)
}

func TestPool_MoveBetweenLists(t *testing.T) {
	p := NewPool[int](3, 4)
	idx, _ := p.Alloc(listRunning, 42)
	p.MoveToBack(idx, listPaused)
	require.Equal(t, 0, p.Len(listRunning))
	require.Equal(t, 1, p.Len(listPaused))
	require.Equal(t, listPaused, p.List(idx))
}

func TestPool_WalkOrderAndSafeMove(t *testing.T) {
	p := NewPool[int](3, 4)
	idxA, _ := p.Alloc(listRunning, 1)
	idxB, _ := p.Alloc(listRunning, 2)
	idxC, _ := p.Alloc(listRunning, 3)

	var seen []int
	p.Walk(listRunning, func(idx int32) {
		seen = append(seen, *p.Value(idx))
		if idx == idxA {
			p.MoveToBack(idx, listRemoved)
		}
	})
	require.Equal(t, []int{1, 2, 3}, seen)
	require.Equal(t, 2, p.Len(listRunning))
	require.Equal(t, 1, p.Len(listRemoved))
	_ = idxB
	_ = idxC
}

func TestPool_DeferredReclamationCountdown(t *testing.T) {
	p := NewPool[int](2, 4)
	idx, _ := p.Alloc(listRemoved, 1)
	p.SetCountdown(idx, 1)
	require.Equal(t, int32(0), p.DecrementCountdown(idx))
	require.Equal(t, int32(0), p.Countdown(idx))
}
