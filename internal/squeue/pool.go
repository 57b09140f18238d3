package squeue

const none = -1

// ListFree is the conventional list index every slot starts on. Callers
// choose the meaning of every other list index; Pool only threads the
// links.
const ListFree = 0

type node[T any] struct {
	value    T
	prev     int32
	next     int32
	list     int32
	present  bool // true once Alloc has handed this slot to a caller-chosen value
	countdown int32
}

// Pool is an intrusive slot-pool arena: capacity slots, preallocated once,
// partitioned across numLists doubly-linked lists threaded through integer
// indices rather than pointers. All slots begin on ListFree. This is the
// concrete shape spec.md's Design Notes ask for in place of per-node heap
// allocation: admission is Alloc (O(1)), reclamation is Free (O(1)), and the
// five ProcessRunner lists (free/running/paused/removed, with the fifth
// being the caller-held index keyed by workunit.ID) map onto one Pool with
// numLists == 4.
type Pool[T any] struct {
	slots []node[T]
	heads []int32
	tails []int32
	sizes []int32
}

// NewPool preallocates capacity slots distributed across numLists named
// lists; every slot starts empty on ListFree.
func NewPool[T any](capacity, numLists int) *Pool[T] {
	p := &Pool[T]{
		slots: make([]node[T], capacity),
		heads: make([]int32, numLists),
		tails: make([]int32, numLists),
		sizes: make([]int32, numLists),
	}
	for i := range p.heads {
		p.heads[i] = none
		p.tails[i] = none
	}
	for i := range p.slots {
		p.slots[i].list = ListFree
		p.slots[i].prev = int32(i - 1)
		p.slots[i].next = int32(i + 1)
	}
	if capacity > 0 {
		p.slots[capacity-1].next = none
		p.heads[ListFree] = 0
		p.tails[ListFree] = int32(capacity - 1)
		p.sizes[ListFree] = int32(capacity)
	}
	return p
}

// Capacity returns the total number of slots (constant for the Pool's
// lifetime).
func (p *Pool[T]) Capacity() int { return len(p.slots) }

// Len reports how many slots currently belong to list.
func (p *Pool[T]) Len(list int) int { return int(p.sizes[list]) }

func (p *Pool[T]) unlink(idx int32) {
	n := &p.slots[idx]
	list := n.list
	if n.prev != none {
		p.slots[n.prev].next = n.next
	} else {
		p.heads[list] = n.next
	}
	if n.next != none {
		p.slots[n.next].prev = n.prev
	} else {
		p.tails[list] = n.prev
	}
	p.sizes[list]--
	n.prev = none
	n.next = none
}

func (p *Pool[T]) pushBack(list int, idx int32) {
	n := &p.slots[idx]
	n.list = int32(list)
	n.prev = p.tails[list]
	n.next = none
	if p.tails[list] != none {
		p.slots[p.tails[list]].next = idx
	} else {
		p.heads[list] = idx
	}
	p.tails[list] = idx
	p.sizes[list]++
}

func (p *Pool[T]) pushFront(list int, idx int32) {
	n := &p.slots[idx]
	n.list = int32(list)
	n.next = p.heads[list]
	n.prev = none
	if p.heads[list] != none {
		p.slots[p.heads[list]].prev = idx
	} else {
		p.tails[list] = idx
	}
	p.heads[list] = idx
	p.sizes[list]++
}

// Alloc removes the head of ListFree and places it at the back of
// destList, returning its index. ok is false if ListFree is empty.
func (p *Pool[T]) Alloc(destList int, value T) (idx int32, ok bool) {
	idx = p.heads[ListFree]
	if idx == none {
		return 0, false
	}
	p.unlink(idx)
	p.slots[idx].value = value
	p.slots[idx].present = true
	p.slots[idx].countdown = 0
	p.pushBack(destList, idx)
	return idx, true
}

// Free detaches idx from whatever list it is on and returns it to the back
// of ListFree, clearing its value.
func (p *Pool[T]) Free(idx int32) {
	p.unlink(idx)
	var zero T
	p.slots[idx].value = zero
	p.slots[idx].present = false
	p.pushBack(ListFree, idx)
}

// MoveToBack detaches idx from its current list and appends it to the back
// of toList.
func (p *Pool[T]) MoveToBack(idx int32, toList int) {
	p.unlink(idx)
	p.pushBack(toList, idx)
}

// MoveToFront detaches idx from its current list and prepends it to
// toList.
func (p *Pool[T]) MoveToFront(idx int32, toList int) {
	p.unlink(idx)
	p.pushFront(toList, idx)
}

// Value returns a pointer to the stored value, for in-place mutation.
func (p *Pool[T]) Value(idx int32) *T { return &p.slots[idx].value }

// List reports which list idx currently belongs to.
func (p *Pool[T]) List(idx int32) int { return int(p.slots[idx].list) }

// Countdown returns the deferred-reclamation sweep counter for idx.
func (p *Pool[T]) Countdown(idx int32) int32 { return p.slots[idx].countdown }

// SetCountdown sets the deferred-reclamation sweep counter for idx.
func (p *Pool[T]) SetCountdown(idx int32, n int32) { p.slots[idx].countdown = n }

// DecrementCountdown decrements and returns the new value.
func (p *Pool[T]) DecrementCountdown(idx int32) int32 {
	p.slots[idx].countdown--
	return p.slots[idx].countdown
}

// Front returns the head index of list, or (0, false) if empty.
func (p *Pool[T]) Front(list int) (int32, bool) {
	h := p.heads[list]
	if h == none {
		return 0, false
	}
	return h, true
}

// Next returns the slot following idx on whatever list idx is on.
func (p *Pool[T]) Next(idx int32) (int32, bool) {
	n := p.slots[idx].next
	if n == none {
		return 0, false
	}
	return n, true
}

// Walk calls fn for every slot on list in order, front to back. fn may move
// the current slot to a different list (Walk captures the next pointer
// before invoking fn), but must not move slots it has not yet visited.
func (p *Pool[T]) Walk(list int, fn func(idx int32)) {
	idx := p.heads[list]
	for idx != none {
		next := p.slots[idx].next
		fn(idx)
		idx = next
	}
}
