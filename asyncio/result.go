package asyncio

import (
	"sync"
	"sync/atomic"

	"github.com/joeycumines/corework/task"
)

// AsyncResult is a reference-counted handle that becomes signalled when its
// AsyncIOTask completes. It holds a back-pointer to the owning *task.Task
// which is cleared at completion, matching original_source's
// AsyncReadResult::setTask(NIL) in its destructor.
type AsyncResult struct {
	mu               sync.Mutex
	cond             *sync.Cond
	done             bool
	bytesTransferred int
	buffer           []byte

	taskMu sync.Mutex
	task   *task.Task

	refcount atomic.Int32
}

func newAsyncResult(buffer []byte, owner *task.Task) *AsyncResult {
	r := &AsyncResult{buffer: buffer, task: owner}
	r.cond = sync.NewCond(&r.mu)
	r.refcount.Store(1)
	return r
}

// Retain increments the shared-ownership refcount.
func (r *AsyncResult) Retain() { r.refcount.Add(1) }

// Release decrements the refcount and reports whether it reached zero.
func (r *AsyncResult) Release() bool { return r.refcount.Add(-1) <= 0 }

// WaitForResult blocks until the owning task has completed. Always returns
// true; it exists as a bool-returning method to mirror the original
// wait_for_result contract, whose false case (timeout) has no analogue
// here since the core imposes no timeouts (spec.md §5).
func (r *AsyncResult) WaitForResult() bool {
	r.mu.Lock()
	for !r.done {
		r.cond.Wait()
	}
	r.mu.Unlock()
	return true
}

// BytesTransferred returns the number of bytes the task reported at
// completion. Zero until WaitForResult returns.
func (r *AsyncResult) BytesTransferred() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bytesTransferred
}

// Buffer returns the original buffer pointer supplied when the operation
// was submitted.
func (r *AsyncResult) Buffer() []byte { return r.buffer }

// Task returns the owning task, or (nil, false) if the task has already
// completed and cleared the back-pointer.
func (r *AsyncResult) Task() (*task.Task, bool) {
	r.taskMu.Lock()
	defer r.taskMu.Unlock()
	return r.task, r.task != nil
}

// taskCompleted is called by the AsyncIOTask workload under no external
// lock; it takes the result's own lock, records the transferred byte
// count, clears the back-pointer, and broadcasts to any waiter.
func (r *AsyncResult) taskCompleted(n int) {
	r.taskMu.Lock()
	r.task = nil
	r.taskMu.Unlock()

	r.mu.Lock()
	r.bytesTransferred = n
	r.done = true
	r.cond.Broadcast()
	r.mu.Unlock()
}
