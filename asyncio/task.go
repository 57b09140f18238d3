package asyncio

import (
	"encoding/binary"
	"fmt"

	"github.com/joeycumines/corework/task"
)

// Kind is the closed tagged-variant enumeration an AsyncIOTask dispatches
// on, exactly the twelve kinds named in spec.md §6.3. The integer
// representation is an implementation detail.
type Kind int

const (
	KindRaw1 Kind = iota
	KindRaw2
	KindU32
	KindU64
	KindI32
	KindI64
	KindF32
	KindF64
	KindBool
	KindChar
	KindCString
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindRaw1:
		return "raw-1"
	case KindRaw2:
		return "raw-2"
	case KindU32:
		return "u32"
	case KindU64:
		return "u64"
	case KindI32:
		return "i32"
	case KindI64:
		return "i64"
	case KindF32:
		return "f32"
	case KindF64:
		return "f64"
	case KindBool:
		return "bool"
	case KindChar:
		return "char"
	case KindCString:
		return "c-string"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Direction selects whether an AsyncIOTask reads from or writes to its
// stream. Distinct from Kind: the fixed-width kinds and KindObject support
// both directions; the two raw kinds and KindCString are read-only.
type Direction int

const (
	DirRead Direction = iota
	DirWrite
)

// AsyncIOTask is the task.Workload that performs one typed I/O operation
// over a wrapped stream and signals an AsyncResult on completion. It stores
// the stream reference, buffer pointer, and up to two size arguments, per
// spec.md §6.3.
type AsyncIOTask struct {
	kind Kind
	dir  Direction

	in  InputStream
	out OutputStream

	buffer []byte
	arg1   int
	arg2   int

	serializable Serializable

	result *AsyncResult
}

// Run performs the dispatch. Called by the TaskRunner worker goroutine;
// never called directly by application code.
func (t *AsyncIOTask) Run(tk *task.Task) {
	n, err := t.dispatch()
	if t.result != nil {
		t.result.taskCompleted(n)
	}
	if err != nil {
		tk.Fail()
		return
	}
	tk.Succeed()
}

func (t *AsyncIOTask) dispatch() (int, error) {
	switch t.kind {
	case KindRaw1:
		return t.in.Read(t.buffer[:t.arg1])
	case KindRaw2:
		return t.in.ReadCounted(t.buffer, t.arg1, t.arg2)
	case KindObject:
		if t.dir == DirWrite {
			return t.serializable.WriteTo(t.out)
		}
		return t.serializable.ReadFrom(t.in)
	case KindCString:
		return t.dispatchCString()
	default:
		return t.dispatchFixedWidth()
	}
}

func (t *AsyncIOTask) dispatchCString() (int, error) {
	var lenBuf [4]byte
	if _, err := t.in.Read(lenBuf[:]); err != nil {
		return 0, err
	}
	length := int(binary.BigEndian.Uint32(lenBuf[:]))
	if len(t.buffer) < length {
		return 0, fmt.Errorf("asyncio: c-string buffer too small: need %d, have %d", length, len(t.buffer))
	}
	n, err := t.in.Read(t.buffer[:length])
	return n + 4, err
}

func (t *AsyncIOTask) dispatchFixedWidth() (int, error) {
	width, err := fixedWidth(t.kind)
	if err != nil {
		return 0, err
	}
	total := width * max(t.arg1, 1)
	if t.dir == DirWrite {
		if t.out == nil {
			return 0, fmt.Errorf("asyncio: write dispatch with nil output stream")
		}
		return t.out.Write(t.buffer[:total])
	}
	if t.in == nil {
		return 0, fmt.Errorf("asyncio: read dispatch with nil input stream")
	}
	return t.in.Read(t.buffer[:total])
}

func fixedWidth(k Kind) (int, error) {
	switch k {
	case KindU32, KindI32, KindF32:
		return 4, nil
	case KindU64, KindI64, KindF64:
		return 8, nil
	case KindBool, KindChar:
		return 1, nil
	default:
		return 0, fmt.Errorf("asyncio: %v has no fixed width", k)
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
