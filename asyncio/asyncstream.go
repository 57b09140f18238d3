package asyncio

import (
	"github.com/joeycumines/corework/task"
	"github.com/joeycumines/corework/taskrunner"
)

// AsyncStream wraps a blocking InputStream/OutputStream pair and exposes
// async equivalents of its read/write primitives. Each call constructs an
// AsyncIOTask tagged with the operation kind, hands it to a TaskRunner (in
// practice the IOManager's), and returns an owning *AsyncResult.
type AsyncStream struct {
	in     InputStream
	out    OutputStream
	runner *taskrunner.Runner
}

// NewAsyncStream constructs an AsyncStream over in/out, dispatching
// submitted operations onto runner. Either of in/out may be nil if the
// stream is read-only or write-only.
func NewAsyncStream(in InputStream, out OutputStream, runner *taskrunner.Runner) *AsyncStream {
	return &AsyncStream{in: in, out: out, runner: runner}
}

func (s *AsyncStream) submit(op *AsyncIOTask) *AsyncResult {
	t := task.New("async-io:"+op.kind.String(), op)
	// The back-pointer is set before queueing so that a task completing
	// before QueueTask returns clears it for good.
	result := newAsyncResult(op.buffer, t)
	op.result = result
	if s.runner.QueueTask(t) == nil {
		result.taskMu.Lock()
		result.task = nil
		result.taskMu.Unlock()
	}
	return result
}

// ReadRaw1 reads totalBytes into buf in one shot.
func (s *AsyncStream) ReadRaw1(buf []byte, totalBytes int) *AsyncResult {
	return s.submit(&AsyncIOTask{kind: KindRaw1, dir: DirRead, in: s.in, buffer: buf, arg1: totalBytes})
}

// ReadRaw2 reads count elements of size bytes each into buf.
func (s *AsyncStream) ReadRaw2(buf []byte, count, size int) *AsyncResult {
	return s.submit(&AsyncIOTask{kind: KindRaw2, dir: DirRead, in: s.in, buffer: buf, arg1: count, arg2: size})
}

// ReadU32 reads count u32 values into buf.
func (s *AsyncStream) ReadU32(buf []byte, count int) *AsyncResult {
	return s.submit(&AsyncIOTask{kind: KindU32, dir: DirRead, in: s.in, buffer: buf, arg1: count})
}

// WriteU32 writes count u32 values from buf.
func (s *AsyncStream) WriteU32(buf []byte, count int) *AsyncResult {
	return s.submit(&AsyncIOTask{kind: KindU32, dir: DirWrite, out: s.out, buffer: buf, arg1: count})
}

// ReadU64 reads count u64 values into buf.
func (s *AsyncStream) ReadU64(buf []byte, count int) *AsyncResult {
	return s.submit(&AsyncIOTask{kind: KindU64, dir: DirRead, in: s.in, buffer: buf, arg1: count})
}

// WriteU64 writes count u64 values from buf.
func (s *AsyncStream) WriteU64(buf []byte, count int) *AsyncResult {
	return s.submit(&AsyncIOTask{kind: KindU64, dir: DirWrite, out: s.out, buffer: buf, arg1: count})
}

// ReadI32 reads count i32 values into buf.
func (s *AsyncStream) ReadI32(buf []byte, count int) *AsyncResult {
	return s.submit(&AsyncIOTask{kind: KindI32, dir: DirRead, in: s.in, buffer: buf, arg1: count})
}

// WriteI32 writes count i32 values from buf.
func (s *AsyncStream) WriteI32(buf []byte, count int) *AsyncResult {
	return s.submit(&AsyncIOTask{kind: KindI32, dir: DirWrite, out: s.out, buffer: buf, arg1: count})
}

// ReadI64 reads count i64 values into buf.
func (s *AsyncStream) ReadI64(buf []byte, count int) *AsyncResult {
	return s.submit(&AsyncIOTask{kind: KindI64, dir: DirRead, in: s.in, buffer: buf, arg1: count})
}

// WriteI64 writes count i64 values from buf.
func (s *AsyncStream) WriteI64(buf []byte, count int) *AsyncResult {
	return s.submit(&AsyncIOTask{kind: KindI64, dir: DirWrite, out: s.out, buffer: buf, arg1: count})
}

// ReadF32 reads count f32 values into buf.
func (s *AsyncStream) ReadF32(buf []byte, count int) *AsyncResult {
	return s.submit(&AsyncIOTask{kind: KindF32, dir: DirRead, in: s.in, buffer: buf, arg1: count})
}

// WriteF32 writes count f32 values from buf.
func (s *AsyncStream) WriteF32(buf []byte, count int) *AsyncResult {
	return s.submit(&AsyncIOTask{kind: KindF32, dir: DirWrite, out: s.out, buffer: buf, arg1: count})
}

// ReadF64 reads count f64 values into buf.
func (s *AsyncStream) ReadF64(buf []byte, count int) *AsyncResult {
	return s.submit(&AsyncIOTask{kind: KindF64, dir: DirRead, in: s.in, buffer: buf, arg1: count})
}

// WriteF64 writes count f64 values from buf.
func (s *AsyncStream) WriteF64(buf []byte, count int) *AsyncResult {
	return s.submit(&AsyncIOTask{kind: KindF64, dir: DirWrite, out: s.out, buffer: buf, arg1: count})
}

// ReadBool reads a single bool into buf[0].
func (s *AsyncStream) ReadBool(buf []byte) *AsyncResult {
	return s.submit(&AsyncIOTask{kind: KindBool, dir: DirRead, in: s.in, buffer: buf, arg1: 1})
}

// WriteBool writes a single bool from buf[0].
func (s *AsyncStream) WriteBool(buf []byte) *AsyncResult {
	return s.submit(&AsyncIOTask{kind: KindBool, dir: DirWrite, out: s.out, buffer: buf, arg1: 1})
}

// ReadChar reads a single byte into buf[0].
func (s *AsyncStream) ReadChar(buf []byte) *AsyncResult {
	return s.submit(&AsyncIOTask{kind: KindChar, dir: DirRead, in: s.in, buffer: buf, arg1: 1})
}

// WriteChar writes a single byte from buf[0].
func (s *AsyncStream) WriteChar(buf []byte) *AsyncResult {
	return s.submit(&AsyncIOTask{kind: KindChar, dir: DirWrite, out: s.out, buffer: buf, arg1: 1})
}

// ReadCString reads a 32-bit length prefix followed by that many bytes into
// buf, which must be large enough to hold the decoded string.
func (s *AsyncStream) ReadCString(buf []byte) *AsyncResult {
	return s.submit(&AsyncIOTask{kind: KindCString, dir: DirRead, in: s.in, buffer: buf})
}

// ReadObject delegates to obj.ReadFrom(stream).
func (s *AsyncStream) ReadObject(obj Serializable) *AsyncResult {
	return s.submit(&AsyncIOTask{kind: KindObject, dir: DirRead, in: s.in, serializable: obj})
}

// WriteObject delegates to obj.WriteTo(stream).
func (s *AsyncStream) WriteObject(obj Serializable) *AsyncResult {
	return s.submit(&AsyncIOTask{kind: KindObject, dir: DirWrite, out: s.out, serializable: obj})
}
