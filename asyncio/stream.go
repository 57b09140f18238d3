// Package asyncio wraps a blocking stream abstraction (consumed, not
// provided, by the core: spec.md §6.1 names it an external collaborator)
// into job objects executed on a TaskRunner, delivering results through a
// reference-counted, condition-variable-signalled AsyncResult.
//
// Grounded on the original_source headers under include/core/io/ (
// inputstream.h, datainputstream.h, asyncinputstream.h, asyncinputtask.h,
// iomanager.h, filedescriptor.h, serialisable.h).
package asyncio

// InputStream is the blocking read surface the core consumes. An
// implementation is free to wrap a file, a pipe, an in-memory buffer,
// anything with these semantics.
type InputStream interface {
	// Read reads exactly len(p) bytes, or returns a short count and an
	// error (including io.EOF) if the stream cannot supply len(p) bytes.
	Read(p []byte) (n int, err error)
	// ReadCounted reads count elements of size bytes each into p, which
	// must be at least count*size bytes. It mirrors the two-argument raw
	// read form named in spec.md §6.1.
	ReadCounted(p []byte, count, size int) (n int, err error)
	Close() error
	CanRead() bool
	IsPositionable() bool
	Rewind(n int) (int, error)
	Skip(n int) (int, error)
	Descriptor() *FileDescriptor
}

// OutputStream mirrors InputStream for writes.
type OutputStream interface {
	Write(p []byte) (n int, err error)
	WriteCounted(p []byte, count, size int) (n int, err error)
	Close() error
	CanWrite() bool
	IsPositionable() bool
	Descriptor() *FileDescriptor
}

// Serializable is implemented by any object that knows how to read and
// write itself via the stream abstraction. The core never inspects the wire
// format it produces; it only calls these two methods.
type Serializable interface {
	ReadFrom(s InputStream) (int, error)
	WriteTo(s OutputStream) (int, error)
}
