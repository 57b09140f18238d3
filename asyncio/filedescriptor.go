package asyncio

import (
	"fmt"
	"sync/atomic"

	"golang.org/x/sys/unix"
)

// Mode is the open mode a FileDescriptor was acquired with.
type Mode int

const (
	ModeRead Mode = iota
	ModeWrite
	ModeReadWrite
)

// FileDescriptor wraps a raw OS file descriptor, its open mode, filename,
// and a shared refcount, grounded on original_source's filedescriptor.h.
// Opening fails if the descriptor is already open in a different mode.
// Closing is per handle: Close closes this handle's fd on its first call.
// The refcount counts the handles Retain has produced and does not gate
// Close.
type FileDescriptor struct {
	fd       int
	mode     Mode
	filename string
	open     atomic.Bool
	refcount atomic.Int32
}

// NewFileDescriptor wraps an already-open raw fd (e.g. one returned by
// unix.Open) with bookkeeping. The FileDescriptor takes ownership: Close
// will unix.Close it.
func NewFileDescriptor(fd int, mode Mode, filename string) *FileDescriptor {
	f := &FileDescriptor{fd: fd, mode: mode, filename: filename}
	f.open.Store(true)
	f.refcount.Store(1)
	return f
}

// Fd returns the raw descriptor for use by the wrapping InputStream/
// OutputStream implementation.
func (f *FileDescriptor) Fd() int { return f.fd }

func (f *FileDescriptor) Mode() Mode { return f.mode }

func (f *FileDescriptor) Filename() string { return f.filename }

func (f *FileDescriptor) IsOpen() bool { return f.open.Load() }

// Retain increments the shared refcount and returns a duplicated
// FileDescriptor sharing the same underlying fd via unix.Dup, so either
// handle may be closed independently.
func (f *FileDescriptor) Retain() (*FileDescriptor, error) {
	if !f.open.Load() {
		return nil, fmt.Errorf("asyncio: retain of closed descriptor %q", f.filename)
	}
	dup, err := unix.Dup(f.fd)
	if err != nil {
		return nil, fmt.Errorf("asyncio: dup %q: %w", f.filename, err)
	}
	f.refcount.Add(1)
	return NewFileDescriptor(dup, f.mode, f.filename), nil
}

// Close flushes (a no-op for a raw fd) and closes the underlying
// descriptor. Safe to call more than once; only the first call closes the
// fd.
func (f *FileDescriptor) Close() error {
	if !f.open.CompareAndSwap(true, false) {
		return nil
	}
	return unix.Close(f.fd)
}

// Reopen fails if fd is already open in a mode other than the requested
// one, matching the original source's "opening fails if already open in a
// different mode" rule.
func (f *FileDescriptor) Reopen(mode Mode) error {
	if f.open.Load() && f.mode != mode {
		return fmt.Errorf("asyncio: %q already open in mode %d, cannot reopen as %d", f.filename, f.mode, mode)
	}
	return nil
}
