// Package corelog wires the scheduler's optional structured-logging surface
// to github.com/joeycumines/logiface, the generic logging facade used
// throughout the teacher pack, and to its four backend adapters (zerolog,
// logrus, slog, and the pack-native stumpy encoder).
//
// The scheduler's own hot path never imports this package directly for its
// recoverable-panic logging, which follows eventloop's plain log.Printf
// idiom instead (see processrunner/taskrunner run loops); corelog exists for
// callers who want every admission/pause/resume/terminate/success/failure
// transition emitted as a structured event.
package corelog

import (
	"github.com/joeycumines/logiface"
)

// Logger is the type-erased event logger every runner/manager/IOManager
// accepts. It is exactly logiface's own erasure type, obtained from any
// backend-specific *logiface.Logger[E] via its .Logger() method.
type Logger = *logiface.Logger[logiface.Event]

// Field is a logging field, applied to a Builder before Log/Send.
type Field func(b *logiface.Builder[logiface.Event]) *logiface.Builder[logiface.Event]

// Str returns a Field attaching a string value under key.
func Str(key, val string) Field {
	return func(b *logiface.Builder[logiface.Event]) *logiface.Builder[logiface.Event] {
		return b.Str(key, val)
	}
}

// Int returns a Field attaching an int value under key.
func Int(key string, val int) Field {
	return func(b *logiface.Builder[logiface.Event]) *logiface.Builder[logiface.Event] {
		return b.Int(key, val)
	}
}

// ErrField returns a Field attaching an error.
func ErrField(err error) Field {
	return func(b *logiface.Builder[logiface.Event]) *logiface.Builder[logiface.Event] {
		return b.Err(err)
	}
}

func emit(build func() *logiface.Builder[logiface.Event], msg string, fields []Field) {
	b := build()
	if b == nil {
		return
	}
	for _, f := range fields {
		b = f(b)
	}
	b.Log(msg)
}

// Debug emits a debug-level structured event, if l is non-nil and debug is
// enabled.
func Debug(l Logger, msg string, fields ...Field) {
	if l == nil {
		return
	}
	emit(l.Debug, msg, fields)
}

// Info emits an info-level structured event.
func Info(l Logger, msg string, fields ...Field) {
	if l == nil {
		return
	}
	emit(l.Info, msg, fields)
}

// Warning emits a warning-level structured event.
func Warning(l Logger, msg string, fields ...Field) {
	if l == nil {
		return
	}
	emit(l.Warning, msg, fields)
}

// Err emits an error-level structured event.
func Err(l Logger, msg string, fields ...Field) {
	if l == nil {
		return
	}
	emit(l.Err, msg, fields)
}

// Nop returns a nil Logger, which every Debug/Info/Warning/Err helper above
// treats as "do nothing". This is the default for every runner/manager
// Option that accepts a Logger.
func Nop() Logger { return nil }
