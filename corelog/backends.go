package corelog

import (
	"log/slog"

	islog "github.com/joeycumines/logiface-slog"
	"github.com/joeycumines/izerolog"
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
	"github.com/rs/zerolog"

	"github.com/joeycumines/ilogrus"
	"github.com/sirupsen/logrus"
)

// NewZerolog builds a Logger backed by rs/zerolog via the pack's izerolog
// adapter, writing through w with the logiface level set to trace.
func NewZerolog(w zerolog.Logger) Logger {
	l := izerolog.L.New(
		izerolog.L.WithZerolog(w),
		izerolog.L.WithLevel(logiface.LevelTrace),
	)
	return l.Logger()
}

// NewLogrus builds a Logger backed by sirupsen/logrus via the pack's
// ilogrus adapter.
func NewLogrus(base *logrus.Logger) Logger {
	l := ilogrus.L.New(
		ilogrus.L.WithLogrus(base),
		ilogrus.L.WithLevel(logiface.LevelTrace),
	)
	return l.Logger()
}

// NewSlog builds a Logger backed by the standard library log/slog via the
// pack's logiface-slog adapter, dispatching through base's Handler.
func NewSlog(base *slog.Logger) Logger {
	l := islog.L.New(
		islog.L.WithSlogHandler(base.Handler()),
		islog.L.WithLevel(logiface.LevelTrace),
	)
	return l.Logger()
}

// NewStumpy builds a Logger backed by the pack's own zero-dependency stumpy
// encoder, writing newline-delimited structured records to stderr.
func NewStumpy() Logger {
	l := stumpy.L.New(
		stumpy.L.WithStumpy(),
		stumpy.L.WithLevel(logiface.LevelTrace),
	)
	return l.Logger()
}
