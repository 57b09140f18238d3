package corelog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNop_IsNilAndAllHelpersAreNoOps(t *testing.T) {
	l := Nop()
	require.Nil(t, l)
	// Must not panic against a nil Logger.
	Debug(l, "debug", Str("k", "v"))
	Info(l, "info", Int("n", 1))
	Warning(l, "warning")
	Err(l, "error", ErrField(nil))
}

func TestNewStumpy_ProducesNonNilLogger(t *testing.T) {
	l := NewStumpy()
	require.NotNil(t, l)
	// Must not panic when used.
	Info(l, "stumpy backend wired", Str("component", "corelog"))
}
