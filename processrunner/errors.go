package processrunner

import "errors"

var (
	// ErrAlreadyRunning is returned by Run when the runner has already
	// started.
	ErrAlreadyRunning = errors.New("processrunner: already running")
	// ErrTerminated is returned by Run when the runner has already been
	// torn down.
	ErrTerminated = errors.New("processrunner: terminated")
)
