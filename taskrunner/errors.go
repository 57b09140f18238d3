package taskrunner

import "errors"

var (
	// ErrAlreadyRunning is returned by Run when the runner has already
	// started.
	ErrAlreadyRunning = errors.New("taskrunner: already running")
	// ErrTerminated is returned by Run when the runner has already been
	// torn down.
	ErrTerminated = errors.New("taskrunner: terminated")
)
