package app

import "errors"

// Application errors.
var (
	// ErrAlreadyRunning indicates the application is already running.
	ErrAlreadyRunning = errors.New("application already running")

	// ErrNoLoop indicates Run was called on an application built over an
	// external scheduler.
	ErrNoLoop = errors.New("run requires the built-in event loop")

	// ErrNoWatcher indicates a reload was requested without a watched
	// configuration file.
	ErrNoWatcher = errors.New("no configuration file is being watched")
)

// InitError represents an initialization error.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return "init " + e.Component + ": " + e.Err.Error()
}

func (e *InitError) Unwrap() error {
	return e.Err
}
