package engine

import (
	"errors"

	"github.com/dshills/inkwell/internal/history"
)

// Errors returned by engine operations.
var (
	// ErrNilSurface indicates Attach was called without a surface.
	ErrNilSurface = errors.New("nil surface")

	// ErrInstanceExists indicates the id is already attached.
	ErrInstanceExists = history.ErrInstanceExists

	// ErrInstanceNotFound indicates no instance has the given id.
	ErrInstanceNotFound = history.ErrInstanceNotFound
)
