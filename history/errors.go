package history

import "errors"

var (
	ErrCapacity   = errors.New("history: capacity must be at least 1")
	ErrRatio      = errors.New("history: zoom ratio must be between 1.0 and MaxZoomRatio")
	ErrWindowSize = errors.New("history: visible size must be at least 1 and not exceed the capacity")
)
