package model

import "errors"

// All three are fatal for a run; the remedy is a configuration change.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrConsistency   = errors.New("consistency error")
	ErrCapacity      = errors.New("capacity error")
)
