package staypoint

import "errors"

var (
	// ErrInvalidInput is returned for too-short trajectories or out-of-range thresholds
	ErrInvalidInput = errors.New("invalid input")
	// ErrMalformedTimestamp is returned when a point carries no usable timestamp
	ErrMalformedTimestamp = errors.New("malformed timestamp")
	// ErrMalformedCoordinate is returned when a latitude or longitude is not a valid coordinate
	ErrMalformedCoordinate = errors.New("malformed coordinate")
)
