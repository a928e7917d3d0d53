package service

import "errors"

// ErrNotFound is returned when a requested trajectory or run does not exist
var ErrNotFound = errors.New("not found")
