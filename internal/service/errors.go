package service

import "errors"

// ErrNotFound is returned when an operation targets a missing or
// already-deleted entity. Update surfaces it; Delete treats it as a
// no-op.
var ErrNotFound = errors.New("not found")
