package geo

import "errors"

// ErrNoResult is returned when a provider answers successfully but finds nothing.
var ErrNoResult = errors.New("no result")
