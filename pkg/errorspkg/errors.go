// Package errorspkg provides errors shared by all application layers.
package errorspkg

import "errors"

// ErrInternal indicates an unexpected internal failure. Lower layers log the
// underlying cause and return this sentinel to callers.
var ErrInternal = errors.New("internal")
