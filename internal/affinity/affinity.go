// Package affinity pins the calling OS thread to a single processor.
//
// Callers must hold runtime.LockOSThread for as long as the binding should apply.
package affinity

import "errors"

// ErrUnsupported is returned where thread affinity cannot be set.
var ErrUnsupported = errors.New("cpu affinity is not supported on this platform")
