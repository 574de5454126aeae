// internal/relay/errors.go
package relay

import "errors"

var (
	// ErrOverflow is returned by Buffer.Push at capacity. The byte is dropped.
	ErrOverflow = errors.New("relay: buffer overflow")

	// ErrSpinLimit is returned by a bounded Spinner whose condition never held.
	ErrSpinLimit = errors.New("relay: spin limit reached")
)
