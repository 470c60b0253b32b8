package chunk

import "errors"

var (
	// ErrNoChunks indicates splitting produced no usable chunks.
	ErrNoChunks = errors.New("no chunks produced")
)
