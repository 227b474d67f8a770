package llms

import "errors"

var (
	// ErrTransport covers connection, TLS, timeout and non-success status
	// failures. The remote model never produced a usable reply.
	ErrTransport = errors.New("completion transport failed")
	// ErrMalformedResponse is returned when the exchange itself succeeded but
	// the body could not be decoded or had no reply text.
	ErrMalformedResponse = errors.New("completion response malformed")
)
