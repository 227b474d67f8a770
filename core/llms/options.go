package llms

import "time"

const DefaultCompletionTimeout = 60 * time.Second

type CompletionOptions struct {
	// Timeout bounds a single exchange, including a retry. Zero disables it.
	Timeout time.Duration
	// RetryOnTransportError allows one extra attempt after a transport
	// failure. Malformed responses are never retried.
	RetryOnTransportError bool
}

type CompletionOption func(*CompletionOptions)

func WithTimeout(timeout time.Duration) CompletionOption {
	return func(o *CompletionOptions) {
		if timeout < 0 {
			return
		}
		o.Timeout = timeout
	}
}

// WithTransportRetry enables a single retry for transport failures.
func WithTransportRetry() CompletionOption {
	return func(o *CompletionOptions) { o.RetryOnTransportError = true }
}
