package collector

import "errors"

var (
	// ErrConnectFailed means a badge exhausted its connect retries. The
	// badge is excluded from the session; siblings are unaffected.
	ErrConnectFailed = errors.New("failed to connect to badge")

	// ErrSubscribeFailed means the badge connected but its data feed could
	// not be enabled.
	ErrSubscribeFailed = errors.New("failed to subscribe to badge feed")

	// ErrLinkLost means a mid-session disconnect was detected and the single
	// bounded reconnect attempt also failed.
	ErrLinkLost = errors.New("badge link lost")

	errInvalidRetries  = errors.New("connect_retries must be at least 1")
	errInvalidInterval = errors.New("poll and retry intervals must be positive")
	errInvalidTimeout  = errors.New("connection timeouts must be positive")
)
