package prtg

import "time"

type settings struct {
	timeout      time.Duration
	retryMax     int
	retryWaitMin time.Duration
	retryWaitMax time.Duration
}

func defaultSettings() settings {
	return settings{
		// Wall-clock budget per attempt, first byte to completion.
		timeout:      30 * time.Second,
		retryMax:     3,
		retryWaitMin: 1 * time.Second,
		retryWaitMax: 10 * time.Second,
	}
}

// Option configures optional Client behavior.
type Option func(*settings)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) {
		s.timeout = d
	}
}

// WithRetryWait overrides the backoff bounds between retry attempts.
// Mostly useful in tests.
func WithRetryWait(min, max time.Duration) Option {
	return func(s *settings) {
		s.retryWaitMin = min
		s.retryWaitMax = max
	}
}
