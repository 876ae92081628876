package cmd

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/s0up4200/prtgctl/config"
	"github.com/s0up4200/prtgctl/prtg"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"configuration error", &config.ConfigurationError{Message: "URL is required"}, exitGeneric},
		{"plain error", errors.New("anything"), exitGeneric},
		{"authentication", &prtg.AuthenticationError{Message: "bad token"}, exitClientError},
		{"api", &prtg.APIError{StatusCode: 500, Message: "boom"}, exitClientError},
		{"transport", &prtg.TransportError{Message: "refused"}, exitClientError},
		{"partial failure", &partialFailureError{failed: 1, total: 3}, exitPartialFailure},
		{"not found", &prtg.NotFoundError{Message: "gone"}, exitNotFound},
		{"date range", &prtg.DateRangeError{Message: "too long"}, exitDateRange},
		{"wrapped not found", fmt.Errorf("lookup: %w", &prtg.NotFoundError{Message: "gone"}), exitNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, exitCode(tt.err))
		})
	}
}

func TestPartialFailureError(t *testing.T) {
	err := &partialFailureError{failed: 2, total: 5}
	assert.Equal(t, "2 of 5 operations failed", err.Error())
}

func TestCollectIDs(t *testing.T) {
	ids, err := collectIDs([]string{"1", "2"}, false)
	assert.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, ids)
}
