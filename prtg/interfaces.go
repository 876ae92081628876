package prtg

import (
	"context"
	"net/url"
)

// API is the transport surface Operations is built on. *Client implements
// it; tests substitute a mock.
type API interface {
	// Get performs an authenticated GET against {server}/api/{endpoint}.
	Get(ctx context.Context, endpoint string, params url.Values) ([]byte, error)

	// HistoricData fetches historicdata.{csv|json} for a sensor.
	HistoricData(ctx context.Context, format string, params url.Values) ([]byte, error)

	// MoveObject moves a device to a different group via the legacy
	// moveobjectnow.htm endpoint.
	MoveObject(ctx context.Context, objectID, targetGroupID string) error

	// Ping verifies connectivity and credentials.
	Ping(ctx context.Context) error
}
