package prtg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// HistoricTimeFormat is the timestamp layout the historicdata endpoint
// expects (yyyy-MM-dd-HH-mm-ss).
const HistoricTimeFormat = "2006-01-02-15-04-05"

// Averaging intervals accepted by the historicdata endpoint, in seconds.
const (
	IntervalRaw    = 0
	IntervalMinute = 60
	IntervalHour   = 3600
	IntervalDay    = 86400
)

// Server-side limits on historic data ranges. Exceeding them locally saves
// a doomed request against a rate-limited endpoint.
const (
	maxRawRangeDays      = 40
	maxAveragedRangeDays = 500
)

// statusCodes maps friendly status names to PRTG's numeric codes.
var statusCodes = map[string]string{
	"up":      "3",
	"warning": "4",
	"down":    "5",
	"paused":  "7",
	"unusual": "10",
	"unknown": "1",
}

// TranslateStatus converts a friendly status name to its numeric filter
// code. Unrecognized names pass through unchanged as the raw filter value.
func TranslateStatus(status string) string {
	if code, ok := statusCodes[strings.ToLower(status)]; ok {
		return code
	}
	return status
}

// Default column sets requested unless the caller overrides them.
var (
	defaultDeviceColumns = []string{
		"objid", "name", "device", "host", "probe", "group", "parentid",
		"status", "status_raw", "message", "tags", "priority",
		"upsens", "downsens", "warnsens", "pausedsens", "unusualsens",
	}
	defaultSensorColumns = []string{
		"objid", "name", "sensor", "device", "group", "probe", "parentid",
		"status", "status_raw", "message", "sensor_type", "interval",
		"lastvalue", "lastmessage", "downtime", "uptime", "priority", "tags",
	}
	defaultGroupColumns = []string{
		"objid", "name", "probe", "group", "parentid",
	}
)

// ListOptions narrows a list query. The zero value requests every object of
// the content type with the default column set.
type ListOptions struct {
	// Columns overrides the default column set.
	Columns []string
	// Status filters by friendly status name (up, down, warning, paused,
	// unusual, unknown) or a raw status code.
	Status string
	// Tag filters by tag; it is wrapped as @tag(<value>) on the wire.
	Tag string
	// Parent filters by parent object ID (group ID for devices and groups,
	// device ID for sensors).
	Parent string
	// Limit caps the number of results. Zero means all ("count=*").
	Limit int
	// Offset is the pagination start offset.
	Offset int
}

func (o ListOptions) params(content string, defaults []string) url.Values {
	columns := o.Columns
	if len(columns) == 0 {
		columns = defaults
	}

	params := url.Values{}
	params.Set("content", content)
	params.Set("columns", strings.Join(columns, ","))

	if o.Status != "" {
		params.Set("filter_status", TranslateStatus(o.Status))
	}
	if o.Tag != "" {
		params.Set("filter_tags", fmt.Sprintf("@tag(%s)", o.Tag))
	}
	if o.Parent != "" {
		params.Set("filter_parentid", o.Parent)
	}
	if o.Limit > 0 {
		params.Set("count", strconv.Itoa(o.Limit))
	} else {
		params.Set("count", "*")
	}
	if o.Offset > 0 {
		params.Set("start", strconv.Itoa(o.Offset))
	}
	return params
}

// Operations exposes the query verbs built on top of the API transport.
// Every call is a stateless request/transform/return cycle; batches are
// strictly sequential.
type Operations struct {
	api    API
	logger zerolog.Logger
}

// NewOperations creates an Operations layer over the given transport.
func NewOperations(api API, logger zerolog.Logger) *Operations {
	return &Operations{api: api, logger: logger}
}

// ListDevices queries devices with optional filters.
func (o *Operations) ListDevices(ctx context.Context, opts ListOptions) (*DeviceListResponse, error) {
	body, err := o.api.Get(ctx, "table.json", opts.params("devices", defaultDeviceColumns))
	if err != nil {
		return nil, err
	}
	var resp DeviceListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse device list: %w", err)
	}
	o.logger.Debug().Int("count", resp.Total()).Msg("Retrieved devices")
	return &resp, nil
}

// GetDevice fetches a single device by object ID.
func (o *Operations) GetDevice(ctx context.Context, deviceID string) (*Device, error) {
	resp, err := o.getByObjID(ctx, "devices", defaultDeviceColumns, deviceID)
	if err != nil {
		return nil, err
	}
	var list DeviceListResponse
	if err := json.Unmarshal(resp, &list); err != nil {
		return nil, fmt.Errorf("failed to parse device list: %w", err)
	}
	if len(list.Devices) == 0 {
		return nil, &NotFoundError{Message: fmt.Sprintf("device not found: %s", deviceID)}
	}
	return &list.Devices[0], nil
}

// GetDevicesByIDs fetches multiple devices sequentially. IDs that do not
// exist are silently skipped; any other error aborts the batch.
func (o *Operations) GetDevicesByIDs(ctx context.Context, deviceIDs []string) ([]Device, error) {
	devices := make([]Device, 0, len(deviceIDs))
	for _, id := range deviceIDs {
		device, err := o.GetDevice(ctx, id)
		if err != nil {
			var notFound *NotFoundError
			if errors.As(err, &notFound) {
				o.logger.Debug().Str("device_id", id).Msg("Device not found, skipping")
				continue
			}
			return nil, err
		}
		devices = append(devices, *device)
	}
	return devices, nil
}

// ListSensors queries sensors with optional filters.
func (o *Operations) ListSensors(ctx context.Context, opts ListOptions) (*SensorListResponse, error) {
	body, err := o.api.Get(ctx, "table.json", opts.params("sensors", defaultSensorColumns))
	if err != nil {
		return nil, err
	}
	var resp SensorListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse sensor list: %w", err)
	}
	o.logger.Debug().Int("count", resp.Total()).Msg("Retrieved sensors")
	return &resp, nil
}

// GetSensor fetches a single sensor by object ID.
func (o *Operations) GetSensor(ctx context.Context, sensorID string) (*Sensor, error) {
	resp, err := o.getByObjID(ctx, "sensors", defaultSensorColumns, sensorID)
	if err != nil {
		return nil, err
	}
	var list SensorListResponse
	if err := json.Unmarshal(resp, &list); err != nil {
		return nil, fmt.Errorf("failed to parse sensor list: %w", err)
	}
	if len(list.Sensors) == 0 {
		return nil, &NotFoundError{Message: fmt.Sprintf("sensor not found: %s", sensorID)}
	}
	return &list.Sensors[0], nil
}

// GetSensorsByIDs fetches multiple sensors sequentially, skipping missing
// IDs.
func (o *Operations) GetSensorsByIDs(ctx context.Context, sensorIDs []string) ([]Sensor, error) {
	sensors := make([]Sensor, 0, len(sensorIDs))
	for _, id := range sensorIDs {
		sensor, err := o.GetSensor(ctx, id)
		if err != nil {
			var notFound *NotFoundError
			if errors.As(err, &notFound) {
				o.logger.Debug().Str("sensor_id", id).Msg("Sensor not found, skipping")
				continue
			}
			return nil, err
		}
		sensors = append(sensors, *sensor)
	}
	return sensors, nil
}

// ListGroups queries groups with optional filters.
func (o *Operations) ListGroups(ctx context.Context, opts ListOptions) (*GroupListResponse, error) {
	body, err := o.api.Get(ctx, "table.json", opts.params("groups", defaultGroupColumns))
	if err != nil {
		return nil, err
	}
	var resp GroupListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse group list: %w", err)
	}
	o.logger.Debug().Int("count", resp.Total()).Msg("Retrieved groups")
	return &resp, nil
}

// GetGroup fetches a single group by object ID.
func (o *Operations) GetGroup(ctx context.Context, groupID string) (*Group, error) {
	resp, err := o.getByObjID(ctx, "groups", defaultGroupColumns, groupID)
	if err != nil {
		return nil, err
	}
	var list GroupListResponse
	if err := json.Unmarshal(resp, &list); err != nil {
		return nil, fmt.Errorf("failed to parse group list: %w", err)
	}
	if len(list.Groups) == 0 {
		return nil, &NotFoundError{Message: fmt.Sprintf("group not found: %s", groupID)}
	}
	return &list.Groups[0], nil
}

// GetGroupsByIDs fetches multiple groups sequentially, skipping missing IDs.
func (o *Operations) GetGroupsByIDs(ctx context.Context, groupIDs []string) ([]Group, error) {
	groups := make([]Group, 0, len(groupIDs))
	for _, id := range groupIDs {
		group, err := o.GetGroup(ctx, id)
		if err != nil {
			var notFound *NotFoundError
			if errors.As(err, &notFound) {
				o.logger.Debug().Str("group_id", id).Msg("Group not found, skipping")
				continue
			}
			return nil, err
		}
		groups = append(groups, *group)
	}
	return groups, nil
}

func (o *Operations) getByObjID(ctx context.Context, content string, columns []string, objID string) ([]byte, error) {
	params := url.Values{}
	params.Set("content", content)
	params.Set("columns", strings.Join(columns, ","))
	params.Set("filter_objid", objID)
	return o.api.Get(ctx, "table.json", params)
}

// MoveDevice moves a single device to the target group.
func (o *Operations) MoveDevice(ctx context.Context, deviceID, targetGroupID string) error {
	return o.api.MoveObject(ctx, deviceID, targetGroupID)
}

// MoveDevices moves devices one at a time. A failing move never aborts the
// batch: the result slice always has exactly one entry per input ID, in
// input order, with failures recorded per item.
func (o *Operations) MoveDevices(ctx context.Context, deviceIDs []string, targetGroupID string) []MoveResult {
	results := make([]MoveResult, 0, len(deviceIDs))
	for _, id := range deviceIDs {
		result := MoveResult{DeviceID: id, Success: true}
		if err := o.api.MoveObject(ctx, id, targetGroupID); err != nil {
			result.Success = false
			result.Error = err.Error()
			o.logger.Debug().Str("device_id", id).Err(err).Msg("Move failed")
		}
		results = append(results, result)
	}
	return results
}

// HistoricDataRequest describes a historic data query for one sensor.
type HistoricDataRequest struct {
	SensorID  string
	StartDate string // HistoricTimeFormat
	EndDate   string // HistoricTimeFormat
	// AvgInterval is the averaging interval in seconds; 0 requests raw
	// values.
	AvgInterval int
	// Format is "csv" or "json".
	Format string
}

// HistoricData holds a historic data payload. CSV is set for csv requests,
// JSON for json requests. Neither is normalized; historic payloads pass
// through as received.
type HistoricData struct {
	Format string
	CSV    string
	JSON   map[string]any
}

// ValidateHistoricRange checks a date range against the server-side limits:
// raw data is capped at 40 days, averaged data at 500.
func ValidateHistoricRange(startDate, endDate string, avgInterval int) error {
	start, err := time.Parse(HistoricTimeFormat, startDate)
	if err != nil {
		return fmt.Errorf("invalid start date %q (expected yyyy-MM-dd-HH-mm-ss): %w", startDate, err)
	}
	end, err := time.Parse(HistoricTimeFormat, endDate)
	if err != nil {
		return fmt.Errorf("invalid end date %q (expected yyyy-MM-dd-HH-mm-ss): %w", endDate, err)
	}

	days := int(end.Sub(start).Hours() / 24)
	if avgInterval == IntervalRaw && days > maxRawRangeDays {
		return &DateRangeError{
			Message: fmt.Sprintf("raw data is limited to %d days, use an averaging interval for longer ranges", maxRawRangeDays),
		}
	}
	if days > maxAveragedRangeDays {
		return &DateRangeError{
			Message: fmt.Sprintf("historic data is limited to %d days maximum", maxAveragedRangeDays),
		}
	}
	return nil
}

// GetSensorHistoricData retrieves time-series data for one sensor. The date
// range is validated locally before any request is issued.
func (o *Operations) GetSensorHistoricData(ctx context.Context, req HistoricDataRequest) (*HistoricData, error) {
	if req.Format != "csv" && req.Format != "json" {
		return nil, fmt.Errorf("unsupported historic data format: %s", req.Format)
	}
	if err := ValidateHistoricRange(req.StartDate, req.EndDate, req.AvgInterval); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("id", req.SensorID)
	params.Set("sdate", req.StartDate)
	params.Set("edate", req.EndDate)
	params.Set("avg", strconv.Itoa(req.AvgInterval))

	body, err := o.api.HistoricData(ctx, req.Format, params)
	if err != nil {
		return nil, err
	}

	data := &HistoricData{Format: req.Format}
	if req.Format == "csv" {
		data.CSV = string(body)
		return data, nil
	}
	if err := json.Unmarshal(body, &data.JSON); err != nil {
		return nil, fmt.Errorf("failed to parse historic data: %w", err)
	}
	return data, nil
}

// Ping verifies connectivity and credentials against the server.
func (o *Operations) Ping(ctx context.Context) error {
	return o.api.Ping(ctx)
}
