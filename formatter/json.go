package formatter

import (
	"encoding/json"

	"github.com/s0up4200/prtgctl/prtg"
)

// JSONFormatter renders records as JSON. Lists are rendered as arrays of
// objects; the list-response metadata stays out of the payload.
type JSONFormatter struct {
	pretty bool
}

// NewJSON creates a JSON formatter.
func NewJSON(opts Options) Formatter {
	return &JSONFormatter{pretty: opts.Pretty}
}

func init() {
	Register("json", NewJSON)
}

func (f *JSONFormatter) marshal(v any) (string, error) {
	var (
		data []byte
		err  error
	)
	if f.pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FormatDevices renders a device list as a JSON array.
func (f *JSONFormatter) FormatDevices(devices *prtg.DeviceListResponse) (string, error) {
	return f.marshal(devices.Devices)
}

// FormatDevice renders a single device.
func (f *JSONFormatter) FormatDevice(device *prtg.Device) (string, error) {
	return f.marshal(device)
}

// FormatSensors renders a sensor list as a JSON array.
func (f *JSONFormatter) FormatSensors(sensors *prtg.SensorListResponse) (string, error) {
	return f.marshal(sensors.Sensors)
}

// FormatSensor renders a single sensor.
func (f *JSONFormatter) FormatSensor(sensor *prtg.Sensor) (string, error) {
	return f.marshal(sensor)
}

// FormatGroups renders a group list as a JSON array.
func (f *JSONFormatter) FormatGroups(groups *prtg.GroupListResponse) (string, error) {
	return f.marshal(groups.Groups)
}

// FormatGroup renders a single group.
func (f *JSONFormatter) FormatGroup(group *prtg.Group) (string, error) {
	return f.marshal(group)
}

// FormatMoveResults renders move batch results, one record per input ID.
func (f *JSONFormatter) FormatMoveResults(results []prtg.MoveResult) (string, error) {
	return f.marshal(results)
}

// FormatError renders an error as a structured record with a kind
// discriminator. Marshaling a flat map of strings cannot fail, so the
// fallback path is unreachable in practice.
func (f *JSONFormatter) FormatError(err error) string {
	out, merr := f.marshal(map[string]map[string]string{
		"error": {
			"type":    ErrorKind(err),
			"message": err.Error(),
		},
	})
	if merr != nil {
		return err.Error()
	}
	return out
}
