// Package formatter renders query results for output. Formatters are
// registered under a name so new output formats can be added without
// touching the call sites.
package formatter

import (
	"errors"
	"fmt"
	"sort"

	"github.com/s0up4200/prtgctl/prtg"
)

// Formatter renders typed records into an output string.
type Formatter interface {
	FormatDevices(devices *prtg.DeviceListResponse) (string, error)
	FormatDevice(device *prtg.Device) (string, error)
	FormatSensors(sensors *prtg.SensorListResponse) (string, error)
	FormatSensor(sensor *prtg.Sensor) (string, error)
	FormatGroups(groups *prtg.GroupListResponse) (string, error)
	FormatGroup(group *prtg.Group) (string, error)
	FormatMoveResults(results []prtg.MoveResult) (string, error)
	FormatError(err error) string
}

// Options configure a formatter instance.
type Options struct {
	// Pretty enables indented output where the format supports it.
	Pretty bool
}

// Constructor builds a formatter from options.
type Constructor func(Options) Formatter

var registry = map[string]Constructor{}

// Register adds a named formatter constructor. Later registrations under
// the same name win.
func Register(name string, ctor Constructor) {
	registry[name] = ctor
}

// New creates a formatter by name.
func New(name string, opts Options) (Formatter, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown output format: %s (available: %v)", name, Names())
	}
	return ctor(opts), nil
}

// Names lists the registered formatter names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// kinder is implemented by every structured error in this tool.
type kinder interface {
	error
	Kind() string
}

// ErrorKind returns the kind discriminator for an error, or "Error" for
// anything unclassified.
func ErrorKind(err error) string {
	var k kinder
	if errors.As(err, &k) {
		return k.Kind()
	}
	return "Error"
}
