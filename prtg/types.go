package prtg

import "encoding/json"

// ObjectInfo is the shape shared by every monitored PRTG entity.
type ObjectInfo struct {
	ObjID string   `json:"objid"`
	Name  string   `json:"name"`
	Tags  []string `json:"tags"`
}

// StatusInfo carries the status columns shared by devices and sensors.
type StatusInfo struct {
	Status    string `json:"status"`
	StatusRaw string `json:"status_raw,omitempty"`
	Message   string `json:"message"`
}

// PriorityInfo carries the priority columns shared by devices and sensors.
type PriorityInfo struct {
	Priority    string `json:"priority,omitempty"`
	PriorityRaw string `json:"priority_raw,omitempty"`
}

// Device is a monitored device in the PRTG tree.
type Device struct {
	ObjectInfo
	StatusInfo
	PriorityInfo

	Device   string `json:"device,omitempty"`
	Host     string `json:"host,omitempty"`
	Probe    string `json:"probe,omitempty"`
	Group    string `json:"group,omitempty"`
	ParentID string `json:"parentid,omitempty"`

	Icon     string `json:"icon,omitempty"`
	Location string `json:"location,omitempty"`
	Comments string `json:"comments,omitempty"`

	// Sensor counts as reported by the server. The string form is kept
	// verbatim; the *int convenience fields below are derived by a
	// best-effort parse and stay nil when the column is absent or junk.
	UpSens          string `json:"upsens,omitempty"`
	DownSens        string `json:"downsens,omitempty"`
	WarnSens        string `json:"warnsens,omitempty"`
	PausedSens      string `json:"pausedsens,omitempty"`
	UnusualSens     string `json:"unusualsens,omitempty"`
	UndefinedSens   string `json:"undefinedsens,omitempty"`
	PartialDownSens string `json:"partialdownsens,omitempty"`

	SensorCountUp      *int `json:"sensor_count_up,omitempty"`
	SensorCountDown    *int `json:"sensor_count_down,omitempty"`
	SensorCountWarning *int `json:"sensor_count_warning,omitempty"`
	SensorCountPaused  *int `json:"sensor_count_paused,omitempty"`
	SensorCountUnusual *int `json:"sensor_count_unusual,omitempty"`

	LastUp          string `json:"lastup,omitempty"`
	LastDown        string `json:"lastdown,omitempty"`
	Uptime          string `json:"uptime,omitempty"`
	Downtime        string `json:"downtime,omitempty"`
	UptimeSeconds   *int   `json:"uptime_seconds,omitempty"`
	DowntimeSeconds *int   `json:"downtime_seconds,omitempty"`
	UptimePercent   string `json:"uptime_percent,omitempty"`

	Schedule     string   `json:"schedule,omitempty"`
	AccessRights string   `json:"access_rights,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
}

type deviceJSON struct {
	ObjID flexString `json:"objid"`
	Name  flexString `json:"name"`
	Tags  tagList    `json:"tags"`

	Status    flexString `json:"status"`
	StatusRaw flexString `json:"status_raw"`
	Message   flexString `json:"message"`

	Priority    flexString `json:"priority"`
	PriorityRaw flexString `json:"priority_raw"`

	Device   flexString `json:"device"`
	Host     flexString `json:"host"`
	Probe    flexString `json:"probe"`
	Group    flexString `json:"group"`
	ParentID flexString `json:"parentid"`

	Icon     flexString `json:"icon"`
	Location flexString `json:"location"`
	Comments flexString `json:"comments"`

	UpSens          flexString `json:"upsens"`
	DownSens        flexString `json:"downsens"`
	WarnSens        flexString `json:"warnsens"`
	PausedSens      flexString `json:"pausedsens"`
	UnusualSens     flexString `json:"unusualsens"`
	UndefinedSens   flexString `json:"undefinedsens"`
	PartialDownSens flexString `json:"partialdownsens"`

	LastUp          flexString `json:"lastup"`
	LastDown        flexString `json:"lastdown"`
	Uptime          flexString `json:"uptime"`
	Downtime        flexString `json:"downtime"`
	UptimeSeconds   flexString `json:"uptime_seconds"`
	DowntimeSeconds flexString `json:"downtime_seconds"`
	UptimePercent   flexString `json:"uptime_percent"`

	Schedule     flexString `json:"schedule"`
	AccessRights flexString `json:"access_rights"`
	Dependencies tagList    `json:"dependencies"`
}

// UnmarshalJSON applies the lenient coercion rules: IDs become strings,
// tags are split, unknown columns are dropped, counts are derived where
// they parse.
func (d *Device) UnmarshalJSON(data []byte) error {
	var raw deviceJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*d = Device{
		ObjectInfo: ObjectInfo{
			ObjID: string(raw.ObjID),
			Name:  string(raw.Name),
			Tags:  raw.Tags,
		},
		StatusInfo: StatusInfo{
			Status:    string(raw.Status),
			StatusRaw: string(raw.StatusRaw),
			Message:   string(raw.Message),
		},
		PriorityInfo: PriorityInfo{
			Priority:    string(raw.Priority),
			PriorityRaw: string(raw.PriorityRaw),
		},
		Device:          string(raw.Device),
		Host:            string(raw.Host),
		Probe:           string(raw.Probe),
		Group:           string(raw.Group),
		ParentID:        string(raw.ParentID),
		Icon:            string(raw.Icon),
		Location:        string(raw.Location),
		Comments:        string(raw.Comments),
		UpSens:          string(raw.UpSens),
		DownSens:        string(raw.DownSens),
		WarnSens:        string(raw.WarnSens),
		PausedSens:      string(raw.PausedSens),
		UnusualSens:     string(raw.UnusualSens),
		UndefinedSens:   string(raw.UndefinedSens),
		PartialDownSens: string(raw.PartialDownSens),
		LastUp:          string(raw.LastUp),
		LastDown:        string(raw.LastDown),
		Uptime:          string(raw.Uptime),
		Downtime:        string(raw.Downtime),
		UptimeSeconds:   parseCount(string(raw.UptimeSeconds)),
		DowntimeSeconds: parseCount(string(raw.DowntimeSeconds)),
		UptimePercent:   string(raw.UptimePercent),
		Schedule:        string(raw.Schedule),
		AccessRights:    string(raw.AccessRights),
		Dependencies:    raw.Dependencies,
	}
	if d.Tags == nil {
		d.Tags = []string{}
	}
	d.SensorCountUp = parseCount(d.UpSens)
	d.SensorCountDown = parseCount(d.DownSens)
	d.SensorCountWarning = parseCount(d.WarnSens)
	d.SensorCountPaused = parseCount(d.PausedSens)
	d.SensorCountUnusual = parseCount(d.UnusualSens)
	return nil
}

// Sensor is a single measurement point attached to a device.
type Sensor struct {
	ObjectInfo
	StatusInfo
	PriorityInfo

	Sensor   string `json:"sensor,omitempty"`
	Device   string `json:"device,omitempty"`
	Group    string `json:"group,omitempty"`
	Probe    string `json:"probe,omitempty"`
	ParentID string `json:"parentid,omitempty"`

	SensorType  string `json:"sensor_type,omitempty"`
	Interval    string `json:"interval,omitempty"`
	LastValue   string `json:"lastvalue,omitempty"`
	LastMessage string `json:"lastmessage,omitempty"`

	Downtime        string `json:"downtime,omitempty"`
	Uptime          string `json:"uptime,omitempty"`
	DowntimeSeconds *int   `json:"downtime_seconds,omitempty"`
	UptimeSeconds   *int   `json:"uptime_seconds,omitempty"`
	DowntimePercent string `json:"downtime_percent,omitempty"`
	UptimePercent   string `json:"uptime_percent,omitempty"`

	LastUp       string   `json:"lastup,omitempty"`
	LastDown     string   `json:"lastdown,omitempty"`
	LastCheck    string   `json:"lastcheck,omitempty"`
	Icon         string   `json:"icon,omitempty"`
	Schedule     string   `json:"schedule,omitempty"`
	AccessRights string   `json:"access_rights,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
}

type sensorJSON struct {
	ObjID flexString `json:"objid"`
	Name  flexString `json:"name"`
	Tags  tagList    `json:"tags"`

	Status    flexString `json:"status"`
	StatusRaw flexString `json:"status_raw"`
	Message   flexString `json:"message"`

	Priority    flexString `json:"priority"`
	PriorityRaw flexString `json:"priority_raw"`

	Sensor   flexString `json:"sensor"`
	Device   flexString `json:"device"`
	Group    flexString `json:"group"`
	Probe    flexString `json:"probe"`
	ParentID flexString `json:"parentid"`

	SensorType  flexString `json:"sensor_type"`
	Interval    flexString `json:"interval"`
	LastValue   flexString `json:"lastvalue"`
	LastMessage flexString `json:"lastmessage"`

	Downtime        flexString `json:"downtime"`
	Uptime          flexString `json:"uptime"`
	DowntimeSeconds flexString `json:"downtime_seconds"`
	UptimeSeconds   flexString `json:"uptime_seconds"`
	DowntimePercent flexString `json:"downtime_percent"`
	UptimePercent   flexString `json:"uptime_percent"`

	LastUp       flexString `json:"lastup"`
	LastDown     flexString `json:"lastdown"`
	LastCheck    flexString `json:"lastcheck"`
	Icon         flexString `json:"icon"`
	Schedule     flexString `json:"schedule"`
	AccessRights flexString `json:"access_rights"`
	Dependencies tagList    `json:"dependencies"`
}

// UnmarshalJSON applies the same coercion rules as Device.
func (s *Sensor) UnmarshalJSON(data []byte) error {
	var raw sensorJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Sensor{
		ObjectInfo: ObjectInfo{
			ObjID: string(raw.ObjID),
			Name:  string(raw.Name),
			Tags:  raw.Tags,
		},
		StatusInfo: StatusInfo{
			Status:    string(raw.Status),
			StatusRaw: string(raw.StatusRaw),
			Message:   string(raw.Message),
		},
		PriorityInfo: PriorityInfo{
			Priority:    string(raw.Priority),
			PriorityRaw: string(raw.PriorityRaw),
		},
		Sensor:          string(raw.Sensor),
		Device:          string(raw.Device),
		Group:           string(raw.Group),
		Probe:           string(raw.Probe),
		ParentID:        string(raw.ParentID),
		SensorType:      string(raw.SensorType),
		Interval:        string(raw.Interval),
		LastValue:       string(raw.LastValue),
		LastMessage:     string(raw.LastMessage),
		Downtime:        string(raw.Downtime),
		Uptime:          string(raw.Uptime),
		DowntimeSeconds: parseCount(string(raw.DowntimeSeconds)),
		UptimeSeconds:   parseCount(string(raw.UptimeSeconds)),
		DowntimePercent: string(raw.DowntimePercent),
		UptimePercent:   string(raw.UptimePercent),
		LastUp:          string(raw.LastUp),
		LastDown:        string(raw.LastDown),
		LastCheck:       string(raw.LastCheck),
		Icon:            string(raw.Icon),
		Schedule:        string(raw.Schedule),
		AccessRights:    string(raw.AccessRights),
		Dependencies:    raw.Dependencies,
	}
	if s.Tags == nil {
		s.Tags = []string{}
	}
	return nil
}

// Group is a container in the PRTG hierarchy. Groups hold devices and other
// groups; they carry no status or priority columns of their own.
type Group struct {
	ObjID     string `json:"objid"`
	Name      string `json:"name"`
	Probe     string `json:"probe"`
	GroupPath string `json:"group"`
	ParentID  string `json:"parentid"`
}

type groupJSON struct {
	ObjID     flexString `json:"objid"`
	Name      flexString `json:"name"`
	Probe     flexString `json:"probe"`
	GroupPath flexString `json:"group"`
	ParentID  flexString `json:"parentid"`
}

// UnmarshalJSON coerces the ID columns to strings and trims the rest.
func (g *Group) UnmarshalJSON(data []byte) error {
	var raw groupJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*g = Group{
		ObjID:     string(raw.ObjID),
		Name:      string(raw.Name),
		Probe:     string(raw.Probe),
		GroupPath: string(raw.GroupPath),
		ParentID:  string(raw.ParentID),
	}
	return nil
}

// DeviceListResponse is the decoded table.json payload for devices.
// TreeSize is the server-side full count and may exceed the returned page.
type DeviceListResponse struct {
	PrtgVersion string   `json:"prtg-version,omitempty"`
	TreeSize    *int     `json:"treesize,omitempty"`
	Devices     []Device `json:"devices"`
}

// Total is the number of devices actually returned, independent of TreeSize.
func (r *DeviceListResponse) Total() int { return len(r.Devices) }

// SensorListResponse is the decoded table.json payload for sensors.
type SensorListResponse struct {
	PrtgVersion string   `json:"prtg-version,omitempty"`
	TreeSize    *int     `json:"treesize,omitempty"`
	Sensors     []Sensor `json:"sensors"`
}

// Total is the number of sensors actually returned.
func (r *SensorListResponse) Total() int { return len(r.Sensors) }

// GroupListResponse is the decoded table.json payload for groups.
type GroupListResponse struct {
	PrtgVersion string  `json:"prtg-version,omitempty"`
	TreeSize    *int    `json:"treesize,omitempty"`
	Groups      []Group `json:"groups"`
}

// Total is the number of groups actually returned.
func (r *GroupListResponse) Total() int { return len(r.Groups) }

// MoveResult records the outcome of a single device move within a batch.
type MoveResult struct {
	DeviceID string `json:"device_id"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
}
