package prtg

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeviceUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Device
	}{
		{
			name: "numeric objid becomes string",
			body: `{"objid": 2001, "name": "web-01", "status": "Up"}`,
			want: Device{
				ObjectInfo: ObjectInfo{ObjID: "2001", Name: "web-01", Tags: []string{}},
				StatusInfo: StatusInfo{Status: "Up"},
			},
		},
		{
			name: "string objid stays string",
			body: `{"objid": "2001", "name": "web-01"}`,
			want: Device{
				ObjectInfo: ObjectInfo{ObjID: "2001", Name: "web-01", Tags: []string{}},
			},
		},
		{
			name: "string fields are trimmed",
			body: `{"objid": 1, "name": "  web-01  ", "host": " 10.0.0.1 "}`,
			want: Device{
				ObjectInfo: ObjectInfo{ObjID: "1", Name: "web-01", Tags: []string{}},
				Host:       "10.0.0.1",
			},
		},
		{
			name: "unknown columns are dropped",
			body: `{"objid": 1, "name": "web-01", "somefuturefield": {"nested": true}}`,
			want: Device{
				ObjectInfo: ObjectInfo{ObjID: "1", Name: "web-01", Tags: []string{}},
			},
		},
		{
			name: "null values decode to empty",
			body: `{"objid": 1, "name": null, "message": null}`,
			want: Device{
				ObjectInfo: ObjectInfo{ObjID: "1", Tags: []string{}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Device
			require.NoError(t, json.Unmarshal([]byte(tt.body), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeviceTags(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "space delimited string is split",
			body: `{"objid": 1, "tags": "prod linux  web"}`,
			want: []string{"prod", "linux", "web"},
		},
		{
			name: "surrounding whitespace is dropped",
			body: `{"objid": 1, "tags": "  a   b  "}`,
			want: []string{"a", "b"},
		},
		{
			name: "empty string yields empty list",
			body: `{"objid": 1, "tags": ""}`,
			want: []string{},
		},
		{
			name: "absent tags yields empty list",
			body: `{"objid": 1}`,
			want: []string{},
		},
		{
			name: "array passes through",
			body: `{"objid": 1, "tags": ["prod", "linux"]}`,
			want: []string{"prod", "linux"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Device
			require.NoError(t, json.Unmarshal([]byte(tt.body), &got))
			assert.Equal(t, tt.want, got.Tags)
		})
	}
}

func TestDeviceSensorCounts(t *testing.T) {
	t.Run("numeric counts are derived", func(t *testing.T) {
		body := `{"objid": 1, "upsens": "12", "downsens": 3, "warnsens": "0"}`
		var got Device
		require.NoError(t, json.Unmarshal([]byte(body), &got))

		assert.Equal(t, "12", got.UpSens)
		require.NotNil(t, got.SensorCountUp)
		assert.Equal(t, 12, *got.SensorCountUp)
		require.NotNil(t, got.SensorCountDown)
		assert.Equal(t, 3, *got.SensorCountDown)
		require.NotNil(t, got.SensorCountWarning)
		assert.Equal(t, 0, *got.SensorCountWarning)
	})

	t.Run("non numeric counts keep raw string only", func(t *testing.T) {
		body := `{"objid": 1, "upsens": "12 of 15"}`
		var got Device
		require.NoError(t, json.Unmarshal([]byte(body), &got))

		assert.Equal(t, "12 of 15", got.UpSens)
		assert.Nil(t, got.SensorCountUp)
	})

	t.Run("absent counts stay nil", func(t *testing.T) {
		var got Device
		require.NoError(t, json.Unmarshal([]byte(`{"objid": 1}`), &got))
		assert.Nil(t, got.SensorCountUp)
		assert.Nil(t, got.SensorCountDown)
	})
}

func TestSensorUnmarshal(t *testing.T) {
	body := `{
		"objid": 2460,
		"name": "Ping",
		"sensor": "Ping",
		"device": "web-01",
		"status": "Down",
		"status_raw": 5,
		"lastvalue": "23 ms",
		"tags": "ping latency",
		"uptime_seconds": "86400"
	}`

	var got Sensor
	require.NoError(t, json.Unmarshal([]byte(body), &got))

	assert.Equal(t, "2460", got.ObjID)
	assert.Equal(t, "Ping", got.Name)
	assert.Equal(t, "Down", got.Status)
	assert.Equal(t, "5", got.StatusRaw)
	assert.Equal(t, "23 ms", got.LastValue)
	assert.Equal(t, []string{"ping", "latency"}, got.Tags)
	require.NotNil(t, got.UptimeSeconds)
	assert.Equal(t, 86400, *got.UptimeSeconds)
}

func TestGroupUnmarshal(t *testing.T) {
	body := `{"objid": 5666, "name": "Linux Servers", "probe": "Local Probe", "group": "Root", "parentid": 1}`

	var got Group
	require.NoError(t, json.Unmarshal([]byte(body), &got))

	assert.Equal(t, Group{
		ObjID:     "5666",
		Name:      "Linux Servers",
		Probe:     "Local Probe",
		GroupPath: "Root",
		ParentID:  "1",
	}, got)
}

func TestListResponseTotal(t *testing.T) {
	body := `{
		"prtg-version": "24.1.92.1234",
		"treesize": 250,
		"devices": [
			{"objid": 1, "name": "a"},
			{"objid": 2, "name": "b"}
		]
	}`

	var resp DeviceListResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))

	// Total reflects the returned page, not the server-side tree size.
	assert.Equal(t, 2, resp.Total())
	require.NotNil(t, resp.TreeSize)
	assert.Equal(t, 250, *resp.TreeSize)
	assert.Equal(t, "24.1.92.1234", resp.PrtgVersion)
}

func TestDeviceMarshalRoundTrip(t *testing.T) {
	body := `{"objid": 2001, "name": "web-01", "tags": "prod linux"}`

	var device Device
	require.NoError(t, json.Unmarshal([]byte(body), &device))

	out, err := json.Marshal(&device)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"objid":"2001"`)
	assert.Contains(t, string(out), `"tags":["prod","linux"]`)
}
