package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/s0up4200/prtgctl/prtg"
)

var (
	sensorNameFilter string
	sensorStatus     string
	sensorTag        string
	sensorDevice     string
	sensorLimit      int
	sensorOffset     int
	sensorStdin      bool

	dataDays     int
	dataHours    int
	dataStart    string
	dataEnd      string
	dataInterval string
	dataFormat   string
	dataOutFile  string
	dataHead     int
)

// defaultCSVHeadRows limits CSV output on a terminal so a 7-day raw export
// does not flood the screen.
const defaultCSVHeadRows = 50

var intervalSeconds = map[string]int{
	"raw": prtg.IntervalRaw,
	"1m":  prtg.IntervalMinute,
	"1h":  prtg.IntervalHour,
	"1d":  prtg.IntervalDay,
}

// sensorCmd groups the sensor subcommands
var sensorCmd = &cobra.Command{
	Use:   "sensor",
	Short: "Manage PRTG sensors",
}

var sensorListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sensors with optional filtering",
	RunE:  runSensorList,
}

var sensorGetCmd = &cobra.Command{
	Use:   "get [sensor-id...]",
	Short: "Get detailed information about specific sensor(s)",
	RunE:  runSensorGet,
}

var sensorDataCmd = &cobra.Command{
	Use:   "data <sensor-id>",
	Short: "Get historic data for a sensor",
	Long: `Retrieve time-series measurements for a sensor over a bounded range,
raw or averaged.

The server limits historic data to 40 days for raw values and 500 days
for averaged values, and rate-limits this endpoint to 5 requests per
minute. Ranges exceeding the limits are rejected locally before any
request is issued.

Examples:
  # Last 7 days (default), last 50 rows on a terminal
  prtgctl sensor data 2460

  # Last 24 hours as JSON
  prtgctl sensor data 2460 --hours 24 --format json

  # Specific range with hourly averages, saved to a file
  prtgctl sensor data 2460 --start 2024-01-01-00-00-00 --end 2024-01-31-23-59-59 --interval 1h --output-file data.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runSensorData,
}

func init() {
	rootCmd.AddCommand(sensorCmd)
	sensorCmd.AddCommand(sensorListCmd)
	sensorCmd.AddCommand(sensorGetCmd)
	sensorCmd.AddCommand(sensorDataCmd)

	sensorListCmd.Flags().StringVar(&sensorNameFilter, "filter", "", "filter by sensor name (regex, applied client-side)")
	sensorListCmd.Flags().StringVar(&sensorStatus, "status", "", "filter by status (up, down, warning, paused, unusual, unknown)")
	sensorListCmd.Flags().StringVar(&sensorTag, "tag", "", "filter by tag")
	sensorListCmd.Flags().StringVar(&sensorDevice, "device", "", "filter by parent device ID")
	sensorListCmd.Flags().IntVar(&sensorLimit, "limit", 0, "limit number of results (0 = all)")
	sensorListCmd.Flags().IntVar(&sensorOffset, "offset", 0, "offset for pagination")

	sensorGetCmd.Flags().BoolVar(&sensorStdin, "stdin", false, "read sensor IDs from stdin (one per line)")

	sensorDataCmd.Flags().IntVar(&dataDays, "days", 0, "get last N days of data (default: 7)")
	sensorDataCmd.Flags().IntVar(&dataHours, "hours", 0, "get last N hours of data")
	sensorDataCmd.Flags().StringVar(&dataStart, "start", "", "start date/time (format: yyyy-MM-dd-HH-mm-ss)")
	sensorDataCmd.Flags().StringVar(&dataEnd, "end", "", "end date/time (format: yyyy-MM-dd-HH-mm-ss)")
	sensorDataCmd.Flags().StringVar(&dataInterval, "interval", "raw", "averaging interval: raw, 1m, 1h or 1d")
	sensorDataCmd.Flags().StringVar(&dataFormat, "format", "csv", "output format: csv or json")
	sensorDataCmd.Flags().StringVar(&dataOutFile, "output-file", "", "save to file instead of stdout")
	sensorDataCmd.Flags().IntVar(&dataHead, "head", -1, "limit terminal CSV output to last N rows (0 = all)")
}

func runSensorList(cmd *cobra.Command, args []string) error {
	if err := initializeApp(); err != nil {
		return err
	}

	logger.Info().Msg("Fetching sensors")
	sensors, err := operations.ListSensors(cmd.Context(), prtg.ListOptions{
		Status: sensorStatus,
		Tag:    sensorTag,
		Parent: sensorDevice,
		Limit:  sensorLimit,
		Offset: sensorOffset,
	})
	if err != nil {
		return err
	}

	if sensorNameFilter != "" {
		pattern, err := regexp.Compile(sensorNameFilter)
		if err != nil {
			return fmt.Errorf("invalid filter regex: %w", err)
		}
		matched := sensors.Sensors[:0]
		for _, s := range sensors.Sensors {
			if pattern.MatchString(s.Name) {
				matched = append(matched, s)
			}
		}
		sensors.Sensors = matched
	}

	logger.Info().Int("count", sensors.Total()).Msg("Found sensors")

	out, err := output.FormatSensors(sensors)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

func runSensorGet(cmd *cobra.Command, args []string) error {
	if err := initializeApp(); err != nil {
		return err
	}

	ids, err := collectIDs(args, sensorStdin)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return fmt.Errorf("no sensor IDs provided")
	}

	if len(ids) == 1 {
		sensor, err := operations.GetSensor(cmd.Context(), ids[0])
		if err != nil {
			return err
		}
		out, err := output.FormatSensor(sensor)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	}

	sensors, err := operations.GetSensorsByIDs(cmd.Context(), ids)
	if err != nil {
		return err
	}
	if len(sensors) == 0 {
		logger.Warn().Msg("No sensors found")
		return nil
	}

	out, err := output.FormatSensors(&prtg.SensorListResponse{Sensors: sensors})
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

func runSensorData(cmd *cobra.Command, args []string) error {
	if err := initializeApp(); err != nil {
		return err
	}

	start, end, err := historicRange()
	if err != nil {
		return err
	}
	avg, ok := intervalSeconds[strings.ToLower(dataInterval)]
	if !ok {
		return fmt.Errorf("invalid interval %q (must be raw, 1m, 1h or 1d)", dataInterval)
	}
	format := strings.ToLower(dataFormat)

	logger.Info().
		Str("start", start).
		Str("end", end).
		Str("interval", dataInterval).
		Str("format", format).
		Msg("Fetching sensor data")

	result, err := operations.GetSensorHistoricData(cmd.Context(), prtg.HistoricDataRequest{
		SensorID:    args[0],
		StartDate:   start,
		EndDate:     end,
		AvgInterval: avg,
		Format:      format,
	})
	if err != nil {
		return err
	}

	var out string
	if result.Format == "csv" {
		out = result.CSV
		if dataOutFile == "" && isatty.IsTerminal(os.Stdout.Fd()) {
			out = limitCSVRows(out)
		}
	} else {
		var data []byte
		if pretty {
			data, err = json.MarshalIndent(result.JSON, "", "  ")
		} else {
			data, err = json.Marshal(result.JSON)
		}
		if err != nil {
			return fmt.Errorf("failed to render historic data: %w", err)
		}
		out = string(data)
	}

	if dataOutFile != "" {
		if err := os.WriteFile(dataOutFile, []byte(out), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", dataOutFile, err)
		}
		logger.Info().Str("file", dataOutFile).Msg("Data saved")
		return nil
	}

	fmt.Println(strings.TrimRight(out, "\n"))
	return nil
}

// historicRange computes the query window: explicit dates win, then
// --days/--hours relative windows, then the default last 7 days. A
// half-specified explicit range is an error rather than a silent fallback.
func historicRange() (string, string, error) {
	if dataStart != "" || dataEnd != "" {
		if dataStart == "" || dataEnd == "" {
			return "", "", fmt.Errorf("--start and --end must be given together")
		}
		return dataStart, dataEnd, nil
	}

	end := time.Now()
	var start time.Time
	switch {
	case dataDays > 0:
		start = end.AddDate(0, 0, -dataDays)
	case dataHours > 0:
		start = end.Add(-time.Duration(dataHours) * time.Hour)
	default:
		start = end.AddDate(0, 0, -7)
	}
	return start.Format(prtg.HistoricTimeFormat), end.Format(prtg.HistoricTimeFormat), nil
}

// limitCSVRows keeps the header plus the last N data rows when printing
// CSV to a terminal.
func limitCSVRows(csv string) string {
	limit := dataHead
	if limit < 0 {
		limit = defaultCSVHeadRows
	}
	if limit == 0 {
		return csv
	}

	lines := strings.Split(strings.TrimRight(csv, "\n"), "\n")
	if len(lines) <= limit+1 {
		return csv
	}

	header := lines[0]
	rows := lines[1:]
	logger.Warn().
		Int("shown", limit).
		Int("total", len(rows)).
		Msg("CSV output limited, use --head N or --output-file for more")
	return strings.Join(append([]string{header}, rows[len(rows)-limit:]...), "\n")
}
