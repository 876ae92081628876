package cmd

import (
	"fmt"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/s0up4200/prtgctl/prtg"
)

var (
	deviceNameFilter string
	deviceStatus     string
	deviceTag        string
	deviceGroup      string
	deviceLimit      int
	deviceOffset     int
	deviceStdin      bool
	moveTargetGroup  string
	moveStdin        bool
	moveDryRun       bool
)

// deviceCmd groups the device subcommands
var deviceCmd = &cobra.Command{
	Use:   "device",
	Short: "Manage PRTG devices",
}

var deviceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List devices with optional filtering",
	RunE:  runDeviceList,
}

var deviceGetCmd = &cobra.Command{
	Use:   "get [device-id...]",
	Short: "Get detailed information about specific device(s)",
	RunE:  runDeviceGet,
}

var deviceMoveCmd = &cobra.Command{
	Use:   "move [device-id...]",
	Short: "Move device(s) to a different group",
	Long: `Move one or more devices to a different group.

A failing move never aborts the batch: every device gets a result record
and the command exits with code 3 when at least one move failed.

Examples:
  # Move a single device
  prtgctl device move 2001 --target-group 5666

  # Move devices from stdin
  prtgctl device list --filter "^test-" | jq -r '.[].objid' | prtgctl device move --stdin --target-group 5666`,
	RunE: runDeviceMove,
}

func init() {
	rootCmd.AddCommand(deviceCmd)
	deviceCmd.AddCommand(deviceListCmd)
	deviceCmd.AddCommand(deviceGetCmd)
	deviceCmd.AddCommand(deviceMoveCmd)

	deviceListCmd.Flags().StringVar(&deviceNameFilter, "filter", "", "filter by device name (regex, applied client-side)")
	deviceListCmd.Flags().StringVar(&deviceStatus, "status", "", "filter by status (up, down, warning, paused, unusual, unknown)")
	deviceListCmd.Flags().StringVar(&deviceTag, "tag", "", "filter by tag")
	deviceListCmd.Flags().StringVar(&deviceGroup, "group", "", "filter by parent group ID")
	deviceListCmd.Flags().IntVar(&deviceLimit, "limit", 0, "limit number of results (0 = all)")
	deviceListCmd.Flags().IntVar(&deviceOffset, "offset", 0, "offset for pagination")

	deviceGetCmd.Flags().BoolVar(&deviceStdin, "stdin", false, "read device IDs from stdin (one per line)")

	deviceMoveCmd.Flags().BoolVar(&moveStdin, "stdin", false, "read device IDs from stdin (one per line)")
	deviceMoveCmd.Flags().StringVar(&moveTargetGroup, "target-group", "", "target group ID to move devices to")
	deviceMoveCmd.Flags().BoolVar(&moveDryRun, "dry-run", false, "show what would be moved without actually moving")
	_ = deviceMoveCmd.MarkFlagRequired("target-group")
}

func runDeviceList(cmd *cobra.Command, args []string) error {
	if err := initializeApp(); err != nil {
		return err
	}

	logger.Info().Msg("Fetching devices")
	devices, err := operations.ListDevices(cmd.Context(), prtg.ListOptions{
		Status: deviceStatus,
		Tag:    deviceTag,
		Parent: deviceGroup,
		Limit:  deviceLimit,
		Offset: deviceOffset,
	})
	if err != nil {
		return err
	}

	// The PRTG API has no regex filtering, so the name filter runs here.
	if deviceNameFilter != "" {
		pattern, err := regexp.Compile(deviceNameFilter)
		if err != nil {
			return fmt.Errorf("invalid filter regex: %w", err)
		}
		matched := devices.Devices[:0]
		for _, d := range devices.Devices {
			if pattern.MatchString(d.Name) {
				matched = append(matched, d)
			}
		}
		devices.Devices = matched
	}

	logger.Info().Int("count", devices.Total()).Msg("Found devices")

	out, err := output.FormatDevices(devices)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

func runDeviceGet(cmd *cobra.Command, args []string) error {
	if err := initializeApp(); err != nil {
		return err
	}

	ids, err := collectIDs(args, deviceStdin)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return fmt.Errorf("no device IDs provided")
	}

	if len(ids) == 1 {
		device, err := operations.GetDevice(cmd.Context(), ids[0])
		if err != nil {
			return err
		}
		out, err := output.FormatDevice(device)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	}

	devices, err := operations.GetDevicesByIDs(cmd.Context(), ids)
	if err != nil {
		return err
	}
	if len(devices) == 0 {
		logger.Warn().Msg("No devices found")
		return nil
	}

	out, err := output.FormatDevices(&prtg.DeviceListResponse{Devices: devices})
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

func runDeviceMove(cmd *cobra.Command, args []string) error {
	if err := initializeApp(); err != nil {
		return err
	}

	ids, err := collectIDs(args, moveStdin)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return fmt.Errorf("no device IDs provided")
	}

	if moveDryRun {
		logger.Warn().Msg("DRY-RUN MODE: no changes will be made")
		for _, id := range ids {
			fmt.Printf("Would move device %s to group %s\n", id, moveTargetGroup)
		}
		return nil
	}

	logger.Info().Int("count", len(ids)).Str("target_group", moveTargetGroup).Msg("Moving devices")
	results := operations.MoveDevices(cmd.Context(), ids, moveTargetGroup)

	out, err := output.FormatMoveResults(results)
	if err != nil {
		return err
	}
	fmt.Println(out)

	var failed int
	for _, r := range results {
		if !r.Success {
			failed++
		}
	}
	logger.Info().Int("moved", len(results)-failed).Int("failed", failed).Msg("Move batch finished")
	if failed > 0 {
		return &partialFailureError{failed: failed, total: len(results)}
	}
	return nil
}
