package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/prtgctl/config"
	"github.com/s0up4200/prtgctl/formatter"
	"github.com/s0up4200/prtgctl/prtg"
)

var (
	cfgFile     string
	serverURL   string
	apiToken    string
	profileName string
	noVerifySSL bool
	outputName  string
	pretty      bool
	verbose     bool
	debug       bool

	logger     zerolog.Logger
	connection *config.ConnectionProfile
	operations *prtg.Operations
	output     formatter.Formatter

	version   = "dev"
	buildTime = "unknown"
)

// Exit codes consumed by scripts wrapping this tool. Keep them stable.
const (
	exitGeneric        = 1
	exitClientError    = 2
	exitPartialFailure = 3
	exitNotFound       = 4
	exitDateRange      = 5
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "prtgctl",
	Short: "Command-line interface for PRTG Network Monitor",
	Long: `prtgctl is a CLI for the PRTG Network Monitor API. It queries devices,
groups and sensors, retrieves historic sensor data, and moves devices
between groups.

Connection settings resolve with the precedence: command-line flags >
environment variables (PRTG_URL, PRTG_API_TOKEN, ...) > ./.env file >
profile section in the config file (~/.config/prtg/config).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// SetVersion records the build metadata injected by the linker.
func SetVersion(v, bt string) {
	version = v
	buildTime = bt
}

// Execute runs the root command and maps the returned error onto the exit
// code contract.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printError(err)
		os.Exit(exitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.config/prtg/config)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "url", "", "PRTG server URL")
	rootCmd.PersistentFlags().StringVar(&apiToken, "api-token", "", "API authentication token")
	rootCmd.PersistentFlags().StringVar(&profileName, "profile", "", "profile name from config file")
	rootCmd.PersistentFlags().BoolVar(&noVerifySSL, "no-verify-ssl", false, "disable SSL certificate verification")
	rootCmd.PersistentFlags().StringVar(&outputName, "output", "", "output format (default json)")
	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", true, "pretty-print JSON output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (to stderr)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "debug mode (show API calls)")

	rootCmd.AddCommand(versionCmd)
}

// initializeApp resolves the connection profile and builds the client,
// operations layer and output formatter. Commands that talk to the server
// call this at the top of their RunE; config management commands do not.
func initializeApp() error {
	logger = setupLogger()

	resolver, err := config.NewResolver(configPath())
	if err != nil {
		return err
	}

	var verify *bool
	if noVerifySSL {
		v := false
		verify = &v
	}

	connection, err = resolver.Resolve(config.Overrides{
		Profile:   profileName,
		URL:       serverURL,
		APIToken:  apiToken,
		VerifySSL: verify,
	})
	if err != nil {
		return err
	}

	output, err = formatter.New(outputFormat(), formatter.Options{Pretty: pretty})
	if err != nil {
		return err
	}

	client := prtg.NewClient(connection, logger)
	operations = prtg.NewOperations(client, logger)

	logger.Info().
		Str("profile", connection.ProfileName).
		Str("url", connection.ServerURL).
		Msg("Using connection profile")
	if !connection.VerifySSL {
		logger.Warn().Msg("SSL verification disabled")
	}

	return nil
}

func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return os.Getenv("PRTG_CONFIG")
}

func outputFormat() string {
	if outputName != "" {
		return outputName
	}
	if env := os.Getenv("PRTG_OUTPUT_FORMAT"); env != "" {
		return env
	}
	return "json"
}

// setupLogger configures the zerolog console logger. Info lines only show
// with --verbose, API call traces with --debug.
func setupLogger() zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.InfoLevel
	}
	if debug {
		level = zerolog.DebugLevel
	}

	out := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// partialFailureError signals that some items of a batch failed while the
// batch itself ran to completion.
type partialFailureError struct {
	failed int
	total  int
}

func (e *partialFailureError) Error() string {
	return fmt.Sprintf("%d of %d operations failed", e.failed, e.total)
}

func exitCode(err error) int {
	var dateRange *prtg.DateRangeError
	if errors.As(err, &dateRange) {
		return exitDateRange
	}
	var notFound *prtg.NotFoundError
	if errors.As(err, &notFound) {
		return exitNotFound
	}
	var partial *partialFailureError
	if errors.As(err, &partial) {
		return exitPartialFailure
	}
	var authErr *prtg.AuthenticationError
	var apiErr *prtg.APIError
	var transportErr *prtg.TransportError
	if errors.As(err, &authErr) || errors.As(err, &apiErr) || errors.As(err, &transportErr) {
		return exitClientError
	}
	return exitGeneric
}

func printError(err error) {
	var cfgErr *config.ConfigurationError
	if errors.As(err, &cfgErr) {
		fmt.Fprintf(os.Stderr, "[ERROR] Configuration error: %s\n", cfgErr.Message)
		fmt.Fprintln(os.Stderr, "\nRun 'prtgctl config init' to create a config file, or provide --url and --api-token options.")
		return
	}
	if output != nil && formatter.ErrorKind(err) != "Error" {
		fmt.Fprintln(os.Stderr, output.FormatError(err))
		return
	}
	fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
}

// collectIDs merges positional IDs with stdin input (one ID per line) when
// requested, preserving order.
func collectIDs(args []string, fromStdin bool) ([]string, error) {
	ids := append([]string(nil), args...)
	if fromStdin {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line != "" {
				ids = append(ids, line)
			}
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read IDs from stdin: %w", err)
		}
	}
	return ids, nil
}

// versionCmd prints the build version
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the prtgctl version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("prtgctl %s (built %s)\n", version, buildTime)
	},
}
