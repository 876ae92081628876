package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/prtgctl/config"
)

var (
	configInitPath  string
	configInitForce bool
)

// configCmd groups the configuration subcommands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage prtgctl configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default configuration file",
	Long: `Create a config file with example values at ~/.config/prtg/config (or a
custom path). Edit it afterwards to add your PRTG server URL and API
token; add more sections for additional profiles.`,
	RunE: runConfigInit,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all profiles in the configuration file",
	RunE:  runConfigList,
}

var configTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Validate the resolved configuration",
	Long: `Resolve the configuration the same way every other command does (flags >
environment > .env > config file) and report the result with the token
redacted. No connection is attempted; use 'prtgctl device list --limit 1'
to test connectivity.`,
	RunE: runConfigTest,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configTestCmd)

	configInitCmd.Flags().StringVar(&configInitPath, "path", "", "config file path (default ~/.config/prtg/config)")
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing config file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configInitPath
	if path == "" {
		path = configPath()
	}

	created, err := config.InitFile(path, configInitForce)
	if err != nil {
		return err
	}

	fmt.Printf("Created config file: %s\n\n", created)
	fmt.Println("Next steps:")
	fmt.Printf("  1. Edit the config file: %s\n", created)
	fmt.Println("  2. Update the 'url' and 'api_token' values")
	fmt.Println("  3. Get your API token from: Setup > My Account > API Keys")
	fmt.Println("  4. Check your config: prtgctl config test")
	return nil
}

func runConfigList(cmd *cobra.Command, args []string) error {
	resolver, err := config.NewResolver(configPath())
	if err != nil {
		return err
	}

	profiles := resolver.Profiles()
	if len(profiles) == 0 {
		fmt.Printf("No profiles found in %s\n", resolver.Path())
		return nil
	}

	fmt.Printf("Profiles in %s:\n", resolver.Path())
	for _, profile := range profiles {
		fmt.Printf("  %s\n", profile)
	}
	return nil
}

func runConfigTest(cmd *cobra.Command, args []string) error {
	resolver, err := config.NewResolver(configPath())
	if err != nil {
		return err
	}

	var verify *bool
	if noVerifySSL {
		v := false
		verify = &v
	}

	summary, err := resolver.Check(config.Overrides{
		Profile:   profileName,
		URL:       serverURL,
		APIToken:  apiToken,
		VerifySSL: verify,
	})
	if err != nil {
		return err
	}

	fmt.Println(summary)
	return nil
}
