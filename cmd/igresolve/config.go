package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"igresolve/pkg/config"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage igresolve configuration.

Configuration is loaded, in order of precedence, from command line
flags, environment variables (IGRESOLVE_*), a .env file, the YAML
config file, and built-in defaults.`,
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	RunE:  runConfigInit,
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Show the configuration after merging all sources. Session values are
masked.`,
	RunE: runConfigShow,
}

// configValidateCmd represents the config validate command
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	RunE:  runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
}

const exampleConfig = `# igresolve configuration file
#
# Environment variables prefixed with IGRESOLVE_ override these values,
# for example IGRESOLVE_SESSION_ID and IGRESOLVE_DEVTOOLS_URL.

instagram:
  # Session cookie values for private API access. Prefer
  # 'igresolve auth login' over keeping these in a file.
  session_id: ""
  csrf_token: ""
  user_agent: "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36"

capture:
  # DevTools endpoint of a browser started with --remote-debugging-port
  devtools_url: "http://127.0.0.1:9222"
  snapshot_timeout: 15s
  # Grace period for a blob-backed player to issue its media request
  blob_wait: 500ms

preferences:
  show_ads: false
  no_multi_stories: false
  filename_template: "{Username}__{Year}-{Month}-{Day}--{Hour}-{Minute}"

rate_limit:
  requests_per_minute: 60

output:
  base_directory: "./downloads"
  create_user_folders: true
  overwrite_existing: false

logging:
  level: "info"
  file: ""
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configFile
	if path == "" {
		path = ".igresolve.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("configuration file already exists: %s", path)
	}

	if err := os.WriteFile(path, []byte(exampleConfig), 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}
	fmt.Printf("Created %s\n", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		return err
	}

	// Mask secrets before printing.
	shown := *cfg
	if shown.Instagram.SessionID != "" {
		shown.Instagram.SessionID = "****"
	}
	if shown.Instagram.CSRFToken != "" {
		shown.Instagram.CSRFToken = "****"
	}

	out, err := yaml.Marshal(&shown)
	if err != nil {
		return fmt.Errorf("failed to render configuration: %w", err)
	}
	fmt.Print(string(out))
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	if _, err := config.Load(configFile, nil); err != nil {
		return err
	}
	fmt.Println("Configuration is valid.")
	return nil
}
