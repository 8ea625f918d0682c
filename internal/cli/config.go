// internal/cli/config.go
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/colebanman/grabbit-cli/internal/browse"
	"github.com/colebanman/grabbit-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Long: `Show current configuration values and where they come from.

API URL priority (highest to lowest):
  1. --api-url flag
  2. GRABBIT_API_URL environment variable
  3. apiUrl in ~/.grabbit/config.json
  4. https://www.grabbit.dev

Environment variables:
  GRABBIT_HOME            Directory for config, settings, logs and session state
  GRABBIT_API_URL         Service URL
  GRABBIT_BROWSE_PATH     Path to grabbit-browse.js
  GRABBIT_BROWSE_RUNTIME  Interpreter for grabbit-browse.js (empty runs it directly)
  GRABBIT_SETTLE_DELAY    Wait after closing stale sessions (e.g. 200ms)
  GRABBIT_LOG_LEVEL       Log level for the debug log`,
	RunE: runConfig,
}

var configSetTokenCmd = &cobra.Command{
	Use:   "set-token <token>",
	Short: "Store an API token in ~/.grabbit/config.json",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigSetToken,
}

func init() {
	configCmd.AddCommand(configSetTokenCmd)
}

type configOutput struct {
	Home         string           `json:"home"`
	ConfigPath   string           `json:"config_path"`
	SettingsPath string           `json:"settings_path"`
	APIURL       string           `json:"api_url"`
	Token        string           `json:"token,omitempty"`
	UserID       string           `json:"user_id,omitempty"`
	BrowsePath   string           `json:"browse_path,omitempty"`
	Settings     *config.Settings `json:"settings"`
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}

	browsePath, _ := browse.ResolveBrowsePath(settings.Browser.Path)

	output := configOutput{
		Home:         config.Home(),
		ConfigPath:   config.Path(),
		SettingsPath: config.SettingsPath(),
		APIURL:       config.ResolveAPIURL(cfg, flagAPIURL),
		Token:        maskMiddle(cfg.Token),
		UserID:       cfg.UserID,
		BrowsePath:   browsePath,
		Settings:     settings,
	}

	if flagJSON {
		return OutputJSON(cmd.OutOrStdout(), output)
	}
	printConfig(cmd.OutOrStdout(), output)
	return nil
}

func printConfig(w io.Writer, c configOutput) {
	fmt.Fprintln(w, "Current configuration:")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Home:            %s\n", c.Home)
	fmt.Fprintf(w, "  Config file:     %s\n", c.ConfigPath)
	fmt.Fprintf(w, "  Settings file:   %s\n", c.SettingsPath)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  API URL:         %s\n", c.APIURL)
	fmt.Fprintf(w, "  Token:           %s\n", orNone(c.Token))
	if c.UserID != "" {
		fmt.Fprintf(w, "  User ID:         %s\n", c.UserID)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  grabbit-browse:  %s\n", orNone(c.BrowsePath))
	fmt.Fprintf(w, "  Runtime:         %s\n", orNone(c.Settings.Browser.Runtime))
	fmt.Fprintf(w, "  Settle delay:    %s\n", c.Settings.Browser.SettleDelay)
	fmt.Fprintf(w, "  Follow session:  %v\n", c.Settings.Browser.FollowActiveSession)
	fmt.Fprintf(w, "  API timeout:     %s\n", c.Settings.API.Timeout)
	fmt.Fprintf(w, "  Multipart:       %v\n", c.Settings.API.Multipart)
	fmt.Fprintf(w, "  Log level:       %s\n", c.Settings.Log.Level)
	fmt.Fprintf(w, "  Log file:        %s\n", orNone(c.Settings.Log.File))
}

func runConfigSetToken(cmd *cobra.Command, args []string) error {
	token := strings.TrimSpace(args[0])
	if token == "" {
		return NewUsageError("token must not be empty")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cfg.Token = token
	if flagAPIURL != "" {
		cfg.APIURL = flagAPIURL
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	if flagJSON {
		return OutputJSON(cmd.OutOrStdout(), map[string]string{
			"config_path": config.Path(),
			"token":       maskMiddle(token),
		})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Token saved to %s\n", config.Path())
	return nil
}

// maskMiddle masks the middle of a string for privacy
func maskMiddle(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + "..." + s[len(s)-4:]
}

func orNone(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
