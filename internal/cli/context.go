// internal/cli/context.go
package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/colebanman/grabbit-cli/internal/api"
	"github.com/colebanman/grabbit-cli/internal/browse"
	"github.com/colebanman/grabbit-cli/internal/capture"
	"github.com/colebanman/grabbit-cli/internal/config"
	"github.com/colebanman/grabbit-cli/internal/logging"
	"github.com/colebanman/grabbit-cli/internal/state"
)

// CLIContext holds the context for a CLI command
type CLIContext struct {
	Context  context.Context
	Cancel   context.CancelFunc
	Config   *config.Config
	Settings *config.Settings
	Log      *logging.Logger
}

// NewCLIContext loads config.json and settings.yaml and opens the log.
// The context is cancelled on interrupt.
func NewCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	settings, err := config.LoadSettings()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logging.New(logging.Options{
		Level:      settings.Log.Level,
		File:       settings.Log.File,
		MaxSizeMB:  settings.Log.MaxSizeMB,
		MaxBackups: settings.Log.MaxBackups,
		Verbose:    flagVerbose,
	})
	if err != nil {
		return nil, err
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, os.Interrupt)

	log.Debug().Str("command", cmd.CommandPath()).Str("version", version).Msg("command started")

	return &CLIContext{
		Context:  ctx,
		Cancel:   cancel,
		Config:   cfg,
		Settings: settings,
		Log:      log,
	}, nil
}

// Close releases the context and the log file.
func (c *CLIContext) Close() {
	c.Cancel()
	_ = c.Log.Close()
}

// RequireAuth returns an error if no token is stored.
func (c *CLIContext) RequireAuth() error {
	if !c.Config.HasToken() {
		return &capture.UserError{
			Message: "Not authenticated",
			Hint:    "Run 'grabbit config set-token <token>' to authenticate first.",
		}
	}
	return nil
}

// APIURL returns the resolved service URL.
func (c *CLIContext) APIURL() string {
	return config.ResolveAPIURL(c.Config, flagAPIURL)
}

// APIClient returns a client for the resolved API URL.
func (c *CLIContext) APIClient() *api.Client {
	return api.NewClient(c.APIURL(), c.Config.Token,
		api.WithTimeout(c.Settings.API.Timeout),
		api.WithMultipart(c.Settings.API.Multipart),
		api.WithLogger(c.Log.Logger),
	)
}

// Runner returns a runner for the resolved grabbit-browse script.
func (c *CLIContext) Runner() (browse.Runner, error) {
	path, err := browse.ResolveBrowsePath(c.Settings.Browser.Path)
	if errors.Is(err, browse.ErrBrowseNotFound) {
		return nil, &capture.UserError{
			Message: "Could not find @cole-labs/grabbit-browser package.",
			Hint:    "Please ensure it is installed correctly, or set GRABBIT_BROWSE_PATH.",
		}
	}
	if err != nil {
		return nil, err
	}
	c.Log.Debug().Str("path", path).Str("runtime", c.Settings.Browser.Runtime).Msg("resolved grabbit-browse")
	return browse.NewExecRunner(c.Settings.Browser.Runtime, path, c.Log.Logger), nil
}

// Store returns the session marker store.
func (c *CLIContext) Store() state.Store {
	return state.NewFileStore(config.Home())
}

// IsJSONOutput returns true if JSON output mode is enabled
func IsJSONOutput() bool {
	return flagJSON
}

// IsVerbose returns true if verbose mode is enabled
func IsVerbose() bool {
	return flagVerbose
}
