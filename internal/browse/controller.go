package browse

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/colebanman/grabbit-cli/internal/state"
)

// DefaultSettleDelay is the pause after closing stale sessions. grabbit-browse
// waits 100ms before its daemon exits, so this must stay above that.
const DefaultSettleDelay = 200 * time.Millisecond

// DefaultSession is the session grabbit-browse uses when none is named.
const DefaultSession = "default"

// Controller sequences grabbit-browse invocations for one `grabbit browse`
// call and keeps the active-session marker up to date.
type Controller struct {
	Runner Runner
	Store  state.Store

	// SettleDelay overrides DefaultSettleDelay when positive.
	SettleDelay time.Duration

	// FollowTracked sends non-navigation commands without --session to the
	// tracked session instead of a fresh temporary one.
	FollowTracked bool

	// Sleep and Now default to real time.
	Sleep func(ctx context.Context, d time.Duration) error
	Now   func() time.Time

	Log zerolog.Logger
	Out io.Writer
	Err io.Writer
}

// Run forwards args to grabbit-browse and returns the exit code to report.
// The error is non-nil only when ctx ends while waiting between steps.
func (c *Controller) Run(ctx context.Context, args []string) (int, error) {
	inv := ParseInvocation(args, c.now())
	tracked := c.loadSession()

	if inv.IsNavigation() {
		return c.navigate(ctx, inv, tracked)
	}

	if c.FollowTracked && !inv.Explicit && tracked != nil && tracked.SessionName != "" {
		inv.Session = tracked.SessionName
	}

	code := c.Runner.Run(ctx, inv.Args()...)

	if inv.Subcommand() == "close" {
		if err := c.Store.Clear(); err != nil {
			c.Log.Warn().Err(err).Msg("failed to clear session marker")
		}
	}
	return code, nil
}

func (c *Controller) navigate(ctx context.Context, inv *Invocation, tracked *state.Session) (int, error) {
	log := c.Log.With().Str("session", inv.Session).Bool("explicit", inv.Explicit).Logger()

	if !inv.Explicit {
		c.attempt(ctx, "--session", DefaultSession, "close")
		if tracked.Ephemeral() && tracked.SessionName != inv.Session {
			c.attempt(ctx, "--session", tracked.SessionName, "close")
		}
		c.attempt(ctx, "--session", inv.Session, "close")

		if err := c.sleep(ctx, c.settleDelay()); err != nil {
			return 1, err
		}
	}

	if code := c.Runner.Run(ctx, inv.Args()...); code != 0 {
		log.Info().Int("exit", code).Msg("navigation failed")
		return code, nil
	}

	fmt.Fprintln(c.out(), "Starting HAR recording...")
	if code := c.Runner.Run(ctx, inv.With("har", "start")...); code != 0 {
		log.Info().Int("exit", code).Msg("har start failed")
		return code, nil
	}

	started := c.now().UTC()
	session := &state.Session{HARRecording: true, StartedAt: &started, SessionName: inv.Session}
	if err := c.Store.Save(session); err != nil {
		fmt.Fprintf(c.errOut(), "Warning: could not save session state: %v\n", err)
		log.Warn().Err(err).Msg("failed to save session marker")
	}

	fmt.Fprintln(c.out(), "Reloading to capture traffic...")
	return c.Runner.Run(ctx, inv.With("reload")...), nil
}

// attempt runs a best-effort step. Its exit code is discarded.
func (c *Controller) attempt(ctx context.Context, args ...string) {
	code := c.Runner.Run(ctx, args...)
	c.Log.Debug().Strs("args", args).Int("exit", code).Msg("best-effort step")
}

func (c *Controller) loadSession() *state.Session {
	s, err := c.Store.Load()
	if err != nil {
		c.Log.Warn().Err(err).Msg("ignoring unreadable session marker")
		return nil
	}
	return s
}

func (c *Controller) settleDelay() time.Duration {
	if c.SettleDelay > 0 {
		return c.SettleDelay
	}
	return DefaultSettleDelay
}

func (c *Controller) sleep(ctx context.Context, d time.Duration) error {
	if c.Sleep != nil {
		return c.Sleep(ctx, d)
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Controller) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Controller) out() io.Writer {
	if c.Out != nil {
		return c.Out
	}
	return os.Stdout
}

func (c *Controller) errOut() io.Writer {
	if c.Err != nil {
		return c.Err
	}
	return os.Stderr
}
