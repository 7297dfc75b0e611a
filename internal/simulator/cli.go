// Package simulator drives a running campnav service the way a phone
// would, for manual checks and end-to-end smoke tests.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/campnav/internal/domain/model"
	"github.com/okian/campnav/pkg/logger"
)

// ErrInvalidFlag is returned for flag values the session cannot use.
var ErrInvalidFlag = errors.New("invalid flag")

// NewCommand builds the campnav-sim root command.
func NewCommand() *cobra.Command {
	cfg := DefaultConfig()
	var status, logFormat string

	cmd := &cobra.Command{
		Use:   "campnav-sim",
		Short: "Simulate a device against a campnav service",
		Long: `Simulate a phone talking to a running campnav service.

The session reports an authorization status, walks a loop of positions
around the campus centre, taps the locate button and checks that the
service answered the way a device would expect:

  authorized_always, authorized_when_in_use  camera moves to the last position
  denied, restricted                         the permission alert is shown
  not_determined                             permission is requested`,
		Example: `  campnav-sim --url http://localhost:9080
  campnav-sim --status denied --points 5
  campnav-sim --points 200 --interval 10ms --verbose`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg.Status = model.AuthorizationStatus(strings.TrimSpace(status))
			if err := validate(cfg); err != nil {
				return err
			}
			if err := logger.InitWith(cmd.ErrOrStderr(), logFormat); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			if cfg.Verbose {
				_ = logger.SetLevelString("debug")
			}

			stats, err := Run(cmd.Context(), cfg, logger.Named("campnav-sim"))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %s after %d positions in %s\n",
				stats.Outcome, stats.PositionsReported, stats.Duration.Round(time.Millisecond))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.BaseURL, "url", cfg.BaseURL, "base URL of the campnav service")
	f.StringVar(&status, "status", string(cfg.Status), "authorization status the device reports")
	f.IntVar(&cfg.Points, "points", cfg.Points, "number of positions to walk")
	f.DurationVar(&cfg.Interval, "interval", cfg.Interval, "pause between positions")
	f.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "HTTP request and settle timeout")
	f.BoolVarP(&cfg.Verbose, "verbose", "v", false, "log every step")
	f.StringVar(&logFormat, "log-format", "text", "log format: text or json")
	return cmd
}

func validate(cfg Config) error {
	switch {
	case !cfg.Status.Valid():
		return fmt.Errorf("%w: --status %q", ErrInvalidFlag, cfg.Status)
	case cfg.Points < 0:
		return fmt.Errorf("%w: --points must not be negative", ErrInvalidFlag)
	case cfg.Timeout <= 0:
		return fmt.Errorf("%w: --timeout must be positive", ErrInvalidFlag)
	case !strings.HasPrefix(cfg.BaseURL, "http://") && !strings.HasPrefix(cfg.BaseURL, "https://"):
		return fmt.Errorf("%w: --url %q", ErrInvalidFlag, cfg.BaseURL)
	}
	return nil
}

// Execute runs the root command until it finishes or the process is
// interrupted, and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := NewCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
