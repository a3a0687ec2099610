package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/use-agent/hustings/config"
	"github.com/use-agent/hustings/models"
	"github.com/use-agent/hustings/sink"
)

// Process exit codes.
const (
	ExitOK      = 0
	ExitFatal   = 1
	ExitPartial = 2
)

// ErrPartial marks a run that wrote its table without some constituencies.
var ErrPartial = errors.New("some constituencies failed")

// NewCommand builds the command for one election edition. It takes the
// output CSV path as its only argument; everything else comes from
// ELECTION_* environment variables.
func NewCommand(variant models.SchemaVariant) *cobra.Command {
	return &cobra.Command{
		Use:   fmt.Sprintf("ge%s <output.csv>", variant),
		Short: fmt.Sprintf("Scrapes the %s UK general election results into a CSV.", variant),
		Long: fmt.Sprintf(`Scrapes every constituency result of the %s UK general election and
writes one row per constituency, with candidates flattened into
1st_place_*, 2nd_place_* ... columns.

Constituencies that fail are left out and listed in <output.csv>.errors.yaml;
the command then exits with status 2. Set ELECTION_STRICT=true to abort on
the first failure instead.`, variant),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			cfg := config.Load()
			initLogger(cfg.Log, cmd.ErrOrStderr())
			slog.Debug("configuration loaded",
				"variant", variant.String(),
				"base_url", cfg.BaseURL,
				"workers", cfg.Fetch.Workers,
				"browser_fallback", cfg.Engine.BrowserFallback,
			)

			summary, err := Run(cmd.Context(), cfg, variant, args[0])
			if err != nil {
				return err
			}
			sink.PrintSummary(cmd.OutOrStdout(), summary)
			if summary.Failed() > 0 {
				return fmt.Errorf("%d of %d constituencies failed, see %s: %w",
					summary.Failed(), summary.Discovered, summary.Report, ErrPartial)
			}
			return nil
		},
	}
}

// Execute runs the command for variant until it finishes or the process
// receives SIGINT or SIGTERM, and returns the process exit code.
func Execute(variant models.SchemaVariant) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := NewCommand(variant)
	cmd.SilenceErrors = true
	err := cmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
	}
	return ExitCode(err)
}

// ExitCode maps a command error to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrPartial):
		return ExitPartial
	default:
		return ExitFatal
	}
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig, w io.Writer) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	slog.SetDefault(slog.New(handler))
}
