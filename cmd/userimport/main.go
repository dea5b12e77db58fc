// Command userimport bulk-creates users from a CSV file.
//
//	userimport [flags] <csv-file>
//
// Each record is validated, then POSTed to the creation endpoint with a
// bounded number of attempts. Outcomes are written to error.log,
// warning.log and info.log under the log directory.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JonMunkholm/userimport/internal/client"
	"github.com/JonMunkholm/userimport/internal/config"
	"github.com/JonMunkholm/userimport/internal/core"
	"github.com/JonMunkholm/userimport/internal/logging"
)

// errReported marks failures whose message was already printed.
var errReported = errors.New("reported")

func main() {
	cmd := newRootCmd()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

type flags struct {
	endpoint  string
	retries   int
	logDir    string
	rateLimit float64
}

func newRootCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:           "userimport <csv-file>",
		Short:         "Create users from a CSV file of name,email,role records",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, args[0], cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&f.endpoint, "endpoint", "", "user creation URL (overrides IMPORT_ENDPOINT)")
	cmd.Flags().IntVar(&f.retries, "retries", 0, "creation attempts per record (overrides IMPORT_MAX_RETRIES)")
	cmd.Flags().StringVar(&f.logDir, "log-dir", "", "directory for error.log, warning.log and info.log (overrides LOG_DIR)")
	cmd.Flags().Float64Var(&f.rateLimit, "rate-limit", 0, "maximum requests per second, 0 for no limit (overrides IMPORT_RATE_LIMIT)")
	return cmd
}

// loadConfig reads .env and the environment, then applies explicitly set flags.
func loadConfig(cmd *cobra.Command, f flags) (*config.Config, error) {
	// Overload overwrites existing env vars with values from .env
	_ = godotenv.Overload()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	changed := false
	if cmd.Flags().Changed("endpoint") {
		cfg.Import.Endpoint, changed = f.endpoint, true
	}
	if cmd.Flags().Changed("retries") {
		cfg.Import.MaxRetries, changed = f.retries, true
	}
	if cmd.Flags().Changed("log-dir") {
		cfg.Logging.Dir, changed = f.logDir, true
	}
	if cmd.Flags().Changed("rate-limit") {
		cfg.Import.RateLimit, changed = f.rateLimit, true
	}
	if changed {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// run imports sourcePath. Per-record failures are logged and do not fail the
// run; fatal batch errors print a one-line reason and return errReported.
func run(ctx context.Context, cfg *config.Config, sourcePath string, stdout, stderr io.Writer) (err error) {
	sinks, err := logging.Open(cfg.Logging, stdout)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sinks.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close logs: %w", cerr)
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sinks.Progress.Debug("configuration loaded", zap.Stringer("config", cfg))

	httpClient := client.New(client.Config{
		Endpoint:  cfg.Import.Endpoint,
		Timeout:   cfg.Import.RequestTimeout,
		RateLimit: cfg.Import.RateLimit,
	})

	reader, err := core.NewBatchReader(core.BatchConfig{
		Source:     core.NewLocalSource("."),
		Validator:  core.NewRowValidator(sinks.Audit, sinks.Progress),
		Creator:    core.NewUserCreator(httpClient, sinks.Audit, sinks.Progress, core.WithRetryDelay(cfg.Import.RetryDelay)),
		MaxRetries: cfg.Import.MaxRetries,
		Log:        sinks.Audit,
		Progress:   sinks.Progress,
	})
	if err != nil {
		return err
	}

	summary, err := reader.ProcessBatch(ctx, sourcePath, core.DefaultSchema, cfg.Import.RequiredFields)
	if err != nil {
		fmt.Fprintln(stderr, core.FormatUserError(err))
		return errReported
	}

	fmt.Fprintf(stdout, "Imported %s: %d read, %d created, %d skipped, %d failed\n",
		sourcePath, summary.Read, summary.Created, summary.Skipped, summary.Failed)
	return nil
}
