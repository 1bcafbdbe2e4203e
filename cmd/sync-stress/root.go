package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options holds the flags of the sync-stress command.
type Options struct {
	Duration   time.Duration
	Frames     int
	Entities   int
	Workers    int
	Churn      int
	Seed       int64
	Profile    string
	ProfileDir string
	LogLevel   string
}

func newRootCommand() *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:   "sync-stress",
		Short: "Stress the transform sync pipeline",
		Long: `Spawn simulated entities, remove and re-add their transforms every
frame, and run the sync pipeline around the kinematic backend.

Example:
  sync-stress --entities 50000 --churn 500 --workers 4
  sync-stress --frames 600 --profile cpu`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, cmd)
		},
	}

	flags := cmd.Flags()
	flags.DurationVar(&opts.Duration, "duration", 10*time.Second, "how long to run")
	flags.IntVar(&opts.Frames, "frames", 0, "stop after this many frames (0 runs for --duration)")
	flags.IntVar(&opts.Entities, "entities", 10000, "initial number of simulated entities")
	flags.IntVar(&opts.Workers, "workers", 1, "scheduler worker count")
	flags.IntVar(&opts.Churn, "churn", 100, "transforms removed or re-added per frame")
	flags.Int64Var(&opts.Seed, "seed", 1, "random seed")
	flags.StringVar(&opts.Profile, "profile", "", `profile to record: "cpu", "mem" or empty`)
	flags.StringVar(&opts.ProfileDir, "profile-dir", ".", "directory for profile output")
	flags.StringVar(&opts.LogLevel, "log-level", "warn", "log level")

	return cmd
}

func (o *Options) validate() error {
	if o.Entities < 0 || o.Churn < 0 {
		return fmt.Errorf("entities and churn must not be negative")
	}
	if o.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", o.Workers)
	}
	if o.Frames == 0 && o.Duration <= 0 {
		return fmt.Errorf("either --frames or a positive --duration is required")
	}
	return nil
}

func profileMode(name string) (func(*profile.Profile), error) {
	switch name {
	case "cpu":
		return profile.CPUProfile, nil
	case "mem":
		return profile.MemProfileAllocs, nil
	default:
		return nil, fmt.Errorf("unknown profile %q", name)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

func run(ctx context.Context, opts *Options, cmd *cobra.Command) error {
	if err := opts.validate(); err != nil {
		return err
	}

	logger, err := newLogger(opts.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if opts.Profile != "" {
		mode, err := profileMode(opts.Profile)
		if err != nil {
			return err
		}
		p := profile.Start(mode, profile.ProfilePath(opts.ProfileDir), profile.NoShutdownHook, profile.Quiet)
		defer p.Stop()
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := runStress(ctx, opts, logger)
	if err != nil {
		return err
	}
	return report.Generate(cmd.OutOrStdout())
}
