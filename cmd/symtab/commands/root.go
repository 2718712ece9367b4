// Package commands implements the symtab subcommands.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/Sumatoshi-tech/symtab/pkg/config"
	"github.com/Sumatoshi-tech/symtab/pkg/observability"
	"github.com/Sumatoshi-tech/symtab/pkg/version"
)

// InitFunc sets up telemetry for one command run.
type InitFunc func(observability.Config) (observability.Providers, error)

// app carries the state shared by every subcommand of one invocation.
type app struct {
	initObservability InitFunc

	configPath string
	noColor    bool
	debug      bool

	cfg       *config.Config
	providers observability.Providers
}

// NewRootCommand builds the symtab command tree. A nil initFn uses
// [observability.Init].
func NewRootCommand(initFn InitFunc) *cobra.Command {
	if initFn == nil {
		initFn = observability.Init
	}

	a := &app{initObservability: initFn}

	root := &cobra.Command{
		Use:   "symtab",
		Short: "Ordered symbol tables, interval trees and segment sweeps",
		Long: `symtab loads datasets into search trees and queries them.

Commands:
  query      Order-statistic queries on a bst or llrb table
  intervals  Overlap queries on an interval tree
  sweep      Horizontal/vertical segment intersections
  bench      Tree height and lookup cost by size
  verify     Random cross-check of bst against llrb
  validate   Check a dataset against the schema`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ./symtab.yaml)")
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colored output")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "debug logging and full trace sampling")

	root.AddCommand(
		a.queryCommand(),
		a.intervalsCommand(),
		a.sweepCommand(),
		a.benchCommand(),
		a.verifyCommand(),
		a.validateCommand(),
	)

	return root
}

// action is a command body that runs with configuration loaded and a
// command span in ctx.
type action func(ctx context.Context, cmd *cobra.Command, args []string) error

func (a *app) run(mode observability.AppMode, fn action) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(a.configPath)
		if err != nil {
			return err
		}

		a.cfg = cfg

		obsCfg, err := a.observabilityConfig(mode)
		if err != nil {
			return err
		}

		obsCfg.LogOutput = cmd.ErrOrStderr()

		providers, err := a.initObservability(obsCfg)
		if err != nil {
			return fmt.Errorf("init observability: %w", err)
		}

		a.providers = providers

		defer func() {
			shutdownErr := providers.Shutdown(context.Background())
			if shutdownErr != nil {
				providers.Logger.Warn("observability shutdown failed", "error", shutdownErr)
			}
		}()

		ctx, span := providers.Tracer.Start(cmd.Context(), "symtab."+cmd.Name())
		defer span.End()

		if len(args) > 0 {
			span.SetAttributes(attribute.String("dataset.path", args[0]))
		}

		err = fn(ctx, cmd, args)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}

		return err
	}
}

func (a *app) observabilityConfig(mode observability.AppMode) (observability.Config, error) {
	level, err := observability.ParseLevel(a.cfg.Logging.Level)
	if err != nil {
		return observability.Config{}, err
	}

	cfg := observability.DefaultConfig()
	cfg.ServiceVersion = version.Version
	cfg.Mode = mode
	cfg.Environment = a.cfg.Telemetry.Environment
	cfg.OTLPEndpoint = a.cfg.Telemetry.Endpoint
	cfg.OTLPHeaders = observability.ParseOTLPHeaders(a.cfg.Telemetry.Headers)
	cfg.OTLPInsecure = a.cfg.Telemetry.Insecure
	cfg.SampleRatio = a.cfg.Telemetry.SampleRatio
	cfg.LogJSON = a.cfg.Logging.Format == config.FormatJSON
	cfg.LogLevel = level

	if a.debug {
		cfg.LogLevel = slog.LevelDebug
		cfg.DebugTrace = true
	}

	return cfg, nil
}

func (a *app) logger() *slog.Logger {
	return a.providers.Logger
}

// paint returns a color honoring --no-color and the output.color setting.
func (a *app) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)

	switch {
	case a.noColor || a.cfg.Output.Color == config.ColorNever:
		c.DisableColor()
	case a.cfg.Output.Color == config.ColorAlways:
		c.EnableColor()
	}

	return c
}

// newTitledTable writes title on its own line above a new table.
func newTitledTable(w io.Writer, title string, header ...any) table.Writer {
	fmt.Fprintln(w, title)

	return newTable(w, header...)
}

// newTable returns a light-style table that renders to w.
func newTable(w io.Writer, header ...any) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row(header))

	return tw
}
