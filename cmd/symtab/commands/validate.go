package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/symtab/internal/dataset"
	"github.com/Sumatoshi-tech/symtab/pkg/observability"
)

// ErrValidationFailed is returned when a dataset does not match the schema.
var ErrValidationFailed = errors.New("dataset validation failed")

func (a *app) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <dataset>",
		Short: "Check a YAML or JSON dataset against the schema",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(observability.ModeCLI, func(ctx context.Context, cmd *cobra.Command, args []string) error {
			return a.validate(ctx, cmd, args[0])
		}),
	}
}

func (a *app) validate(ctx context.Context, cmd *cobra.Command, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read dataset: %w", err)
	}

	out := cmd.OutOrStdout()
	bad := a.paint(color.FgRed)

	report, err := dataset.Validate(data)
	if err != nil {
		return err
	}

	if !report.Valid() {
		bad.Fprintf(out, "%s: %d problems\n", path, len(report.Problems))

		for _, p := range report.Problems {
			fmt.Fprintf(out, "  %s\n", p)
		}

		return fmt.Errorf("%w: %s", ErrValidationFailed, path)
	}

	ds, err := dataset.Parse(data)
	if err == nil {
		_, err = ds.SweepSegments()
	}

	if err != nil {
		bad.Fprintf(out, "%s: %v\n", path, err)

		return fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	a.logger().DebugContext(ctx, "dataset valid", "path", path)

	a.paint(color.FgGreen).Fprintf(out, "%s: dataset is valid\n", path)
	fmt.Fprintf(out, "  %d pairs, %d intervals, %d segments\n", len(ds.Pairs), len(ds.Intervals), len(ds.Segments))

	return nil
}
