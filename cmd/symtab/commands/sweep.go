package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/symtab/internal/dataset"
	"github.com/Sumatoshi-tech/symtab/internal/tables"
	"github.com/Sumatoshi-tech/symtab/pkg/alg/sweep"
	"github.com/Sumatoshi-tech/symtab/pkg/observability"
	"github.com/Sumatoshi-tech/symtab/pkg/symtab"
)

func (a *app) sweepCommand() *cobra.Command {
	var impl string

	cmd := &cobra.Command{
		Use:   "sweep <dataset>",
		Short: "Report intersections between horizontal and vertical segments",
		Args:  cobra.ExactArgs(1),
	}

	cmd.RunE = a.run(observability.ModeCLI, func(ctx context.Context, cmd *cobra.Command, args []string) error {
		ds, err := dataset.Load(args[0])
		if err != nil {
			return err
		}

		segments, err := ds.SweepSegments()
		if err != nil {
			return err
		}

		if _, err := tables.New[int](impl); err != nil {
			return err
		}

		points, err := sweep.Search(segments, sweep.WithTable(func() symtab.Ordered[int, int] {
			tree, _ := tables.New[int](impl)

			return tree
		}))
		if err != nil {
			return err
		}

		a.logger().DebugContext(ctx, "sweep done", "segments", len(segments), "intersections", len(points))

		tw := newTitledTable(cmd.OutOrStdout(), fmt.Sprintf("Intersections (%d)", len(points)), "X", "Y")

		for _, p := range points {
			tw.AppendRow([]any{p.X, p.Y})
		}

		tw.Render()

		return nil
	})

	cmd.Flags().StringVar(&impl, "impl", tables.LLRB, "active-set implementation: bst or llrb")

	return cmd
}
