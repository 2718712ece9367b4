package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/symtab/internal/dataset"
	"github.com/Sumatoshi-tech/symtab/pkg/alg/interval"
	"github.com/Sumatoshi-tech/symtab/pkg/observability"
)

func (a *app) intervalsCommand() *cobra.Command {
	var (
		lo, hi float64
		point  float64
	)

	cmd := &cobra.Command{
		Use:   "intervals <dataset>",
		Short: "Find the dataset intervals overlapping [lo, hi]",
		Args:  cobra.ExactArgs(1),
	}

	cmd.RunE = a.run(observability.ModeCLI, func(ctx context.Context, cmd *cobra.Command, args []string) error {
		ds, err := dataset.Load(args[0])
		if err != nil {
			return err
		}

		tree := ds.IntervalTree()

		trace.SpanFromContext(ctx).SetAttributes(attribute.Int("symtab.intervals", tree.Len()))
		a.logger().DebugContext(ctx, "interval tree built", "intervals", tree.Len(), "height", tree.Height())

		out := cmd.OutOrStdout()

		first, ok := tree.FindIntersection(lo, hi)
		if ok {
			fmt.Fprintf(out, "some overlap with [%g, %g]: %s\n", lo, hi, formatInterval(first))
		} else {
			fmt.Fprintf(out, "no interval overlaps [%g, %g]\n", lo, hi)
		}

		renderIntervals(cmd, "Overlapping", tree.FindIntersections(lo, hi))

		if cmd.Flags().Changed("point") {
			renderIntervals(cmd, fmt.Sprintf("Containing %g", point), tree.Stab(point))
		}

		return nil
	})

	cmd.Flags().Float64Var(&lo, "lo", 0, "query start, inclusive")
	cmd.Flags().Float64Var(&hi, "hi", 0, "query end, inclusive")
	cmd.Flags().Float64Var(&point, "point", 0, "also list intervals containing this point")

	_ = cmd.MarkFlagRequired("lo")
	_ = cmd.MarkFlagRequired("hi")

	return cmd
}

func renderIntervals(cmd *cobra.Command, title string, ivs []interval.Interval) {
	tw := newTitledTable(cmd.OutOrStdout(), fmt.Sprintf("%s (%d)", title, len(ivs)), "Start", "End")

	for _, iv := range ivs {
		tw.AppendRow([]any{iv.Start, iv.End})
	}

	tw.Render()
}

func formatInterval(iv interval.Interval) string {
	return fmt.Sprintf("[%g, %g]", iv.Start, iv.End)
}
