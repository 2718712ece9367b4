package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/symtab/internal/dataset"
	"github.com/Sumatoshi-tech/symtab/internal/tables"
	"github.com/Sumatoshi-tech/symtab/pkg/observability"
)

const absent = "-"

type queryOptions struct {
	impl    string
	key     int
	lo, hi  int
	deletes []int
}

func (a *app) queryCommand() *cobra.Command {
	var opts queryOptions

	cmd := &cobra.Command{
		Use:   "query <dataset>",
		Short: "Load the dataset pairs into a tree and run order-statistic queries",
		Long: `Load the pairs of a dataset into a bst or llrb table, optionally delete
keys, and print min, max, floor, ceiling, rank and range results.

The range defaults to the smallest and largest keys.`,
		Args: cobra.ExactArgs(1),
	}

	cmd.RunE = a.run(observability.ModeCLI, func(ctx context.Context, cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("lo") {
			opts.lo = minInt
		}

		if !cmd.Flags().Changed("hi") {
			opts.hi = maxInt
		}

		return a.query(ctx, cmd, args[0], opts)
	})

	cmd.Flags().StringVar(&opts.impl, "impl", tables.LLRB, "tree implementation: bst or llrb")
	cmd.Flags().IntVar(&opts.key, "key", 0, "probe key for get, floor, ceiling and rank")
	cmd.Flags().IntVar(&opts.lo, "lo", 0, "range lower bound, inclusive")
	cmd.Flags().IntVar(&opts.hi, "hi", 0, "range upper bound, inclusive")
	cmd.Flags().IntSliceVar(&opts.deletes, "delete", nil, "keys to delete before querying")

	return cmd
}

const (
	maxInt = int(^uint(0) >> 1)
	minInt = -maxInt - 1
)

func (a *app) query(ctx context.Context, cmd *cobra.Command, path string, opts queryOptions) error {
	ds, err := dataset.Load(path)
	if err != nil {
		return err
	}

	tree, err := tables.New[string](opts.impl)
	if err != nil {
		return err
	}

	metrics, err := observability.NewTableMetrics(a.providers.Meter)
	if err != nil {
		return err
	}

	table := observability.Instrument(ctx, tree, metrics, opts.impl)

	for _, p := range ds.Pairs {
		table.Add(p.Key, p.Value)
	}

	deleted := 0

	for _, k := range opts.deletes {
		if table.TryDelete(k) {
			deleted++
		}
	}

	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("symtab.impl", opts.impl),
		attribute.Int("symtab.size", table.Size()),
	)

	a.logger().DebugContext(ctx, "table loaded",
		"impl", opts.impl, "pairs", len(ds.Pairs), "deleted", deleted, "height", tree.Height())

	tw := newTable(cmd.OutOrStdout(), "Query", "Result")
	tw.AppendRow([]any{"size", table.Size()})
	tw.AppendRow([]any{"height", tree.Height()})
	tw.AppendRow([]any{"deleted", deleted})
	tw.AppendRow([]any{"min", keyOrAbsent(table.TryGetMin())})
	tw.AppendRow([]any{"max", keyOrAbsent(table.TryGetMax())})

	val, ok := table.TryGet(opts.key)
	if !ok {
		val = absent
	}

	tw.AppendRow([]any{fmt.Sprintf("get(%d)", opts.key), val})
	tw.AppendRow([]any{fmt.Sprintf("floor(%d)", opts.key), keyOrAbsent(table.TryGetFloor(opts.key))})
	tw.AppendRow([]any{fmt.Sprintf("ceiling(%d)", opts.key), keyOrAbsent(table.TryGetCeiling(opts.key))})
	tw.AppendRow([]any{fmt.Sprintf("rank(%d)", opts.key), table.Rank(opts.key)})

	bounds := fmt.Sprintf("%s..%s", bound(opts.lo), bound(opts.hi))

	var pairs []string
	for k, v := range table.Range(opts.lo, opts.hi) {
		pairs = append(pairs, fmt.Sprintf("%d=%s", k, v))
	}

	tw.AppendRow([]any{"count(" + bounds + ")", table.RangeCount(opts.lo, opts.hi)})
	tw.AppendRow([]any{"range(" + bounds + ")", strings.Join(pairs, " ")})
	tw.Render()

	return nil
}

func keyOrAbsent(k int, ok bool) string {
	if !ok {
		return absent
	}

	return strconv.Itoa(k)
}

func bound(k int) string {
	switch k {
	case minInt:
		return "min"
	case maxInt:
		return "max"
	default:
		return strconv.Itoa(k)
	}
}
