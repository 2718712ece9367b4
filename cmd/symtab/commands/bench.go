package commands

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/symtab/internal/bench"
	"github.com/Sumatoshi-tech/symtab/pkg/observability"
)

// operationsMetric is the Prometheus family prefix of the operation counter.
const operationsMetric = "symtab_operations"

type benchOptions struct {
	sizes []int
	impls []string
	order string
	seed  uint64
	plot  string
}

func (a *app) benchCommand() *cobra.Command {
	var opts benchOptions

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure tree height and lookup cost across sizes",
		Long: `Build each implementation at each size from keys in sorted, reversed or
random order, then time one lookup and one rank per key.

Flags override the bench section of the config file.`,
		Args: cobra.NoArgs,
	}

	cmd.RunE = a.run(observability.ModeBench, func(ctx context.Context, cmd *cobra.Command, _ []string) error {
		return a.bench(ctx, cmd, a.resolveBenchOptions(cmd, opts), opts.plot)
	})

	cmd.Flags().IntSliceVar(&opts.sizes, "sizes", nil, "table sizes to measure")
	cmd.Flags().StringSliceVar(&opts.impls, "impl", nil, "implementations to measure")
	cmd.Flags().StringVar(&opts.order, "order", "", "insertion order: sorted, reversed or random")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "shuffle seed for random order")
	cmd.Flags().StringVar(&opts.plot, "plot", "", "write an HTML height chart to this file")

	return cmd
}

func (a *app) resolveBenchOptions(cmd *cobra.Command, flags benchOptions) bench.Options {
	opts := bench.Options{
		Sizes: a.cfg.Bench.Sizes,
		Impls: a.cfg.Bench.Impls,
		Order: a.cfg.Bench.Order,
		Seed:  a.cfg.Bench.Seed,
	}

	if cmd.Flags().Changed("sizes") {
		opts.Sizes = flags.sizes
	}

	if cmd.Flags().Changed("impl") {
		opts.Impls = flags.impls
	}

	if cmd.Flags().Changed("order") {
		opts.Order = flags.order
	}

	if cmd.Flags().Changed("seed") {
		opts.Seed = flags.seed
	}

	return opts
}

func (a *app) bench(ctx context.Context, cmd *cobra.Command, opts bench.Options, plotPath string) error {
	registry, provider, err := observability.NewPrometheusMeter()
	if err != nil {
		return err
	}

	defer func() {
		if shutdownErr := provider.Shutdown(context.Background()); shutdownErr != nil {
			a.logger().Warn("bench meter shutdown failed", "error", shutdownErr)
		}
	}()

	metrics, err := observability.NewTableMetrics(provider.Meter("github.com/Sumatoshi-tech/symtab/bench"))
	if err != nil {
		return err
	}

	results, err := bench.Run(ctx, opts, metrics, a.logger())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	tw := newTitledTable(out, "Order "+opts.Order, "Impl", "Size", "Height", "Build", "Lookups", "Per lookup")

	for _, r := range results {
		tw.AppendRow([]any{r.Impl, humanize.Comma(int64(r.Size)), r.Height, r.Build, r.Lookup, r.PerLookup()})
	}

	tw.Render()

	counts, err := operationCounts(registry)
	if err != nil {
		return err
	}

	ops := newTitledTable(out, "Recorded operations", "Impl", "Op", "Count")

	for _, c := range counts {
		ops.AppendRow([]any{c.impl, c.op, humanize.Comma(int64(c.value))})
	}

	ops.Render()

	if plotPath == "" {
		return nil
	}

	a.logger().DebugContext(ctx, "writing height chart", "path", plotPath)

	return writePlot(plotPath, results)
}

func writePlot(path string, results []bench.Result) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create plot: %w", err)
	}

	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close plot: %w", closeErr)
		}
	}()

	return bench.Plot(f, results)
}

type operationCount struct {
	impl  string
	op    string
	value float64
}

// operationCounts reads the operation counter back from registry, sorted by
// implementation and operation.
func operationCounts(registry *prometheus.Registry) ([]operationCount, error) {
	families, err := registry.Gather()
	if err != nil {
		return nil, fmt.Errorf("gather metrics: %w", err)
	}

	var counts []operationCount

	for _, family := range families {
		if family.GetType() != dto.MetricType_COUNTER || !strings.HasPrefix(family.GetName(), operationsMetric) {
			continue
		}

		for _, m := range family.GetMetric() {
			c := operationCount{value: m.GetCounter().GetValue()}

			for _, label := range m.GetLabel() {
				switch label.GetName() {
				case "impl":
					c.impl = label.GetValue()
				case "op":
					c.op = label.GetValue()
				}
			}

			counts = append(counts, c)
		}
	}

	slices.SortFunc(counts, func(x, y operationCount) int {
		if n := strings.Compare(x.impl, y.impl); n != 0 {
			return n
		}

		return strings.Compare(x.op, y.op)
	})

	return counts, nil
}
