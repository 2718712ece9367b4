package bench

import (
	"fmt"
	"io"
	"math/bits"
	"slices"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const lineWidth = 2

// Plot renders tree height against size for each implementation as an HTML
// line chart, together with the 2·lg(n) bound of a red-black tree.
func Plot(w io.Writer, results []Result) error {
	var (
		sizes []int
		impls []string
	)

	for _, r := range results {
		if !slices.Contains(sizes, r.Size) {
			sizes = append(sizes, r.Size)
		}

		if !slices.Contains(impls, r.Impl) {
			impls = append(impls, r.Impl)
		}
	}

	slices.Sort(sizes)

	labels := make([]string, len(sizes))
	bound := make([]opts.LineData, len(sizes))

	for i, size := range sizes {
		labels[i] = strconv.Itoa(size)
		bound[i] = opts.LineData{Value: 2 * bits.Len(uint(size))}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Tree height by size"}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "keys"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "height"}),
	)
	line.SetXAxis(labels)

	for _, impl := range impls {
		data := make([]opts.LineData, len(sizes))

		for i, size := range sizes {
			data[i] = opts.LineData{Value: "-"}

			for _, r := range results {
				if r.Impl == impl && r.Size == size {
					data[i] = opts.LineData{Value: r.Height}
				}
			}
		}

		line.AddSeries(impl, data, charts.WithLineStyleOpts(opts.LineStyle{Width: lineWidth}))
	}

	line.AddSeries("2·lg n", bound,
		charts.WithLineStyleOpts(opts.LineStyle{Width: 1, Type: "dashed"}))

	if err := line.Render(w); err != nil {
		return fmt.Errorf("render height chart: %w", err)
	}

	return nil
}
