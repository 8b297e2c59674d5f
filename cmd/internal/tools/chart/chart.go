package chart

import (
	"fmt"
	"io"
	"os"

	"github.com/nathanhack/memprobe/cmd/internal/tools"
	"github.com/spf13/cobra"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

var OutputFile string
var Elapsed bool

var ChartRun = func(cmd *cobra.Command, args []string) {
	rs, err := tools.LoadReports(args)
	if err != nil {
		fmt.Println(err)
		return
	}

	f, err := os.Create(OutputFile)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer f.Close()

	err = Render(f, rs, Elapsed)
	if err != nil {
		fmt.Println(err)
	}
}

// Render draws a bar per report for every profile, showing either the mean
// flips per cycle or the mean cycle time.
func Render(out io.Writer, rs *tools.Reports, elapsed bool) error {
	names := rs.ProfileNames()

	yName := "Flips per Cycle"
	if elapsed {
		yName = "Mean Cycle Time (ms)"
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Results",
			Subtitle: yName,
			Left:     "20%",
		}),
		charts.WithLegendOpts(opts.Legend{Show: true,
			Orient: "vertical",
			Right:  "0",
			Top:    "top",
			Type:   "scroll",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:      "Profile",
			SplitLine: &opts.SplitLine{Show: true},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:      yName,
			SplitLine: &opts.SplitLine{Show: true},
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
	)

	bar.SetXAxis(names)

	for i, r := range rs.Reports {
		data := make([]opts.BarData, len(names))
		for j, name := range names {
			s, has := r.Profiles[name]
			switch {
			case !has:
				data[j] = opts.BarData{Value: nil}
			case elapsed:
				data[j] = opts.BarData{Value: s.ElapsedMillis.Mean}
			default:
				data[j] = opts.BarData{Value: s.FlipsPerCycle.Mean}
			}
		}
		bar.AddSeries(rs.Labels[i], data)
	}

	return bar.Render(out)
}
