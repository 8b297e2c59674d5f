package cmd

import (
	"github.com/nathanhack/memprobe/cmd/internal/tools/chart"
	"github.com/nathanhack/memprobe/cmd/internal/tools/csv"
	"github.com/nathanhack/memprobe/cmd/internal/tools/summary"

	"github.com/spf13/cobra"
)

// toolsCmd represents the tools command
var toolsCmd = &cobra.Command{
	Use:     "tools",
	Aliases: []string{"t"},
	Short:   "Tools for probe reports",
	Long:    `Tools for probe reports`,
}

// toolsResultsCmd represents the results command
var toolsResultsCmd = &cobra.Command{
	Use:     "results",
	Aliases: []string{"r"},
	Short:   "A tool to organize results for graphing and comparison",
	Long:    `A tool to organize results for graphing and comparison`,
}

// toolsCSVCmd represents the csv command
var toolsCSVCmd = &cobra.Command{
	Use:     "csv REPORT_JSON [REPORT_JSON] ...",
	Aliases: []string{"c"},
	Short:   "Export to a CSV file",
	Long:    `Export to a CSV file with one row per report and profile`,
	Args:    cobra.MinimumNArgs(1),
	Run:     csv.CSVRun,
}

// toolsChartCmd represents the chart command
var toolsChartCmd = &cobra.Command{
	Use:     "chart REPORT_JSON [REPORT_JSON] ...",
	Aliases: []string{"ch"},
	Short:   "Render an HTML bar chart",
	Long:    `Render an HTML bar chart comparing the profiles of each report`,
	Args:    cobra.MinimumNArgs(1),
	Run:     chart.ChartRun,
}

// toolsSummaryCmd represents the summary command
var toolsSummaryCmd = &cobra.Command{
	Use:     "summary REPORT_JSON [REPORT_JSON] ...",
	Aliases: []string{"s"},
	Short:   "Print a summary table",
	Long:    `Print a summary table with flip counts, bit error rates and cycle time quantiles`,
	Args:    cobra.MinimumNArgs(1),
	Run:     summary.SummaryRun,
}

func init() {
	rootCmd.AddCommand(toolsCmd)
	toolsCmd.AddCommand(toolsResultsCmd)

	toolsResultsCmd.AddCommand(toolsCSVCmd)
	toolsCSVCmd.Flags().StringVarP(&csv.OutputFile, "output", "o", "results.csv", "filename of the combined csv")

	toolsResultsCmd.AddCommand(toolsChartCmd)
	toolsChartCmd.Flags().StringVarP(&chart.OutputFile, "output", "o", "results.html", "filename of the chart")
	toolsChartCmd.Flags().BoolVarP(&chart.Elapsed, "elapsed", "e", false, "chart the mean cycle time instead of flips per cycle")

	toolsResultsCmd.AddCommand(toolsSummaryCmd)
}
