package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "memprobe",
	Short: "Memory bit flip probe",
	Long: `memprobe repeatedly writes known bit patterns into blocks of memory, waits while
the memory is exposed to disturbances (for example radiation induced upsets), and counts
the bits that changed. Blocks sized to fit a cache level are scanned contiguously and
blocks larger than the cache are scanned with a stride, so access pattern effects can be
compared alongside the raw flip counts.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		} else {
			logrus.SetLevel(logrus.InfoLevel)
		}
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose info")
}
