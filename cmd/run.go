package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nathanhack/memprobe/cmd/internal/run"
	"github.com/nathanhack/memprobe/internal/affinity"
	"github.com/nathanhack/memprobe/internal/hostinfo"
	"github.com/nathanhack/memprobe/probe"
	"github.com/nathanhack/memprobe/traversal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var _ pflag.Value = (*traversal.Order)(nil)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:     "run [PROFILE] ...",
	Aliases: []string{"r"},
	Short:   "Runs memory probe profiles",
	Long: `Runs the named built in profiles concurrently (all of them when none are named),
a single custom profile given with --dimension, or the profiles of a --config file.
An iteration count of 0 runs until interrupted.`,
	Run: run.RunRun,
}

// profilesCmd represents the profiles command
var profilesCmd = &cobra.Command{
	Use:     "profiles",
	Aliases: []string{"p"},
	Short:   "Lists the built in profiles",
	Long:    `Lists the built in profiles with their dimension, size and traversal order.`,
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, p := range probe.BuiltinProfiles(probe.DefaultInterval) {
			fmt.Printf("%-18v dim=%-5v %8.1f KiB  %v\n", p.Name, p.Dimension, float64(p.Units())/1024, p.Order)
		}
	},
}

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:     "info",
	Aliases: []string{"i"},
	Short:   "Prints host processor and memory facts",
	Long:    `Prints the host processor and memory facts useful for choosing profile dimensions and cpus.`,
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		h, err := hostinfo.Read()
		if err != nil {
			fmt.Println(err)
			return
		}
		fmt.Printf("CPU: %v, cores: %v physical / %v logical, cache: %v KB\n", h.ModelName, h.PhysicalCores, h.LogicalCores, h.CacheSizeKB)
		fmt.Printf("Memory: %.2f GB available of %.2f GB\n", float64(h.AvailableMemory)/(1<<30), float64(h.TotalMemory)/(1<<30))

		cpus, err := affinity.Current()
		if err != nil {
			fmt.Println("Allowed CPUs: unable to read affinity:", err)
			return
		}
		fmt.Printf("Allowed CPUs (--cpu): %v\n", cpuRanges(cpus))
	},
}

// cpuRanges formats sorted cpu indices compactly, e.g. 0-3,6.
func cpuRanges(cpus []int) string {
	parts := make([]string, 0)
	for i := 0; i < len(cpus); {
		j := i
		for j+1 < len(cpus) && cpus[j+1] == cpus[j]+1 {
			j++
		}
		if i == j {
			parts = append(parts, strconv.Itoa(cpus[i]))
		} else {
			parts = append(parts, fmt.Sprintf("%v-%v", cpus[i], cpus[j]))
		}
		i = j + 1
	}
	return strings.Join(parts, ",")
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().DurationVarP(&run.Interval, "interval", "i", probe.DefaultInterval, "the disturb interval between writing and rereading the buffer")
	runCmd.Flags().Uint64VarP(&run.Iterations, "iterations", "n", 0, "the number of cycles per profile; note 0 means run until interrupted")
	runCmd.Flags().IntVarP(&run.CPU, "cpu", "c", probe.NoCPU, "the cpu to pin every profile to; note -1 means do not pin")
	runCmd.Flags().StringVar(&run.ConfigFile, "config", "", "a JSON (with comments) file describing the profiles to run")
	runCmd.Flags().StringVarP(&run.OutputFile, "output", "o", "", "the report json to create or continue")
	runCmd.Flags().UintVar(&run.Checkpoint, "checkpoint", 100, "save the report every this many results")
	runCmd.Flags().IntVar(&run.QueueSize, "queue", 0, "the number of results buffered between profiles and the report")
	runCmd.Flags().BoolVarP(&run.Progress, "progress", "p", false, "show a progress bar (bounded runs only)")
	runCmd.Flags().BoolVarP(&run.Quiet, "quiet", "q", false, "do not log every result")
	runCmd.Flags().StringVar(&run.Name, "name", "custom", "the name of the custom profile")
	runCmd.Flags().IntVarP(&run.Dimension, "dimension", "d", 0, "run a single custom profile with this square dimension (>0)")
	runCmd.Flags().Var(&run.Order, "order", "the traversal order of the custom profile: contiguous or strided")

	rootCmd.AddCommand(profilesCmd)
	rootCmd.AddCommand(infoCmd)
}
