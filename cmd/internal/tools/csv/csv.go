package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/nathanhack/memprobe/cmd/internal/tools"
	"github.com/spf13/cobra"
)

var OutputFile string

var CSVRun = func(cmd *cobra.Command, args []string) {
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

	err = Write(f, rs)
	if err != nil {
		fmt.Println(err)
	}
}

var header = []string{
	"Report", "Profile", "Order", "Dimension", "Cycles",
	"0To1", "1To0", "Flips/Cycle", "Elapsed Mean (ms)", "Elapsed P50 (ms)", "Elapsed P99 (ms)",
}

// Write writes one record per report and profile.
func Write(out io.Writer, rs *tools.Reports) error {
	w := csv.NewWriter(out)

	err := w.Write(header)
	if err != nil {
		return err
	}

	for i, r := range rs.Reports {
		for _, name := range r.Names() {
			s := r.Profiles[name]
			record := []string{
				rs.Labels[i],
				name,
				s.Order.String(),
				fmt.Sprint(s.Dimension),
				fmt.Sprint(s.Cycles),
				fmt.Sprint(s.ZeroToOneFlips),
				fmt.Sprint(s.OneToZeroFlips),
				fmt.Sprint(s.FlipsPerCycle.Mean),
				fmt.Sprint(s.ElapsedMillis.Mean),
				fmt.Sprint(s.Quantile(0.5)),
				fmt.Sprint(s.Quantile(0.99)),
			}
			err = w.Write(record)
			if err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}
