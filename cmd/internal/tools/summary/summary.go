package summary

import (
	"fmt"
	"io"
	"os"

	"github.com/nathanhack/memprobe/cmd/internal/tools"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var SummaryRun = func(cmd *cobra.Command, args []string) {
	rs, err := tools.LoadReports(args)
	if err != nil {
		fmt.Println(err)
		return
	}

	Write(os.Stdout, rs)
}

// Write prints a table of every profile in every report, with the
// observed bit error rate over the bits scanned.
func Write(out io.Writer, rs *tools.Reports) {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Report", "Profile", "Order", "Dim", "Cycles", "0To1", "1To0", "BER", "P50 ms", "P99 ms"})

	for i, r := range rs.Reports {
		for _, name := range r.Names() {
			s := r.Profiles[name]
			ber := 0.0
			if bits := s.BitsScanned(); bits > 0 {
				ber = float64(s.ZeroToOneFlips+s.OneToZeroFlips) / float64(bits)
			}
			table.Append([]string{
				rs.Labels[i],
				name,
				s.Order.String(),
				fmt.Sprint(s.Dimension),
				fmt.Sprint(s.Cycles),
				fmt.Sprint(s.ZeroToOneFlips),
				fmt.Sprint(s.OneToZeroFlips),
				fmt.Sprintf("%.3g", ber),
				fmt.Sprintf("%.3f", s.Quantile(0.5)),
				fmt.Sprintf("%.3f", s.Quantile(0.99)),
			})
		}
	}
	table.Render()
}
