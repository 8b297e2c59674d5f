package tools

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nathanhack/memprobe/sink/report"
	"golang.org/x/exp/slices"
)

// Reports holds loaded reports along with the label of the file each came from.
type Reports struct {
	Labels  []string
	Reports []*report.Report
}

// LoadReports loads every report file, all of them must exist.
func LoadReports(paths []string) (*Reports, error) {
	if len(paths) < 1 {
		return nil, fmt.Errorf("requires at least one REPORT_JSON")
	}

	rs := &Reports{
		Labels:  make([]string, len(paths)),
		Reports: make([]*report.Report, len(paths)),
	}
	for i, path := range paths {
		r, err := report.Load(path)
		if err != nil {
			return nil, err
		}
		if r == nil {
			return nil, fmt.Errorf("the REPORT_JSON %v must exist", path)
		}
		rs.Labels[i] = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		rs.Reports[i] = r
	}
	return rs, nil
}

// ProfileNames returns the sorted union of the profile names of all reports.
func (rs *Reports) ProfileNames() []string {
	seen := make(map[string]bool)
	names := make([]string, 0)
	for _, r := range rs.Reports {
		for name := range r.Profiles {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	slices.Sort(names)
	return names
}
