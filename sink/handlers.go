package sink

import (
	"sync"

	"github.com/cheggaaa/pb/v3"
	"github.com/nathanhack/memprobe/probe"
	"github.com/nathanhack/memprobe/sink/report"
	"github.com/sirupsen/logrus"
)

// LogHandler writes every result as a structured log entry. Cycles with flips are logged at
// warn level, clean cycles at Level.
type LogHandler struct {
	Logger *logrus.Logger
	Level  logrus.Level
}

// NewLogHandler logs clean cycles at info level through the standard logrus logger.
func NewLogHandler() *LogHandler {
	return &LogHandler{
		Logger: logrus.StandardLogger(),
		Level:  logrus.InfoLevel,
	}
}

func (h *LogHandler) Handle(result probe.Result) error {
	entry := h.Logger.WithFields(logrus.Fields{
		"profile":   result.Profile,
		"id":        result.ProfileID.String(),
		"order":     result.Order.String(),
		"cycle":     result.Cycle,
		"zeroToOne": result.ZeroToOneFlips,
		"oneToZero": result.OneToZeroFlips,
		"millis":    result.Millis(),
		"timestamp": result.Timestamp.UnixMilli(),
	})
	level := h.Level
	if result.Flips() > 0 {
		level = logrus.WarnLevel
	}
	entry.Log(level, result.Summary())
	return nil
}

// Recorder accumulates results into a report and checkpoints it to Path
// every CheckpointEvery results. An empty Path keeps the report in memory only.
type Recorder struct {
	Path            string
	CheckpointEvery int

	mux    sync.Mutex
	report *report.Report
	count  int
}

// NewRecorder continues rep, or starts a new report when rep is nil.
func NewRecorder(rep *report.Report, path string, checkpointEvery int) *Recorder {
	if rep == nil {
		rep = report.New()
	}
	return &Recorder{
		Path:            path,
		CheckpointEvery: checkpointEvery,
		report:          rep,
	}
}

func (r *Recorder) Handle(result probe.Result) error {
	r.mux.Lock()
	defer r.mux.Unlock()

	r.report.Add(result)
	r.count++

	if r.Path != "" && r.CheckpointEvery > 0 && r.count%r.CheckpointEvery == 0 {
		return report.Save(r.Path, r.report)
	}
	return nil
}

// Flush saves the report to Path.
func (r *Recorder) Flush() error {
	r.mux.Lock()
	defer r.mux.Unlock()
	if r.Path == "" {
		return nil
	}
	return report.Save(r.Path, r.report)
}

// Report returns a copy of the current report.
func (r *Recorder) Report() *report.Report {
	r.mux.Lock()
	defer r.mux.Unlock()
	return r.report.Clone()
}

// Progress advances a progress bar once per result. It is meant for bounded runs
// where the total number of cycles is known.
type Progress struct {
	bar *pb.ProgressBar
}

// NewProgress starts a progress bar for total results.
func NewProgress(total int) *Progress {
	return &Progress{bar: pb.StartNew(total)}
}

func (p *Progress) Handle(probe.Result) error {
	p.bar.Increment()
	return nil
}

// Finish stops the bar.
func (p *Progress) Finish() {
	p.bar.Finish()
}
