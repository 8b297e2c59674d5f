package run

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nathanhack/memprobe/cmd/internal/config"
	"github.com/nathanhack/memprobe/probe"
	"github.com/nathanhack/memprobe/sink"
	"github.com/nathanhack/memprobe/sink/report"
	"github.com/nathanhack/memprobe/traversal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	Interval   time.Duration
	Iterations uint64
	CPU        int
	ConfigFile string
	OutputFile string
	Checkpoint uint
	QueueSize  int
	Progress   bool
	Quiet      bool

	Name      string
	Dimension int
	Order     traversal.Order
)

var RunRun = func(cmd *cobra.Command, args []string) {
	entries, err := Entries(args, cmd.Flags().Changed("dimension"))
	if err != nil {
		fmt.Println(err)
		return
	}

	rep, err := loadReport(OutputFile)
	if err != nil {
		fmt.Println(err)
		return
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		sig := <-sigs
		fmt.Println()
		fmt.Println(sig)
		cancel()
	}()

	recorder := sink.NewRecorder(rep, OutputFile, int(Checkpoint))
	err = Run(ctx, entries, recorder)
	if err != nil {
		fmt.Println(err)
	}

	if err := recorder.Flush(); err != nil {
		fmt.Println(err)
	}

	final := recorder.Report()
	for _, name := range final.Names() {
		fmt.Printf("%v: %v\n", name, final.Profiles[name])
	}
}

// Entries resolves what to run: a config file, a single custom profile given by flags,
// the built in profiles named in args, or all built in profiles.
func Entries(args []string, custom bool) ([]config.Entry, error) {
	if ConfigFile != "" {
		if len(args) > 0 || custom {
			return nil, fmt.Errorf("profiles and --dimension can not be combined with --config")
		}
		f, err := config.Load(ConfigFile)
		if err != nil {
			return nil, err
		}
		return f.Resolve()
	}

	if CPU < probe.NoCPU {
		return nil, fmt.Errorf("cpu must be %v or a processor index found %v", probe.NoCPU, CPU)
	}

	var profiles []probe.Profile
	switch {
	case custom:
		if len(args) > 0 {
			return nil, fmt.Errorf("profiles can not be combined with --dimension")
		}
		profiles = append(profiles, probe.Profile{
			ID:        probe.CustomProfile,
			Name:      Name,
			Dimension: Dimension,
			Order:     Order,
			Interval:  Interval,
		})
	case len(args) == 0:
		profiles = probe.BuiltinProfiles(Interval)
	default:
		for _, name := range args {
			p, has := probe.LookupProfile(name, Interval)
			if !has {
				return nil, fmt.Errorf("unknown profile %q", name)
			}
			profiles = append(profiles, p)
		}
	}

	entries := make([]config.Entry, 0, len(profiles))
	for _, p := range profiles {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("profile %v: %w", p.Name, err)
		}
		entries = append(entries, config.Entry{Profile: p, Iterations: Iterations, CPU: CPU})
	}
	return entries, nil
}

// Run drives every entry concurrently into a shared queue and drains it into the recorder,
// the log and, for bounded runs, a progress bar.
func Run(ctx context.Context, entries []config.Entry, recorder *sink.Recorder) error {
	queue := sink.NewQueue(QueueSize)
	queue.Timeout = 100 * time.Millisecond

	handlers := []sink.Handler{recorder}
	if !Quiet {
		handlers = append(handlers, sink.NewLogHandler())
	}

	total, bounded := 0, true
	drivers := make([]*probe.Driver, len(entries))
	for i, e := range entries {
		drivers[i] = &probe.Driver{
			Profile:    e.Profile,
			Iterations: e.Iterations,
			CPU:        e.CPU,
			Sink:       queue,
		}
		total += int(e.Iterations)
		bounded = bounded && e.Iterations > 0
	}

	var bar *sink.Progress
	if Progress && bounded {
		bar = sink.NewProgress(total)
		handlers = append(handlers, bar)
	}

	drained := make(chan error, 1)
	go func() {
		//results already queued are still drained after ctx is cancelled
		drained <- queue.Drain(context.Background(), handlers...)
	}()

	runErr := probe.RunAll(ctx, drivers)
	queue.Close()
	drainErr := <-drained

	if bar != nil {
		bar.Finish()
	}
	if dropped := queue.Dropped(); dropped > 0 {
		logrus.Warnf("%v results were dropped because the queue was full", dropped)
	}
	return errors.Join(runErr, drainErr)
}

func loadReport(path string) (*report.Report, error) {
	if path == "" {
		return nil, nil
	}
	return report.Load(path)
}
