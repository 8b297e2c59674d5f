package sink

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/nathanhack/memprobe/probe"
	"github.com/nathanhack/memprobe/sink/report"
	"github.com/nathanhack/memprobe/traversal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

func result(name string, cycle uint64, zeroToOne, oneToZero uint64) probe.Result {
	return probe.Result{
		ProfileID:      probe.CustomProfile,
		Profile:        name,
		Order:          traversal.ContiguousOrder,
		Dimension:      4,
		Cycle:          cycle,
		ZeroToOneFlips: zeroToOne,
		OneToZeroFlips: oneToZero,
		Elapsed:        time.Duration(cycle+1) * time.Millisecond,
		Timestamp:      time.Unix(1700000000+int64(cycle), 0),
	}
}

func TestQueueConcurrentProducers(t *testing.T) {
	const producers = 8
	const perProducer = 100

	q := NewQueue(producers * perProducer)
	wg := sync.WaitGroup{}
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				if err := q.Enqueue(result("p", uint64(i), 0, 0)); err != nil {
					t.Error(err)
				}
			}
		}()
	}
	wg.Wait()
	q.Close()

	count := 0
	err := q.Drain(context.Background(), HandlerFunc(func(probe.Result) error {
		count++
		return nil
	}))
	require.NoError(t, err)
	require.Equal(t, producers*perProducer, count)
	require.Equal(t, uint64(producers*perProducer), q.Enqueued())
	require.Equal(t, uint64(0), q.Dropped())
}

func TestQueueFullDrops(t *testing.T) {
	q := NewQueue(1)
	require.NoError(t, q.Enqueue(result("a", 0, 0, 0)))
	require.ErrorIs(t, q.Enqueue(result("a", 1, 0, 0)), ErrQueueFull)

	q.Timeout = time.Millisecond
	start := time.Now()
	require.ErrorIs(t, q.Enqueue(result("a", 2, 0, 0)), ErrQueueFull)
	require.Less(t, time.Since(start), time.Second)
	require.Equal(t, uint64(2), q.Dropped())
}

func TestQueueClosed(t *testing.T) {
	q := NewQueue(0)
	q.Close()
	q.Close()
	require.ErrorIs(t, q.Enqueue(result("a", 0, 0, 0)), ErrQueueClosed)
}

func TestDrainStopsOnContext(t *testing.T) {
	q := NewQueue(4)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, q.Drain(ctx), context.Canceled)
}

func TestDrainKeepsDeliveringAfterHandlerError(t *testing.T) {
	q := NewQueue(4)
	require.NoError(t, q.Enqueue(result("a", 0, 0, 0)))
	require.NoError(t, q.Enqueue(result("a", 1, 0, 0)))
	q.Close()

	failure := errors.New("boom")
	seen := 0
	err := q.Drain(context.Background(),
		HandlerFunc(func(probe.Result) error { return failure }),
		HandlerFunc(func(probe.Result) error {
			seen++
			return nil
		}),
	)
	require.ErrorIs(t, err, failure)
	require.Equal(t, 2, seen)
}

func TestLogHandler(t *testing.T) {
	logger, hook := test.NewNullLogger()
	h := &LogHandler{Logger: logger, Level: logrus.InfoLevel}

	require.NoError(t, h.Handle(result("a", 0, 0, 0)))
	require.NoError(t, h.Handle(result("a", 1, 2, 1)))

	entries := hook.AllEntries()
	require.Len(t, entries, 2)
	require.Equal(t, logrus.InfoLevel, entries[0].Level)
	require.Equal(t, logrus.WarnLevel, entries[1].Level)
	require.Equal(t, "0To1 = 2, 1To0 = 1", entries[1].Message)
	require.Equal(t, uint64(2), entries[1].Data["zeroToOne"])
	require.Equal(t, "contiguous", entries[1].Data["order"])
}

func TestRecorderCheckpoints(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	r := NewRecorder(nil, path, 2)

	require.NoError(t, r.Handle(result("a", 0, 1, 0)))
	loaded, err := report.Load(path)
	require.NoError(t, err)
	require.Nil(t, loaded)

	require.NoError(t, r.Handle(result("a", 1, 0, 3)))
	loaded, err = report.Load(path)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Equal(t, 2, loaded.Profiles["a"].Cycles)

	require.NoError(t, r.Handle(result("b", 0, 0, 0)))
	require.NoError(t, r.Flush())
	loaded, err = report.Load(path)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, loaded.Names())

	snapshot := r.Report()
	require.Equal(t, uint64(1), snapshot.Profiles["a"].ZeroToOneFlips)
	require.Equal(t, uint64(3), snapshot.Profiles["a"].OneToZeroFlips)
}

func TestRecorderInMemory(t *testing.T) {
	r := NewRecorder(nil, "", 1)
	require.NoError(t, r.Handle(result("a", 0, 0, 0)))
	require.NoError(t, r.Flush())
	require.Equal(t, 1, r.Report().Profiles["a"].Cycles)
}

func TestQueueAsProbeSink(t *testing.T) {
	q := NewQueue(16)
	r := NewRecorder(nil, "", 0)

	done := make(chan error)
	go func() {
		done <- q.Drain(context.Background(), r)
	}()

	d := &probe.Driver{
		Profile:    probe.Profile{Name: "q", Dimension: 4},
		Iterations: 6,
		CPU:        probe.NoCPU,
		Sink:       q,
		Wait:       func(time.Duration) {},
	}
	_, err := d.Run(context.Background())
	require.NoError(t, err)
	q.Close()
	require.NoError(t, <-done)

	require.Equal(t, 6, r.Report().Profiles["q"].Cycles)
}
