package probe

import (
	"context"
	"errors"
	"sync"

	"github.com/nathanhack/threadpool"
	"github.com/sirupsen/logrus"
)

// RunAll runs every driver concurrently, each on its own locked OS thread,
// and waits for all of them to return. Drivers share nothing but their sinks.
// A driver that fails does not stop the others; all failures are joined in the returned error.
func RunAll(ctx context.Context, drivers []*Driver) error {
	if len(drivers) == 0 {
		return nil
	}

	pool := threadpool.NewFixedSize(ctx, len(drivers), len(drivers))
	errsMux := sync.Mutex{}
	var errs []error

	for _, d := range drivers {
		driver := d
		pool.Add(func() {
			logrus.Infof("starting %v", driver.Profile)
			cycles, err := driver.Run(ctx)
			logrus.Infof("%v finished after %v cycles", driver.Profile.Name, cycles)
			if err != nil {
				errsMux.Lock()
				errs = append(errs, err)
				errsMux.Unlock()
			}
		})
	}
	pool.Wait()

	return errors.Join(errs...)
}
