// pkg/cleaner/observer.go
package cleaner

import "time"

// Observer receives timings and outcomes of cleaning runs
type Observer interface {
	// ObserveStep is called after each step that ran
	ObserveStep(step string, elapsed time.Duration)
	// ObserveRun is called once per run. result is nil when err is not.
	ObserveRun(result *Result, err error)
}

type nopObserver struct{}

func (nopObserver) ObserveStep(string, time.Duration) {}
func (nopObserver) ObserveRun(*Result, error)         {}
