package harness

import (
	"sync"

	"github.com/ethereum-optimism/infra/op-harness/types"
)

// Score weights of the auto-stop policy.
const (
	autoStopFailWeight  = 1
	autoStopErrorWeight = 5
	autoStopPassCredit  = 2
)

var _ Observer = (*AutoStopper)(nil)

// AutoStopper requests a stop once too many tests fail. Every failure adds
// one to a score and every error five; a pass takes two off, never going
// below zero. When the score reaches the threshold, stop is called once.
type AutoStopper struct {
	BaseObserver
	threshold int
	stop      func()

	mu        sync.Mutex
	score     int
	triggered bool
}

// NewAutoStopper creates a policy calling stop at threshold.
func NewAutoStopper(threshold int, stop func()) *AutoStopper {
	return &AutoStopper{threshold: threshold, stop: stop}
}

func (a *AutoStopper) StartingTestRun(*RunInfo) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.score = 0
	a.triggered = false
}

func (a *AutoStopper) FinishedTest(r *types.TestResult) {
	a.mu.Lock()
	switch r.Status().Type {
	case types.Passed:
		a.score = max(0, a.score-autoStopPassCredit)
	case types.Failed:
		a.score += autoStopFailWeight
	case types.Error:
		a.score += autoStopErrorWeight
	}
	fire := !a.triggered && a.threshold > 0 && a.score >= a.threshold
	if fire {
		a.triggered = true
	}
	a.mu.Unlock()
	if fire {
		a.stop()
	}
}

// Score returns the current score.
func (a *AutoStopper) Score() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.score
}
