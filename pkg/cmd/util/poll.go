package util

import (
	"time"

	rperrors "github.com/runpod-tools/runpod-cli/pkg/errors"
)

type PollOutcome int

const (
	Reached PollOutcome = iota
	TimedOut
)

func (o PollOutcome) String() string {
	if o == Reached {
		return "reached"
	}
	return "timed out"
}

const (
	StartPollInterval     = 2 * time.Second
	StartPollMaxWait      = 300 * time.Second
	TerminatePollInterval = 500 * time.Millisecond
	TerminatePollMaxWait  = 30 * time.Second
)

// Poller checks a condition on a fixed interval until it holds or MaxWait has
// been spent. Elapsed time advances by Interval per check, so a slow
// predicate does not shorten the number of checks.
type Poller struct {
	Interval time.Duration
	MaxWait  time.Duration
	// Sleep defaults to time.Sleep.
	Sleep func(time.Duration)
	// OnTick is called after every unsuccessful check with the time spent so far.
	OnTick func(elapsed time.Duration)
}

func (p Poller) PollUntil(predicate func() (bool, error)) (PollOutcome, error) {
	sleep := p.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	if p.Interval <= 0 {
		return TimedOut, rperrors.Errorf("poll interval must be positive, got %s", p.Interval)
	}

	var elapsed time.Duration
	for elapsed < p.MaxWait {
		done, err := predicate()
		if err != nil {
			return TimedOut, rperrors.WrapAndTrace(err)
		}
		if done {
			return Reached, nil
		}
		sleep(p.Interval)
		elapsed += p.Interval
		if p.OnTick != nil {
			p.OnTick(elapsed)
		}
	}
	return TimedOut, nil
}
