package util

import (
	"testing"
	"time"

	rperrors "github.com/runpod-tools/runpod-cli/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func noSleep(time.Duration) {}

func TestPollUntilReached(t *testing.T) {
	calls := 0
	var ticks []time.Duration
	p := Poller{
		Interval: 2 * time.Second,
		MaxWait:  300 * time.Second,
		Sleep:    noSleep,
		OnTick:   func(e time.Duration) { ticks = append(ticks, e) },
	}
	outcome, err := p.PollUntil(func() (bool, error) {
		calls++
		return calls == 3, nil
	})
	assert.Nil(t, err)
	assert.Equal(t, Reached, outcome)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, ticks)
}

func TestPollUntilTimesOut(t *testing.T) {
	tests := []struct {
		name      string
		interval  time.Duration
		maxWait   time.Duration
		wantCalls int
	}{
		{"start flow", StartPollInterval, StartPollMaxWait, 150},
		{"terminate flow", TerminatePollInterval, TerminatePollMaxWait, 60},
		{"uneven", 2 * time.Second, 5 * time.Second, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			var slept time.Duration
			p := Poller{
				Interval: tt.interval,
				MaxWait:  tt.maxWait,
				Sleep:    func(d time.Duration) { slept += d },
			}
			outcome, err := p.PollUntil(func() (bool, error) {
				calls++
				return false, nil
			})
			assert.Nil(t, err)
			assert.Equal(t, TimedOut, outcome)
			assert.Equal(t, tt.wantCalls, calls)
			assert.Equal(t, time.Duration(tt.wantCalls)*tt.interval, slept)
		})
	}
}

func TestPollUntilPredicateError(t *testing.T) {
	p := Poller{Interval: time.Second, MaxWait: 10 * time.Second, Sleep: noSleep}
	_, err := p.PollUntil(func() (bool, error) {
		return false, rperrors.New("api down")
	})
	assert.NotNil(t, err)
}

func TestPollUntilInvalidInterval(t *testing.T) {
	_, err := Poller{MaxWait: time.Second}.PollUntil(func() (bool, error) { return true, nil })
	assert.NotNil(t, err)
}

func TestPollOutcomeString(t *testing.T) {
	assert.Equal(t, "reached", Reached.String())
	assert.Equal(t, "timed out", TimedOut.String())
}
