package vm

import "time"

const (
	TimerFrequency = 60
	timerPeriod    = time.Second / TimerFrequency
)

// Clock converts elapsed wall time into due CPU cycles and due 60 Hz timer
// ticks. The two are accumulated separately, so the timer rate never depends
// on the instruction rate.
type Clock struct {
	cyclePeriod time.Duration
	cycleAcc    time.Duration
	timerAcc    time.Duration
}

// NewClock clamps cyclesPerSecond to [1, MaxCyclesPerSecond].
func NewClock(cyclesPerSecond int) *Clock {
	cyclesPerSecond = max(1, min(cyclesPerSecond, MaxCyclesPerSecond))
	return &Clock{cyclePeriod: time.Second / time.Duration(cyclesPerSecond)}
}

// Advance adds elapsed and returns the cycles and ticks now due. Remainders
// are carried into the next call.
func (c *Clock) Advance(elapsed time.Duration) (cycles, ticks int) {
	if elapsed <= 0 {
		return 0, 0
	}

	c.cycleAcc += elapsed
	cycles = int(c.cycleAcc / c.cyclePeriod)
	c.cycleAcc -= time.Duration(cycles) * c.cyclePeriod

	c.timerAcc += elapsed
	ticks = int(c.timerAcc / timerPeriod)
	c.timerAcc -= time.Duration(ticks) * timerPeriod

	return cycles, ticks
}
