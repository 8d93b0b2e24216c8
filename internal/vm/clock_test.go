package vm

import (
	"testing"
	"time"

	"github.com/retroenv/retrogolib/assert"
)

func TestClock_Advance(t *testing.T) {
	c := NewClock(700)

	cycles, ticks := c.Advance(time.Second)
	assert.Equal(t, 700, cycles)
	assert.Equal(t, 60, ticks)

	_, ticks = c.Advance(10 * time.Millisecond)
	assert.Equal(t, 0, ticks)

	// remainder carries over
	_, ticks = c.Advance(10 * time.Millisecond)
	assert.Equal(t, 1, ticks)

	cycles, ticks = c.Advance(0)
	assert.Equal(t, 0, cycles)
	assert.Equal(t, 0, ticks)
}

func TestTimers_DecrementByWallClock(t *testing.T) {
	for _, hz := range []int{1, 60, 700, 5000} {
		opts := testOptions()
		opts.CyclesPerSecond = hz

		vm := newTestVM(t, opts, 0x1200)
		vm.delayTimer = 60
		vm.soundTimer = 30

		assert.NoError(t, vm.Advance(time.Second))
		assert.Equal(t, uint8(0), vm.DelayTimer())
		assert.Equal(t, uint8(0), vm.SoundTimer())
		assert.False(t, vm.SoundActive())
	}
}

func TestTimers_HalfSecond(t *testing.T) {
	vm := newTestVM(t, testOptions(), 0x1200)
	vm.delayTimer = 60

	for i := 0; i < 30; i++ {
		assert.NoError(t, vm.Advance(time.Second/60))
	}
	assert.Equal(t, uint8(30), vm.DelayTimer())
}

func TestTimers_ClampAtZero(t *testing.T) {
	vm := newTestVM(t, testOptions(), 0x1200)
	vm.delayTimer = 2

	assert.NoError(t, vm.Advance(time.Second))
	assert.Equal(t, uint8(0), vm.DelayTimer())
}

func TestTimers_TickWhileAwaitingKey(t *testing.T) {
	vm := newTestVM(t, testOptions(), 0x6A3C, 0xFA15, 0xF00A)
	stepN(t, vm, 3)
	assert.True(t, vm.AwaitingKey())

	assert.NoError(t, vm.Advance(time.Second))
	assert.Equal(t, uint8(0), vm.DelayTimer())
	assert.True(t, vm.AwaitingKey())
	assert.Equal(t, uint16(0x206), vm.PC())
}

func TestClock_RateClamped(t *testing.T) {
	for _, hz := range []int{0, -1, MaxCyclesPerSecond + 1, 2_000_000_000} {
		c := NewClock(hz)

		cycles, ticks := c.Advance(time.Second)
		assert.True(t, cycles >= 1)
		assert.True(t, cycles <= MaxCyclesPerSecond)
		assert.Equal(t, 60, ticks)
	}
}

func TestAdvance_ExcessiveRate(t *testing.T) {
	opts := testOptions()
	opts.CyclesPerSecond = 2_000_000_000

	vm := newTestVM(t, opts, 0x7001, 0x1200)
	assert.Equal(t, MaxCyclesPerSecond, vm.opts.CyclesPerSecond)

	// 1 ms at the maximum rate is 1000 cycles; the add runs once per loop
	assert.NoError(t, vm.Advance(time.Millisecond))
	assert.Equal(t, uint8(1000/2%256), vm.Register(0))
}
