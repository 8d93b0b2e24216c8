package vm

import (
	"context"
	"time"
)

// HAL is the set of frontend collaborators driven by Run.
type HAL interface {
	// ReadInput reports key transitions since the previous call. Returning an
	// error stops Run with that error.
	ReadInput(keyDown func(Key), keyUp func(Key)) error
	Draw(frame *Frame) error
	// Sound is called once per frame with whether the sound timer is nonzero.
	Sound(active bool) error
	WaitForNextFrame() error
}

// Run drives the machine until ctx is cancelled, the HAL fails, or a fatal
// machine error occurs.
func (vm *VM) Run(ctx context.Context, hal HAL) error {
	last := vm.opts.Now()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := hal.ReadInput(vm.keypad.Press, vm.keypad.Release); err != nil {
			return err
		}

		now := vm.opts.Now()
		err := vm.advance(ctx, now.Sub(last))
		last = now
		if err != nil {
			return err
		}

		if vm.drawFlag {
			frame := vm.display.Snapshot()
			if err := hal.Draw(&frame); err != nil {
				return err
			}
			vm.drawFlag = false
		}

		if err := hal.Sound(vm.SoundActive()); err != nil {
			return err
		}

		if err := hal.WaitForNextFrame(); err != nil {
			return err
		}
	}
}

// Advance runs the instructions and timer ticks due after elapsed wall time.
// Timer ticks are spread evenly between the instructions.
func (vm *VM) Advance(elapsed time.Duration) error {
	return vm.advance(context.Background(), elapsed)
}

func (vm *VM) advance(ctx context.Context, elapsed time.Duration) error {
	cycles, ticks := vm.clock.Advance(elapsed)

	applied := 0
	for i := 0; i < cycles; i++ {
		for applied < ticks && applied*cycles <= i*ticks {
			vm.tickTimers()
			applied++
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		if err := vm.Step(); err != nil {
			return err
		}
	}

	for ; applied < ticks; applied++ {
		vm.tickTimers()
	}

	return nil
}
