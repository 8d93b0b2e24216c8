package vm

import (
	"context"
	"time"
)

type fakeClock struct {
	now  time.Time
	step time.Duration
}

func (c *fakeClock) Now() time.Time {
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

type fakeHAL struct {
	frames    int
	maxFrames int
	cancel    context.CancelFunc

	draws     int
	lastFrame Frame
	sound     []bool

	// pending key events, delivered on the next ReadInput
	down    []Key
	up      []Key
	inputFn func(frame int) error
}

func (h *fakeHAL) ReadInput(keyDown func(Key), keyUp func(Key)) error {
	if h.inputFn != nil {
		if err := h.inputFn(h.frames); err != nil {
			return err
		}
	}

	for _, k := range h.down {
		keyDown(k)
	}
	for _, k := range h.up {
		keyUp(k)
	}
	h.down, h.up = nil, nil
	return nil
}

func (h *fakeHAL) Draw(frame *Frame) error {
	h.draws++
	h.lastFrame = *frame
	return nil
}

func (h *fakeHAL) Sound(active bool) error {
	h.sound = append(h.sound, active)
	return nil
}

func (h *fakeHAL) WaitForNextFrame() error {
	h.frames++
	if h.frames >= h.maxFrames && h.cancel != nil {
		h.cancel()
	}
	return nil
}
