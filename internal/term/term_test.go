package term

import (
	"errors"
	"testing"
	"time"

	"github.com/kapitanov/chip8emu/internal/vm"
	"github.com/nsf/termbox-go"
	"github.com/retroenv/retrogolib/assert"
)

func TestKeyMap(t *testing.T) {
	seen := map[vm.Key]bool{}
	for _, ch := range "1234qwerasdfzxcv" {
		key, ok := keyMap(ch)
		assert.True(t, ok)
		seen[key] = true
	}
	assert.Equal(t, vm.KeyCount, len(seen))

	upper, _ := keyMap('V')
	lower, _ := keyMap('v')
	assert.Equal(t, lower, upper)

	_, ok := keyMap('p')
	assert.False(t, ok)
}

func TestKeyHolder(t *testing.T) {
	start := time.Unix(100, 0)
	h := newKeyHolder(100 * time.Millisecond)

	h.press(vm.Key3, start)
	h.press(vm.KeyE, start.Add(50*time.Millisecond))

	assert.Equal(t, 0, len(h.expire(start.Add(99*time.Millisecond))))

	released := h.expire(start.Add(100 * time.Millisecond))
	assert.Equal(t, []vm.Key{vm.Key3}, released)

	// repeat extends the hold
	h.press(vm.KeyE, start.Add(120*time.Millisecond))
	assert.Equal(t, 0, len(h.expire(start.Add(200*time.Millisecond))))

	released = h.expire(start.Add(220 * time.Millisecond))
	assert.Equal(t, []vm.Key{vm.KeyE}, released)

	assert.Equal(t, 0, len(h.expire(start.Add(time.Hour))))
}

func TestCellColors(t *testing.T) {
	tests := []struct {
		top, bottom bool
		fg, bg      termbox.Attribute
	}{
		{false, false, bgColor, bgColor},
		{true, false, fgColor, bgColor},
		{false, true, bgColor, fgColor},
		{true, true, fgColor, fgColor},
	}

	for _, tt := range tests {
		fg, bg := cellColors(tt.top, tt.bottom)
		assert.Equal(t, tt.fg, fg)
		assert.Equal(t, tt.bg, bg)
	}
}

func TestPump_ShutdownWithFullBuffer(t *testing.T) {
	term := newTerminal(1)

	// same contract as termbox: Interrupt blocks until PollEvent takes it
	interrupt := make(chan struct{})
	poll := func() termbox.Event {
		select {
		case <-interrupt:
			return termbox.Event{Type: termbox.EventInterrupt}
		default:
			return termbox.Event{Type: termbox.EventKey, Ch: '1'}
		}
	}

	exited := make(chan struct{})
	go func() {
		term.pump(poll)
		close(exited)
	}()

	// nothing reads events, so the pump blocks once the buffer is full
	for len(term.events) < cap(term.events) {
		time.Sleep(time.Millisecond)
	}
	term.stop()
	term.stop()

	assert.True(t, send(interrupt, time.Second))
	assert.True(t, wait(exited, time.Second))

	queued := 0
	for range term.events {
		queued++
	}
	assert.Equal(t, 1, queued)
}

func TestReadInput_QuitAfterPumpExit(t *testing.T) {
	term := newTerminal(4)
	term.events <- termbox.Event{Type: termbox.EventKey, Ch: 'w'}
	close(term.events)

	var down []vm.Key
	err := term.ReadInput(func(k vm.Key) { down = append(down, k) }, func(vm.Key) {})
	assert.True(t, errors.Is(err, ErrQuit))
	assert.Equal(t, []vm.Key{vm.Key5}, down)
}

func send(ch chan<- struct{}, timeout time.Duration) bool {
	select {
	case ch <- struct{}{}:
		return true
	case <-time.After(timeout):
		return false
	}
}

func wait(ch <-chan struct{}, timeout time.Duration) bool {
	select {
	case <-ch:
		return true
	case <-time.After(timeout):
		return false
	}
}
