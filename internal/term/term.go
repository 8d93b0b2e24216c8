// Package term is a terminal frontend. Two screen rows share one character
// cell through the upper half block glyph.
package term

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/kapitanov/chip8emu/internal/vm"
	"github.com/nsf/termbox-go"
	xterm "golang.org/x/term"
)

var (
	ErrReboot      = errors.New("reboot")
	ErrQuit        = errors.New("quit")
	ErrNotTerminal = errors.New("stdout is not a terminal")
)

const (
	framePeriod = time.Second / vm.TimerFrequency
	// terminals report presses only, so a key counts as held this long
	holdDuration = 150 * time.Millisecond

	upperHalfBlock = '▀'
	fgColor        = termbox.ColorYellow
	bgColor        = termbox.ColorBlack
)

type Terminal struct {
	events    chan termbox.Event
	done      chan struct{}
	closeOnce sync.Once
	keys      *keyHolder
	toneOn    bool
	lastFrame time.Time
}

func New() (*Terminal, error) {
	if !xterm.IsTerminal(int(os.Stdout.Fd())) {
		return nil, ErrNotTerminal
	}

	if err := termbox.Init(); err != nil {
		return nil, fmt.Errorf("failed to init termbox: %w", err)
	}
	termbox.SetInputMode(termbox.InputEsc)
	termbox.HideCursor()

	width, height := termbox.Size()
	if width < vm.ScreenWidth || height < vm.ScreenHeight/2 {
		slog.Warn("term: terminal smaller than screen", "width", width, "height", height)
	}

	t := newTerminal(64)
	go t.pump(termbox.PollEvent)

	return t, nil
}

func newTerminal(buffer int) *Terminal {
	return &Terminal{
		events:    make(chan termbox.Event, buffer),
		done:      make(chan struct{}),
		keys:      newKeyHolder(holdDuration),
		lastFrame: time.Now(),
	}
}

// pump forwards polled events until poll reports the interrupt sent by
// Shutdown. Once stopped, events are dropped instead of queued, so a full
// buffer cannot keep the pump away from poll while Interrupt waits on it.
func (t *Terminal) pump(poll func() termbox.Event) {
	defer close(t.events)

	for {
		ev := poll()
		if ev.Type == termbox.EventInterrupt {
			return
		}

		select {
		case t.events <- ev:
		case <-t.done:
		}
	}
}

func (t *Terminal) stop() {
	t.closeOnce.Do(func() { close(t.done) })
}

func (t *Terminal) Shutdown() {
	t.stop()
	termbox.Interrupt()
	termbox.Close()
}

func (t *Terminal) ReadInput(keyDown func(vm.Key), keyUp func(vm.Key)) error {
	now := time.Now()

	for drained := false; !drained; {
		select {
		case ev, ok := <-t.events:
			if !ok {
				return ErrQuit
			}
			if err := t.processEvent(ev, now, keyDown); err != nil {
				return err
			}
		default:
			drained = true
		}
	}

	for _, key := range t.keys.expire(now) {
		keyUp(key)
	}

	return nil
}

func (t *Terminal) processEvent(ev termbox.Event, now time.Time, keyDown func(vm.Key)) error {
	switch ev.Type {
	case termbox.EventError:
		return fmt.Errorf("termbox event: %w", ev.Err)
	case termbox.EventKey:
	default:
		return nil
	}

	switch ev.Key {
	case termbox.KeyEsc, termbox.KeyCtrlC:
		slog.Debug("term: exit requested")
		return ErrQuit
	case termbox.KeyBackspace, termbox.KeyBackspace2:
		return ErrReboot
	}

	key, ok := keyMap(ev.Ch)
	if ok {
		t.keys.press(key, now)
		keyDown(key)
	}

	return nil
}

func keyMap(ch rune) (vm.Key, bool) {
	// Same layout as the SDL frontend:
	// 1 2 3 4 / q w e r / a s d f / z x c v  =>  1 2 3 C / 4 5 6 D / 7 8 9 E / A 0 B F
	switch ch {
	case 'x', 'X':
		return vm.Key0, true
	case '1':
		return vm.Key1, true
	case '2':
		return vm.Key2, true
	case '3':
		return vm.Key3, true
	case 'q', 'Q':
		return vm.Key4, true
	case 'w', 'W':
		return vm.Key5, true
	case 'e', 'E':
		return vm.Key6, true
	case 'a', 'A':
		return vm.Key7, true
	case 's', 'S':
		return vm.Key8, true
	case 'd', 'D':
		return vm.Key9, true
	case 'z', 'Z':
		return vm.KeyA, true
	case 'c', 'C':
		return vm.KeyB, true
	case '4':
		return vm.KeyC, true
	case 'r', 'R':
		return vm.KeyD, true
	case 'f', 'F':
		return vm.KeyE, true
	case 'v', 'V':
		return vm.KeyF, true
	default:
		return 0, false
	}
}

func (t *Terminal) Draw(frame *vm.Frame) error {
	for row := 0; row < vm.ScreenHeight/2; row++ {
		for x := 0; x < vm.ScreenWidth; x++ {
			fg, bg := cellColors(frame.At(x, 2*row), frame.At(x, 2*row+1))
			termbox.SetCell(x, row, upperHalfBlock, fg, bg)
		}
	}

	if err := termbox.Flush(); err != nil {
		return fmt.Errorf("failed to flush termbox: %w", err)
	}
	return nil
}

func cellColors(top, bottom bool) (fg, bg termbox.Attribute) {
	fg, bg = bgColor, bgColor
	if top {
		fg = fgColor
	}
	if bottom {
		bg = fgColor
	}
	return fg, bg
}

// Sound rings the terminal bell when the tone starts.
func (t *Terminal) Sound(active bool) error {
	if active && !t.toneOn {
		if _, err := os.Stdout.WriteString("\a"); err != nil {
			return fmt.Errorf("failed to ring bell: %w", err)
		}
	}
	t.toneOn = active
	return nil
}

func (t *Terminal) WaitForNextFrame() error {
	next := t.lastFrame.Add(framePeriod)
	if d := time.Until(next); d > 0 {
		time.Sleep(d)
		t.lastFrame = next
	} else {
		t.lastFrame = time.Now()
	}
	return nil
}
