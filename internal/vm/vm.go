package vm

import (
	"fmt"
	"log/slog"
)

const (
	RegisterCount = 16
	FlagRegister  = 0x0F

	ProgramStart    = uint16(0x200)
	InstructionSize = 2
)

type state uint8

const (
	stateRunning state = iota
	stateAwaitingKey
	stateIdle
)

func (s state) String() string {
	switch s {
	case stateRunning:
		return "running"
	case stateAwaitingKey:
		return "awaiting key"
	case stateIdle:
		return "idle"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// VM is one emulation session. It owns all machine state; the keypad is the
// only part that may be written from outside the execute loop.
type VM struct {
	memory    Memory
	registers [RegisterCount]uint8 // V registers (V0-VF)
	stack     Stack

	pc    uint16 // Program counter
	index uint16 // Index register

	delayTimer uint8
	soundTimer uint8

	display  Framebuffer
	keypad   Keypad
	drawFlag bool // Indicates a draw has occurred

	state    state
	keyReg   uint8  // destination register of a pending Fx0A
	lastKeys uint16 // keypad mask seen by the previous Fx0A poll

	opts  Options
	clock *Clock
	err   error // sticky fatal error
}

// New builds a machine with the font installed and program loaded at 0x200.
// An oversized program is rejected before anything is loaded.
func New(program []byte, opts Options) (*VM, error) {
	opts = opts.withDefaults()

	vm := &VM{
		pc:       ProgramStart,
		drawFlag: true,
		opts:     opts,
		clock:    NewClock(opts.CyclesPerSecond),
	}

	slog.Debug("load font", "at", fmt.Sprintf("0x%04x", FontStart), "n", len(chip8Font))
	vm.memory.LoadFont()

	if err := vm.memory.LoadProgram(program); err != nil {
		return nil, fmt.Errorf("unable to load program: %w", err)
	}
	slog.Info("load program", "at", fmt.Sprintf("0x%04x", ProgramStart), "n", len(program))

	return vm, nil
}

// Keypad is the setter used by input frontends.
func (vm *VM) Keypad() *Keypad {
	return &vm.keypad
}

// Frame returns a snapshot of the display.
func (vm *VM) Frame() Frame {
	return vm.display.Snapshot()
}

// SoundActive reports whether the tone should be playing.
func (vm *VM) SoundActive() bool {
	return vm.soundTimer > 0
}

func (vm *VM) PC() uint16 {
	return vm.pc
}

func (vm *VM) Index() uint16 {
	return vm.index
}

func (vm *VM) Register(r uint8) uint8 {
	return vm.registers[r&0x0F]
}

func (vm *VM) DelayTimer() uint8 {
	return vm.delayTimer
}

func (vm *VM) SoundTimer() uint8 {
	return vm.soundTimer
}

// AwaitingKey reports whether execution is suspended on Fx0A.
func (vm *VM) AwaitingKey() bool {
	return vm.state == stateAwaitingKey
}

func (vm *VM) tickTimers() {
	if vm.delayTimer > 0 {
		vm.delayTimer--
	}
	if vm.soundTimer > 0 {
		vm.soundTimer--
	}
}
