package vm

import (
	"context"
	"fmt"
	"log/slog"
	"math/bits"
)

// Step executes one instruction. While Fx0A is pending it only polls the
// keypad, and once the program has jumped onto itself it does nothing.
// A returned error is fatal and is returned again by every later call.
func (vm *VM) Step() error {
	if vm.err != nil {
		return vm.err
	}

	switch vm.state {
	case stateIdle:
		return nil
	case stateAwaitingKey:
		vm.pollKey()
		return nil
	}

	addr := vm.pc
	opcode, err := vm.fetch()
	if err != nil {
		return vm.fail(addr, 0, err)
	}

	instr := Decode(opcode)

	if slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		slog.Debug(
			"exec",
			"pc", fmt.Sprintf("0x%04x", addr),
			"opcode", fmt.Sprintf("0x%04x", opcode),
			"instr", instr.String(),
		)
	}

	if err := vm.execute(instr); err != nil {
		return vm.fail(addr, opcode, err)
	}

	return nil
}

func (vm *VM) fail(addr, opcode uint16, err error) error {
	vm.err = &ExecError{Addr: addr, Opcode: opcode, Err: err}
	return vm.err
}

// fetch reads the big-endian word at pc and moves pc past it.
func (vm *VM) fetch() (uint16, error) {
	hi, err := vm.memory.Read(int(vm.pc))
	if err != nil {
		return 0, err
	}
	lo, err := vm.memory.Read(int(vm.pc) + 1)
	if err != nil {
		return 0, err
	}

	vm.pc += InstructionSize
	return uint16(hi)<<8 | uint16(lo), nil
}

// execute applies instr. pc already points at the next instruction. Opcodes
// that produce a flag write VF after every other register, so the flag wins
// when x is 0xF.
func (vm *VM) execute(instr Instruction) error {
	x, y := instr.X(), instr.Y()
	vx, vy := vm.registers[x], vm.registers[y]
	quirks := vm.opts.Quirks

	switch instr.Op {
	case OpCls:
		vm.display.Clear()
		vm.drawFlag = true

	case OpRts:
		addr, err := vm.stack.Pop()
		if err != nil {
			return err
		}
		vm.pc = addr

	case OpJmp:
		target := instr.NNN()
		if target == vm.pc-InstructionSize {
			slog.Info("program looped", "pc", fmt.Sprintf("0x%04x", target))
			vm.state = stateIdle
		}
		vm.pc = target

	case OpJsr:
		if err := vm.stack.Push(vm.pc); err != nil {
			return err
		}
		vm.pc = instr.NNN()

	case OpSkeqImm:
		vm.skipIf(vx == instr.NN())

	case OpSkneImm:
		vm.skipIf(vx != instr.NN())

	case OpSkeqReg:
		vm.skipIf(vx == vy)

	case OpMovImm:
		vm.registers[x] = instr.NN()

	case OpAddImm:
		vm.registers[x] = vx + instr.NN()

	case OpMovReg:
		vm.registers[x] = vy

	case OpOr:
		vm.registers[x] = vx | vy

	case OpAnd:
		vm.registers[x] = vx & vy

	case OpXor:
		vm.registers[x] = vx ^ vy

	case OpAddReg:
		sum := uint16(vx) + uint16(vy)
		vm.registers[x] = uint8(sum)
		vm.setFlag(sum > 0xFF)

	case OpSub:
		vm.registers[x] = vx - vy
		vm.setFlag(vx >= vy)

	case OpShr:
		src := vx
		if quirks.ShiftUsesVY {
			src = vy
		}
		vm.registers[x] = src >> 1
		vm.setFlag(src&0x01 != 0)

	case OpRsb:
		vm.registers[x] = vy - vx
		vm.setFlag(vy >= vx)

	case OpShl:
		src := vx
		if quirks.ShiftUsesVY {
			src = vy
		}
		vm.registers[x] = src << 1
		vm.setFlag(src&0x80 != 0)

	case OpSkneReg:
		vm.skipIf(vx != vy)

	case OpMvi:
		vm.index = instr.NNN()

	case OpJmi:
		vm.pc = instr.NNN() + uint16(vm.registers[0])

	case OpRand:
		vm.registers[x] = uint8(vm.opts.Rand.UintN(256)) & instr.NN()

	case OpSprite:
		rows, err := vm.memory.ReadRange(int(vm.index), int(instr.N()))
		if err != nil {
			return err
		}
		collision := vm.display.DrawSprite(vx, vy, rows, quirks.WrapSprites)
		vm.drawFlag = true
		vm.setFlag(collision)

	case OpSkpr:
		vm.skipIf(vm.keypad.IsPressed(Key(vx)))

	case OpSkup:
		vm.skipIf(!vm.keypad.IsPressed(Key(vx)))

	case OpGdelay:
		vm.registers[x] = vm.delayTimer

	case OpKey:
		vm.state = stateAwaitingKey
		vm.keyReg = x
		vm.lastKeys = vm.keypad.Mask()

	case OpSdelay:
		vm.delayTimer = vx

	case OpSsound:
		vm.soundTimer = vx

	case OpAdi:
		vm.index += uint16(vx)
		if quirks.IndexWraps12Bit {
			vm.index &= 0x0FFF
		}

	case OpFont:
		vm.index = FontAddr(vx)

	case OpBcd:
		digits := []uint8{vx / 100, (vx / 10) % 10, vx % 10}
		if err := vm.memory.WriteRange(int(vm.index), digits); err != nil {
			return err
		}

	case OpStr:
		if err := vm.memory.WriteRange(int(vm.index), vm.registers[:int(x)+1]); err != nil {
			return err
		}
		if quirks.LoadStoreIncrementsIndex {
			vm.index += uint16(x) + 1
		}

	case OpLdr:
		values, err := vm.memory.ReadRange(int(vm.index), int(x)+1)
		if err != nil {
			return err
		}
		copy(vm.registers[:], values)
		if quirks.LoadStoreIncrementsIndex {
			vm.index += uint16(x) + 1
		}

	default:
		if vm.opts.Unknown == UnknownSkip {
			slog.Warn("skip unknown opcode",
				"pc", fmt.Sprintf("0x%04x", vm.pc-InstructionSize),
				"opcode", fmt.Sprintf("0x%04x", instr.Opcode),
			)
			return nil
		}
		return ErrUnknownOpcode
	}

	return nil
}

func (vm *VM) skipIf(cond bool) {
	if cond {
		vm.pc += InstructionSize
	}
}

func (vm *VM) setFlag(set bool) {
	if set {
		vm.registers[FlagRegister] = 1
	} else {
		vm.registers[FlagRegister] = 0
	}
}

// pollKey completes a pending Fx0A once some key goes from up to down.
// Keys already held when the wait started do not count until re-pressed.
func (vm *VM) pollKey() {
	keys := vm.keypad.Mask()
	pressed := keys &^ vm.lastKeys
	vm.lastKeys = keys

	if pressed == 0 {
		return
	}

	key := uint8(bits.TrailingZeros16(pressed))
	vm.registers[vm.keyReg] = key
	vm.state = stateRunning

	slog.Debug("key received", "key", fmt.Sprintf("%x", key), "reg", fmt.Sprintf("v%x", vm.keyReg))
}
