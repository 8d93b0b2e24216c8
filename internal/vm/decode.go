package vm

import "fmt"

// Op identifies one of the 35 CHIP-8 instructions. The set is closed:
// anything Decode does not recognise is OpUnknown.
type Op uint8

const (
	OpUnknown Op = iota
	OpCls        // 00E0
	OpRts        // 00EE
	OpJmp        // 1nnn
	OpJsr        // 2nnn
	OpSkeqImm    // 3xnn
	OpSkneImm    // 4xnn
	OpSkeqReg    // 5xy0
	OpMovImm     // 6xnn
	OpAddImm     // 7xnn
	OpMovReg     // 8xy0
	OpOr         // 8xy1
	OpAnd        // 8xy2
	OpXor        // 8xy3
	OpAddReg     // 8xy4
	OpSub        // 8xy5
	OpShr        // 8xy6
	OpRsb        // 8xy7
	OpShl        // 8xyE
	OpSkneReg    // 9xy0
	OpMvi        // Annn
	OpJmi        // Bnnn
	OpRand       // Cxnn
	OpSprite     // Dxyn
	OpSkpr       // Ex9E
	OpSkup       // ExA1
	OpGdelay     // Fx07
	OpKey        // Fx0A
	OpSdelay     // Fx15
	OpSsound     // Fx18
	OpAdi        // Fx1E
	OpFont       // Fx29
	OpBcd        // Fx33
	OpStr        // Fx55
	OpLdr        // Fx65
)

// Instruction is a decoded opcode word.
type Instruction struct {
	Op     Op
	Opcode uint16
}

func (in Instruction) X() uint8    { return uint8(in.Opcode>>8) & 0x0F }
func (in Instruction) Y() uint8    { return uint8(in.Opcode>>4) & 0x0F }
func (in Instruction) N() uint8    { return uint8(in.Opcode) & 0x0F }
func (in Instruction) NN() uint8   { return uint8(in.Opcode) }
func (in Instruction) NNN() uint16 { return in.Opcode & 0x0FFF }

func Decode(opcode uint16) Instruction {
	return Instruction{Op: decodeOp(opcode), Opcode: opcode}
}

func decodeOp(opcode uint16) Op {
	switch opcode & 0xF000 {
	case 0x0000:
		switch opcode {
		case 0x00E0:
			// 00E0 - Clear screen
			return OpCls
		case 0x00EE:
			// 00EE - Return from subroutine
			return OpRts
		}

	case 0x1000:
		// 1NNN - Jumps to address NNN
		return OpJmp

	case 0x2000:
		// 2NNN - Calls subroutine at NNN
		return OpJsr

	case 0x3000:
		// 3XNN - Skips the next instruction if VX equals NN
		return OpSkeqImm

	case 0x4000:
		// 4XNN - Skips the next instruction if VX does not equal NN
		return OpSkneImm

	case 0x5000:
		// 5XY0 - Skips the next instruction if VX equals VY
		if opcode&0x000F == 0 {
			return OpSkeqReg
		}

	case 0x6000:
		// 6XNN - Sets VX to NN
		return OpMovImm

	case 0x7000:
		// 7XNN - Adds NN to VX, VF is not changed
		return OpAddImm

	case 0x8000:
		// 8XY_
		switch opcode & 0x000F {
		case 0x0000:
			// 8XY0 - Sets VX to the value of VY
			return OpMovReg
		case 0x0001:
			// 8XY1 - Sets VX to (VX OR VY)
			return OpOr
		case 0x0002:
			// 8XY2 - Sets VX to (VX AND VY)
			return OpAnd
		case 0x0003:
			// 8XY3 - Sets VX to (VX XOR VY)
			return OpXor
		case 0x0004:
			// 8XY4 - Adds VY to VX. VF is set to 1 when there's a carry, and to 0 when there isn't.
			return OpAddReg
		case 0x0005:
			// 8XY5 - VY is subtracted from VX. VF is set to 0 when there's a borrow, and 1 when there isn't.
			return OpSub
		case 0x0006:
			// 8XY6 - Shifts VX right by one. VF is set to the least significant bit of VX before the shift.
			return OpShr
		case 0x0007:
			// 8XY7 - Sets VX to VY minus VX. VF is set to 0 when there's a borrow, and 1 when there isn't.
			return OpRsb
		case 0x000E:
			// 8XYE - Shifts VX left by one. VF is set to the most significant bit of VX before the shift.
			return OpShl
		}

	case 0x9000:
		// 9XY0 - Skips the next instruction if VX doesn't equal VY
		if opcode&0x000F == 0 {
			return OpSkneReg
		}

	case 0xA000:
		// ANNN - Sets I to the address NNN
		return OpMvi

	case 0xB000:
		// BNNN - Jumps to the address NNN plus V0
		return OpJmi

	case 0xC000:
		// CXNN - Sets VX to a random number, masked by NN
		return OpRand

	case 0xD000:
		// DXYN - Draws an 8 pixel wide, N pixel high sprite from memory at I
		// at (VX, VY). VF is set to 1 if any lit pixel is turned off.
		return OpSprite

	case 0xE000:
		switch opcode & 0x00FF {
		case 0x009E:
			// EX9E - Skips the next instruction if the key stored in VX is pressed
			return OpSkpr
		case 0x00A1:
			// EXA1 - Skips the next instruction if the key stored in VX isn't pressed
			return OpSkup
		}

	case 0xF000:
		switch opcode & 0x00FF {
		case 0x0007:
			// FX07 - Sets VX to the value of the delay timer
			return OpGdelay
		case 0x000A:
			// FX0A - A key press is awaited, and then stored in VX
			return OpKey
		case 0x0015:
			// FX15 - Sets the delay timer to VX
			return OpSdelay
		case 0x0018:
			// FX18 - Sets the sound timer to VX
			return OpSsound
		case 0x001E:
			// FX1E - Adds VX to I, VF is not changed
			return OpAdi
		case 0x0029:
			// FX29 - Sets I to the location of the font sprite for the low nibble of VX
			return OpFont
		case 0x0033:
			// FX33 - Stores the BCD representation of VX at I, I+1 and I+2
			return OpBcd
		case 0x0055:
			// FX55 - Stores V0 to VX in memory starting at address I
			return OpStr
		case 0x0065:
			// FX65 - Reads memory starting at address I into V0 to VX
			return OpLdr
		}
	}

	return OpUnknown
}

func (in Instruction) String() string {
	x, y := in.X(), in.Y()

	switch in.Op {
	case OpCls:
		return "cls"
	case OpRts:
		return "rts"
	case OpJmp:
		return fmt.Sprintf("jmp 0x%04x", in.NNN())
	case OpJsr:
		return fmt.Sprintf("jsr 0x%04x", in.NNN())
	case OpSkeqImm:
		return fmt.Sprintf("skeq v%x, %d", x, in.NN())
	case OpSkneImm:
		return fmt.Sprintf("skne v%x, %d", x, in.NN())
	case OpSkeqReg:
		return fmt.Sprintf("skeq v%x, v%x", x, y)
	case OpMovImm:
		return fmt.Sprintf("mov v%x, %d", x, in.NN())
	case OpAddImm:
		return fmt.Sprintf("add v%x, %d", x, in.NN())
	case OpMovReg:
		return fmt.Sprintf("mov v%x, v%x", x, y)
	case OpOr:
		return fmt.Sprintf("or v%x, v%x", x, y)
	case OpAnd:
		return fmt.Sprintf("and v%x, v%x", x, y)
	case OpXor:
		return fmt.Sprintf("xor v%x, v%x", x, y)
	case OpAddReg:
		return fmt.Sprintf("add v%x, v%x", x, y)
	case OpSub:
		return fmt.Sprintf("sub v%x, v%x", x, y)
	case OpShr:
		return fmt.Sprintf("shr v%x", x)
	case OpRsb:
		return fmt.Sprintf("rsb v%x, v%x", x, y)
	case OpShl:
		return fmt.Sprintf("shl v%x", x)
	case OpSkneReg:
		return fmt.Sprintf("skne v%x, v%x", x, y)
	case OpMvi:
		return fmt.Sprintf("mvi 0x%04x", in.NNN())
	case OpJmi:
		return fmt.Sprintf("jmi 0x%04x", in.NNN())
	case OpRand:
		return fmt.Sprintf("rand v%x, %d", x, in.NN())
	case OpSprite:
		return fmt.Sprintf("sprite v%x, v%x, %d", x, y, in.N())
	case OpSkpr:
		return fmt.Sprintf("skpr v%x", x)
	case OpSkup:
		return fmt.Sprintf("skup v%x", x)
	case OpGdelay:
		return fmt.Sprintf("gdelay v%x", x)
	case OpKey:
		return fmt.Sprintf("key v%x", x)
	case OpSdelay:
		return fmt.Sprintf("sdelay v%x", x)
	case OpSsound:
		return fmt.Sprintf("ssound v%x", x)
	case OpAdi:
		return fmt.Sprintf("adi v%x", x)
	case OpFont:
		return fmt.Sprintf("font v%x", x)
	case OpBcd:
		return fmt.Sprintf("bcd v%x", x)
	case OpStr:
		return fmt.Sprintf("str v0-v%x", x)
	case OpLdr:
		return fmt.Sprintf("ldr v0-v%x", x)
	default:
		return fmt.Sprintf("unknown 0x%04X", in.Opcode)
	}
}
