package vm

import (
	"math/rand/v2"
	"time"
)

// UnknownPolicy decides what happens when an opcode matches no instruction.
type UnknownPolicy int

const (
	// UnknownStrict halts with an ExecError wrapping ErrUnknownOpcode.
	UnknownStrict UnknownPolicy = iota
	// UnknownSkip logs a warning and treats the opcode as a no-op.
	UnknownSkip
)

// Quirks select between behaviors that differ across historical
// interpreters. The zero value is the canonical behavior.
type Quirks struct {
	// WrapSprites wraps sprite pixels past the screen edge instead of clipping them.
	WrapSprites bool

	// IndexWraps12Bit makes Fx1E wrap I modulo 4096 instead of 65536.
	IndexWraps12Bit bool

	// ShiftUsesVY makes 8xy6 and 8xyE shift VY into VX.
	ShiftUsesVY bool

	// LoadStoreIncrementsIndex makes Fx55 and Fx65 leave I = I + x + 1.
	LoadStoreIncrementsIndex bool
}

type Options struct {
	CyclesPerSecond int
	Unknown         UnknownPolicy
	Quirks          Quirks

	// Rand feeds Cxnn. A fixed seed gives deterministic replay.
	Rand *rand.Rand

	// Now is the wall clock used by Run.
	Now func() time.Time
}

const (
	DefaultCyclesPerSecond = 700
	MaxCyclesPerSecond     = 1_000_000
)

func DefaultOptions() Options {
	return Options{
		CyclesPerSecond: DefaultCyclesPerSecond,
		Unknown:         UnknownStrict,
		Rand:            rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		Now:             time.Now,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.CyclesPerSecond <= 0 {
		o.CyclesPerSecond = def.CyclesPerSecond
	}
	if o.CyclesPerSecond > MaxCyclesPerSecond {
		o.CyclesPerSecond = MaxCyclesPerSecond
	}
	if o.Rand == nil {
		o.Rand = def.Rand
	}
	if o.Now == nil {
		o.Now = def.Now
	}
	return o
}
