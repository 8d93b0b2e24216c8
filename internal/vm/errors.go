package vm

import (
	"errors"
	"fmt"
)

var (
	ErrProgramTooLarge   = errors.New("program too large")
	ErrAddressOutOfRange = errors.New("address out of range")
	ErrStackOverflow     = errors.New("stack overflow")
	ErrStackUnderflow    = errors.New("stack underflow")
	ErrUnknownOpcode     = errors.New("unknown opcode")
)

// AddressError reports a memory access outside of [0, MemorySize).
type AddressError struct {
	Addr int
}

func (e *AddressError) Error() string {
	return fmt.Sprintf("address 0x%04x out of range", e.Addr)
}

func (e *AddressError) Unwrap() error {
	return ErrAddressOutOfRange
}

// ExecError is a fatal error raised while executing the instruction at Addr.
// The machine must not be stepped again after it is returned.
type ExecError struct {
	Addr   uint16
	Opcode uint16
	Err    error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("pc=0x%04x opcode=0x%04x: %v", e.Addr, e.Opcode, e.Err)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}
