package vm

// errors.go defines the five terminal error kinds from spec.md §7.

import (
	"errors"
	"fmt"
)

var (
	// ErrUsage is returned for a bad command line.
	ErrUsage = errors.New("usage error")

	// ErrImageIO is returned when the memory image cannot be opened or read.
	ErrImageIO = errors.New("image error")

	// ErrInput is returned when READ_SINT fails to parse its input.
	ErrInput = errors.New("input error")

	// ErrIllegalOperation is returned for an invalid memory access, a write
	// to INST, a write to an undefined VR address, or a failed FREE.
	ErrIllegalOperation = errors.New("illegal operation")

	// ErrNotImplemented is returned for an unknown opcode or an
	// unrecognized func3/func7 combination within a known opcode family.
	ErrNotImplemented = errors.New("instruction not implemented")

	// ErrHalted is returned by Run/Step once the HALT virtual routine has
	// been invoked. It is not one of the five terminal error kinds in
	// spec.md §7 and carries no register dump.
	ErrHalted = errors.New("halted")
)

// Fault wraps one of the five terminal error kinds with the instruction word
// in effect when the fault was raised, for the diagnostic dump required by
// spec.md §7.
type Fault struct {
	Kind        error
	Instruction Instruction
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Instruction)
}

func (f *Fault) Unwrap() error {
	return f.Kind
}

func (f *Fault) Is(target error) bool {
	return errors.Is(f.Kind, target)
}
