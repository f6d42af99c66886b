package vm

// exec.go is the fetch-decode-execute loop, grounded on the reference
// codebase's Run/cycle structure (internal/vm/cpu.go: Fetch, Decode,
// Execute, Reset), collapsed from its four pipeline stages to the two the
// original C implementation actually has: fetch+decode the instruction
// word, then dispatch to a handler that both computes the result and
// advances PC.

import (
	"context"
	"fmt"
)

// Step fetches, decodes, and executes exactly one instruction. It returns
// ErrHalted once HALT has been requested, an error wrapping ErrInput when a
// console read routine fails, or a *Fault for any other terminal condition.
// Register 0 reads as zero regardless of what Step wrote to it.
func (m *Machine) Step() error {
	w, err := m.Mem.LoadWord(Word(m.PC), m.IR)
	if err != nil {
		return err
	}

	m.IR = Instruction(w)

	op := decode(m.IR)
	if op == nil {
		return &Fault{Kind: ErrNotImplemented, Instruction: m.IR}
	}

	op.Decode(m)

	err = op.Execute(m)

	m.Reg[R0] = 0

	if err != nil {
		m.log.Debug("fault", "instruction", m.IR, "op", op, "err", err)
		return err
	}

	return nil
}

// Run steps the machine until it halts, faults, runs off the end of
// instruction memory, or ctx is cancelled. A halt is reported as ErrHalted;
// running off the end of instruction memory is normal termination and
// reports nil, matching the original's running_vm falling out of its
// while (pc < INST_MEM_SIZE) loop and returning 0; cancellation is reported
// as an error wrapping ctx.Err(), a failed console read as an error wrapping
// ErrInput, and every other termination as a *Fault wrapping
// ErrIllegalOperation or ErrNotImplemented.
func (m *Machine) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("run: %w", ctx.Err())
		default:
		}

		if Word(m.PC) >= InstSize {
			return nil
		}

		if err := m.Step(); err != nil {
			return err
		}
	}
}
