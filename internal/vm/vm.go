package vm

// vm.go assembles the machine: registers, program counter, memory, heap, and
// VR table, wired together per the reference codebase's LC3/New/OptionFn
// construction pattern (internal/vm/vm.go). Heap and VRTable are built first
// since Memory and the run loop both depend on them.

import (
	"io"
	"os"

	"riskxvii/internal/log"
)

// Machine holds the entire architectural state of a RISK-XVII CPU.
type Machine struct {
	PC  ProgramCounter
	IR  Instruction
	Reg RegisterFile

	Mem  *Memory
	Heap *Heap
	VR   *VRTable

	log *log.Logger
}

// OptionFn configures a Machine at construction time.
type OptionFn func(*Machine, *ioConfig)

type ioConfig struct {
	in  io.Reader
	out io.Writer
}

// WithStdio directs console input and output through in and out, in place of
// the default os.Stdin/os.Stdout.
func WithStdio(in io.Reader, out io.Writer) OptionFn {
	return func(_ *Machine, cfg *ioConfig) {
		cfg.in = in
		cfg.out = out
	}
}

// WithLogger attaches logger to the machine and its subsystems.
func WithLogger(logger *log.Logger) OptionFn {
	return func(m *Machine, _ *ioConfig) {
		m.log = logger
	}
}

// New creates a Machine with a fresh heap and zeroed registers, PC at
// InstStart. Console I/O defaults to os.Stdin/os.Stdout unless overridden by
// WithStdio.
func New(opts ...OptionFn) *Machine {
	cfg := &ioConfig{in: os.Stdin, out: os.Stdout}

	m := &Machine{
		PC:   ProgramCounter(InstStart),
		Heap: NewHeap(),
		log:  log.DefaultLogger(),
	}

	for _, opt := range opts {
		opt(m, cfg)
	}

	m.VR = NewVRTable(m, cfg.in, cfg.out)
	m.Mem = NewMemory(m.Heap)
	m.Mem.SetVR(m.VR)

	return m
}

// RegisterDump renders the PC and all 32 general purpose registers in the
// format required by DUMP_REG and by the diagnostic output on a fault
// termination, per spec.md §6.
func (m *Machine) RegisterDump() string {
	return "PC = " + m.PC.String() + ";\n" + m.Reg.String()
}

func (m *Machine) String() string {
	return m.RegisterDump()
}
