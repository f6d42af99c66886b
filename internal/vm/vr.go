package vm

// vr.go implements the fixed virtual-routine dispatch table of spec.md
// §4.4. It is a flattened generalization of the reference codebase's MMIO
// device table (internal/vm/io.go, internal/vm/devices.go): where the
// reference codebase dispatches to stateful devices through Driver
// interfaces, RISK-XVII's virtual routines are simple functions, since only
// the heap and the 256-byte scratch buffer carry any state, and both are
// already owned by the Machine. Per-address behavior is grounded on the
// original C implementation's console_read_routine/console_write_routine.

import (
	"bufio"
	"fmt"
	"io"

	"riskxvii/internal/log"
)

// Fixed virtual-routine addresses, per spec.md §4.4 and vm_riskxvii.h.
const (
	VRWriteChar Word = 0x0800
	VRWriteSint Word = 0x0804
	VRWriteUint Word = 0x0808
	VRHalt      Word = 0x080c
	VRReadChar  Word = 0x0812
	VRReadSint  Word = 0x0816
	VRDumpPC    Word = 0x0820
	VRDumpReg   Word = 0x0824
	VRDumpWord  Word = 0x0828
	VRMalloc    Word = 0x0830
	VRFree      Word = 0x0834
)

// VRTable is the memory-mapped virtual-routine window. Reads from any
// address other than READ_CHAR and READ_SINT return bytes of a scratch
// buffer that is never written and therefore stays zero for the process
// lifetime; writes to an address outside the write routines fail.
type VRTable struct {
	vm      *Machine
	scratch [VRSize]byte

	in  *bufio.Reader
	out io.Writer

	log *log.Logger
}

// NewVRTable creates a VR table bound to vm, reading from in and writing to
// out. vm.Mem, vm.Heap, and vm.Reg must already be initialized by the time
// any routine runs.
func NewVRTable(vm *Machine, in io.Reader, out io.Writer) *VRTable {
	return &VRTable{
		vm:  vm,
		in:  bufio.NewReader(in),
		out: out,
		log: log.DefaultLogger(),
	}
}

// Read services a load of any width from addr. Only READ_CHAR and READ_SINT
// can fail, and only with ErrInput; every other address always succeeds.
func (vr *VRTable) Read(addr Word) (Word, error) {
	switch addr {
	case VRReadChar:
		b, err := vr.in.ReadByte()
		if err != nil {
			return 0, fmt.Errorf("%w: read char: %w", ErrInput, err)
		}

		return Word(b), nil

	case VRReadSint:
		var n int32

		if _, err := fmt.Fscan(vr.in, &n); err != nil {
			return 0, fmt.Errorf("%w: read sint: %w", ErrInput, err)
		}

		return Word(uint32(n)), nil

	default:
		off := addr - VRStart
		w := Word(vr.scratch[off])

		if off+1 < VRSize {
			w |= Word(vr.scratch[off+1]) << 8
		}

		if off+2 < VRSize {
			w |= Word(vr.scratch[off+2]) << 16
		}

		if off+3 < VRSize {
			w |= Word(vr.scratch[off+3]) << 24
		}

		return w, nil
	}
}

// Write services a store of any width to addr, with value already truncated
// to the stored width and zero-extended into a Word. It returns
// ErrIllegalOperation if addr is not a known write routine, or if FREE is
// given an address that the heap allocator refuses to free.
func (vr *VRTable) Write(addr Word, value Word) error {
	switch addr {
	case VRWriteChar:
		fmt.Fprintf(vr.out, "%c", byte(value))

	case VRWriteSint:
		fmt.Fprintf(vr.out, "%d", int32(value))

	case VRWriteUint:
		fmt.Fprintf(vr.out, "%x", uint32(value))

	case VRHalt:
		fmt.Fprint(vr.out, "CPU Halt Requested\n")
		return ErrHalted

	case VRDumpPC:
		fmt.Fprintf(vr.out, "%x", uint32(vr.vm.PC))

	case VRDumpReg:
		fmt.Fprint(vr.out, vr.vm.RegisterDump())

	case VRDumpWord:
		w, err := vr.vm.Mem.LoadWord(value, vr.vm.IR)
		if err != nil {
			return err
		}

		fmt.Fprintf(vr.out, "%x", uint32(w))

	case VRMalloc:
		vr.vm.Reg[HeapResultReg] = Register(vr.vm.Heap.Malloc(value))

	case VRFree:
		if !vr.vm.Heap.Free(value) {
			return ErrIllegalOperation
		}

	default:
		return ErrIllegalOperation
	}

	return nil
}
