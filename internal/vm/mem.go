package vm

// mem.go is the machine's memory controller: it owns the ROM/RAM/heap
// backing storage and routes every access through the address map and the
// VR dispatch table. Grounded on the reference codebase's Memory type
// (Fetch/Store routed through a devices table) and on the original C
// implementation's load_byte/store_byte family, which this closely mirrors:
// every touched byte is validated first, then the access is dispatched by
// the region of its lowest address.

import (
	"riskxvii/internal/log"
)

// Memory owns instruction ROM, data RAM, and routes VR/heap accesses.
type Memory struct {
	rom [InstSize]byte
	ram [DataSize]byte

	heap *Heap
	vr   *VRTable

	log *log.Logger
}

// NewMemory creates a memory controller over heap, with VR accesses routed
// to vr. vr is attached later via SetVR since the VR table itself needs a
// back-reference to the machine that owns this Memory.
func NewMemory(heap *Heap) *Memory {
	return &Memory{
		heap: heap,
		log:  log.DefaultLogger(),
	}
}

// SetVR attaches the virtual-routine table used for VR-region accesses.
func (mem *Memory) SetVR(vr *VRTable) {
	mem.vr = vr
}

func (mem *Memory) fault(ir Instruction) error {
	return &Fault{Kind: ErrIllegalOperation, Instruction: ir}
}

// checkRange validates every byte in [addr, addr+n) and returns a Fault if
// any of them is invalid.
func (mem *Memory) checkRange(addr Word, n Word, ir Instruction) error {
	for i := Word(0); i < n; i++ {
		if !mem.valid(addr + i) {
			return mem.fault(ir)
		}
	}

	return nil
}

// LoadByte loads one byte from addr.
func (mem *Memory) LoadByte(addr Word, ir Instruction) (byte, error) {
	if err := mem.checkRange(addr, 1, ir); err != nil {
		return 0, err
	}

	switch region(addr) {
	case RegionInst:
		return mem.rom[addr-InstStart], nil
	case RegionData:
		return mem.ram[addr-DataStart], nil
	case RegionVR:
		w, err := mem.vr.Read(addr)
		if err != nil {
			return 0, err
		}

		return byte(w), nil
	default: // RegionHeap
		return mem.heap.bytes[addr-HeapStart], nil
	}
}

// LoadHalf loads a little-endian 16-bit half-word from addr and addr+1.
func (mem *Memory) LoadHalf(addr Word, ir Instruction) (uint16, error) {
	if err := mem.checkRange(addr, 2, ir); err != nil {
		return 0, err
	}

	switch region(addr) {
	case RegionInst:
		return uint16(mem.rom[addr-InstStart]) | uint16(mem.rom[addr+1-InstStart])<<8, nil
	case RegionData:
		return uint16(mem.ram[addr-DataStart]) | uint16(mem.ram[addr+1-DataStart])<<8, nil
	case RegionVR:
		w, err := mem.vr.Read(addr)
		if err != nil {
			return 0, err
		}

		return uint16(w), nil
	default: // RegionHeap
		o := addr - HeapStart
		return uint16(mem.heap.bytes[o]) | uint16(mem.heap.bytes[o+1])<<8, nil
	}
}

// LoadWord loads a little-endian 32-bit word from addr..addr+3.
func (mem *Memory) LoadWord(addr Word, ir Instruction) (Word, error) {
	if err := mem.checkRange(addr, 4, ir); err != nil {
		return 0, err
	}

	switch region(addr) {
	case RegionInst:
		o := addr - InstStart
		return Word(mem.rom[o]) | Word(mem.rom[o+1])<<8 | Word(mem.rom[o+2])<<16 | Word(mem.rom[o+3])<<24, nil
	case RegionData:
		o := addr - DataStart
		return Word(mem.ram[o]) | Word(mem.ram[o+1])<<8 | Word(mem.ram[o+2])<<16 | Word(mem.ram[o+3])<<24, nil
	case RegionVR:
		return mem.vr.Read(addr)
	default: // RegionHeap
		o := addr - HeapStart
		return Word(mem.heap.bytes[o]) | Word(mem.heap.bytes[o+1])<<8 | Word(mem.heap.bytes[o+2])<<16 | Word(mem.heap.bytes[o+3])<<24, nil
	}
}

// storeVR routes a write of value (already truncated to the store width and
// zero-extended into a Word) to the VR table, propagating ErrHalted
// unwrapped and wrapping any other failure into a Fault.
func (mem *Memory) storeVR(addr, value Word, ir Instruction) error {
	err := mem.vr.Write(addr, value)

	switch {
	case err == nil:
		return nil
	case err == ErrHalted:
		return ErrHalted
	default:
		if _, ok := err.(*Fault); ok {
			return err
		}

		return mem.fault(ir)
	}
}

// StoreByte stores the low 8 bits of value at addr.
func (mem *Memory) StoreByte(addr Word, value byte, ir Instruction) error {
	if err := mem.checkRange(addr, 1, ir); err != nil {
		return err
	}

	switch region(addr) {
	case RegionInst:
		return mem.fault(ir)
	case RegionData:
		mem.ram[addr-DataStart] = value
		return nil
	case RegionVR:
		return mem.storeVR(addr, Word(value), ir)
	default: // RegionHeap
		mem.heap.bytes[addr-HeapStart] = value
		return nil
	}
}

// StoreHalf stores the low 16 bits of value, little-endian, at addr, addr+1.
func (mem *Memory) StoreHalf(addr Word, value uint16, ir Instruction) error {
	if err := mem.checkRange(addr, 2, ir); err != nil {
		return err
	}

	switch region(addr) {
	case RegionInst:
		return mem.fault(ir)
	case RegionData:
		mem.ram[addr-DataStart] = byte(value)
		mem.ram[addr+1-DataStart] = byte(value >> 8)

		return nil
	case RegionVR:
		return mem.storeVR(addr, Word(value), ir)
	default: // RegionHeap
		o := addr - HeapStart
		mem.heap.bytes[o] = byte(value)
		mem.heap.bytes[o+1] = byte(value >> 8)

		return nil
	}
}

// StoreWord stores value, little-endian, at addr..addr+3.
func (mem *Memory) StoreWord(addr Word, value Word, ir Instruction) error {
	if err := mem.checkRange(addr, 4, ir); err != nil {
		return err
	}

	switch region(addr) {
	case RegionInst:
		return mem.fault(ir)
	case RegionData:
		o := addr - DataStart
		mem.ram[o] = byte(value)
		mem.ram[o+1] = byte(value >> 8)
		mem.ram[o+2] = byte(value >> 16)
		mem.ram[o+3] = byte(value >> 24)

		return nil
	case RegionVR:
		return mem.storeVR(addr, value, ir)
	default: // RegionHeap
		o := addr - HeapStart
		mem.heap.bytes[o] = byte(value)
		mem.heap.bytes[o+1] = byte(value >> 8)
		mem.heap.bytes[o+2] = byte(value >> 16)
		mem.heap.bytes[o+3] = byte(value >> 24)

		return nil
	}
}
