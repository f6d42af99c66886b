package vm

// loader.go populates ROM and RAM from a flat memory-image blob. Grounded on
// the reference codebase's Loader type, adapted from its origin-prefixed
// object-code records to RISK-XVII's fixed two-region layout, per the
// original C implementation's read_memory_image: the first InstSize bytes
// populate instruction memory, the next DataSize bytes populate data
// memory. Only an empty image is rejected: a file shorter than InstSize
// bytes loads a partial instruction segment and no data segment, and a file
// between InstSize and InstSize+DataSize bytes loads a partial data segment;
// bytes beyond the image stay zero.

import (
	"fmt"

	"riskxvii/internal/log"
)

// Loader copies a memory image into a Memory's backing storage.
type Loader struct {
	mem *Memory
	log *log.Logger
}

// NewLoader creates a loader that populates mem.
func NewLoader(mem *Memory) *Loader {
	return &Loader{
		mem: mem,
		log: log.DefaultLogger(),
	}
}

// Load copies image into ROM and RAM. It requires at least one byte of
// instruction memory; the data segment may be absent, in which case RAM is
// left untouched.
func (l *Loader) Load(image []byte) error {
	if len(image) == 0 {
		return fmt.Errorf("%w: image is empty", ErrImageIO)
	}

	n := copy(l.mem.rom[:], image)
	l.log.Debug("loaded instruction memory", "bytes", n)

	if len(image) > InstSize {
		rest := image[InstSize:]
		n = copy(l.mem.ram[:], rest)
		l.log.Debug("loaded data memory", "bytes", n)
	}

	return nil
}
