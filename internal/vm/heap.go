package vm

// heap.go implements the block-based heap allocator of spec.md §3, §4.5.
// It is a direct translation of the original C implementation's singly
// linked struct heap_node free-list (vm_malloc/vm_free), using Go pointers
// in place of the original's manual malloc/free of list nodes, per the
// reference codebase's Design Notes permission to use "an intrusive list."

import (
	"fmt"

	"riskxvii/internal/log"
)

// heapNode describes a run of one or more whole banks. A node is free when
// allocatedSize == 0 and allocated otherwise.
type heapNode struct {
	address       Word
	bankCount     Word
	allocatedSize Word
	next          *heapNode
}

// Heap owns the bank-backed byte storage and the free-list over it.
type Heap struct {
	bytes [HeapSize]byte
	head  *heapNode

	log *log.Logger
}

// NewHeap creates a heap with a single free node spanning all banks.
func NewHeap() *Heap {
	return &Heap{
		head: &heapNode{
			address:   HeapStart,
			bankCount: HeapBankNum,
		},
		log: log.DefaultLogger(),
	}
}

// valid reports whether addr lies within some currently-allocated node's
// byte range.
func (h *Heap) valid(addr Word) bool {
	for n := h.head; n != nil; n = n.next {
		if n.allocatedSize > 0 && addr >= n.address && addr < n.address+n.allocatedSize {
			return true
		}
	}

	return false
}

// Malloc allocates size bytes, first-fit, splitting the tail of the chosen
// node if it has surplus banks. It returns the allocated address, or 0 if
// size is 0 or no node is large enough.
func (h *Heap) Malloc(size Word) Word {
	if size == 0 {
		return 0
	}

	required := (size + BankBlockSize - 1) / BankBlockSize

	for n := h.head; n != nil; n = n.next {
		if n.allocatedSize != 0 || n.bankCount < required {
			continue
		}

		addr := n.address

		if n.bankCount > required {
			surplus := &heapNode{
				address:   n.address + required*BankBlockSize,
				bankCount: n.bankCount - required,
				next:      n.next,
			}
			n.next = surplus
		}

		n.bankCount = required
		n.allocatedSize = size

		h.log.Debug("malloc", "addr", addr, "size", size, "banks", required)

		return addr
	}

	h.log.Debug("malloc: no fit", "size", size)

	return 0
}

// Free releases the allocation that begins exactly at address, coalescing
// with its free neighbors. It returns false if no allocated node begins at
// address (including address 0, which malloc never returns for a real
// allocation).
func (h *Heap) Free(address Word) bool {
	var prev *heapNode

	for n := h.head; n != nil; n = n.next {
		if n.allocatedSize == 0 || n.address != address {
			prev = n
			continue
		}

		n.allocatedSize = 0

		if n.next != nil && n.next.allocatedSize == 0 {
			absorbed := n.next
			n.bankCount += absorbed.bankCount
			n.next = absorbed.next
		}

		if prev != nil && prev.allocatedSize == 0 {
			prev.bankCount += n.bankCount
			prev.next = n.next
		}

		h.log.Debug("free", "addr", address)

		return true
	}

	return false
}

func (h *Heap) String() string {
	s := ""

	for n := h.head; n != nil; n = n.next {
		s += fmt.Sprintf("[addr:%s banks:%d size:%d]", Word(n.address), n.bankCount, n.allocatedSize)

		if n.next != nil {
			s += " -> "
		}
	}

	return s
}
