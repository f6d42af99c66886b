package vm

import "testing"

func newTestMemory() *Memory {
	heap := NewHeap()
	mem := NewMemory(heap)
	mem.SetVR(NewVRTable(&Machine{Heap: heap, Mem: mem}, nilReader{}, nilWriter{}))

	return mem
}

type nilReader struct{}

func (nilReader) Read([]byte) (int, error) { return 0, nil }

type nilWriter struct{}

func (nilWriter) Write(b []byte) (int, error) { return len(b), nil }

func TestStoreLoadWordRoundTrip(t *testing.T) {
	mem := newTestMemory()

	addr := DataStart + 4
	want := Word(0xdeadbeef)

	if err := mem.StoreWord(addr, want, 0); err != nil {
		t.Fatalf("StoreWord: %s", err)
	}

	got, err := mem.LoadWord(addr, 0)
	if err != nil {
		t.Fatalf("LoadWord: %s", err)
	}

	if got != want {
		t.Errorf("LoadWord() = %s, want %s", got, want)
	}
}

func TestStoreWordByteDecomposition(t *testing.T) {
	mem := newTestMemory()

	addr := DataStart
	if err := mem.StoreWord(addr, 0xdeadbeef, 0); err != nil {
		t.Fatalf("StoreWord: %s", err)
	}

	cases := []struct {
		off  Word
		want byte
	}{
		{0, 0xef},
		{1, 0xbe},
		{2, 0xad},
		{3, 0xde},
	}

	for _, c := range cases {
		got, err := mem.LoadByte(addr+c.off, 0)
		if err != nil {
			t.Fatalf("LoadByte(+%d): %s", c.off, err)
		}

		if got != c.want {
			t.Errorf("LoadByte(+%d) = %#02x, want %#02x", c.off, got, c.want)
		}
	}
}

func TestLoadByteSignExtension(t *testing.T) {
	mem := newTestMemory()

	if err := mem.StoreByte(DataStart, 0x80, 0); err != nil {
		t.Fatalf("StoreByte: %s", err)
	}

	b, err := mem.LoadByte(DataStart, 0)
	if err != nil {
		t.Fatalf("LoadByte: %s", err)
	}

	signed := Word(b)
	signed.Sext(8)

	if signed != 0xFFFFFF80 {
		t.Errorf("sign-extended lb = %s, want 0xffffff80", signed)
	}

	if Word(b) != 0x80 {
		t.Errorf("lbu = %s, want 0x80", Word(b))
	}
}

func TestStoreToInstructionMemoryFails(t *testing.T) {
	mem := newTestMemory()

	err := mem.StoreWord(InstStart, 1, 0)
	if err == nil {
		t.Fatal("expected StoreWord to INST to fail")
	}
}

func TestHeapAccessOutsideAllocationFails(t *testing.T) {
	mem := newTestMemory()

	a := mem.heap.Malloc(16)

	if _, err := mem.LoadByte(a, 0); err != nil {
		t.Fatalf("LoadByte inside allocation: %s", err)
	}

	if _, err := mem.LoadByte(a+1000, 0); err == nil {
		t.Fatal("expected LoadByte outside the allocated node to fail")
	}
}

func TestInvalidAddressFails(t *testing.T) {
	mem := newTestMemory()

	if _, err := mem.LoadByte(VREnd+1, 0); err == nil {
		t.Fatal("expected LoadByte on an unmapped address to fail")
	}
}
