package vm

import "testing"

func TestInstructionFields(t *testing.T) {
	ir := Instruction(encodeR(OpR, R5, 0b010, R6, R7, 0b0100000))

	if got := ir.Opcode(); got != OpR {
		t.Errorf("Opcode() = %#o, want %#o", got, OpR)
	}

	if got := ir.Rd(); got != R5 {
		t.Errorf("Rd() = %d, want %d", got, R5)
	}

	if got := ir.Func3(); got != 0b010 {
		t.Errorf("Func3() = %#o, want %#o", got, 0b010)
	}

	if got := ir.Rs1(); got != R6 {
		t.Errorf("Rs1() = %d, want %d", got, R6)
	}

	if got := ir.Rs2(); got != R7 {
		t.Errorf("Rs2() = %d, want %d", got, R7)
	}

	if got := ir.Func7(); got != 0b0100000 {
		t.Errorf("Func7() = %#o, want %#o", got, 0b0100000)
	}
}

func TestImmISignExtends(t *testing.T) {
	ir := Instruction(encodeI(OpITypeOne, R1, 0, R0, -1))

	if got := ir.ImmI(); got != 0xFFFFFFFF {
		t.Errorf("ImmI() = %s, want 0xffffffff", got)
	}
}

func TestImmSRoundTrip(t *testing.T) {
	ir := Instruction(encodeS(R2, R3, 0b010, -20))

	if got := int32(ir.ImmS()); got != -20 {
		t.Errorf("ImmS() = %d, want -20", got)
	}
}

func TestImmSBRoundTripForwardAndBackward(t *testing.T) {
	for _, offset := range []int32{8, 16, -8, -4096, 4094} {
		ir := Instruction(encodeSB(R0, R0, 0b000, offset))

		if got := int32(ir.ImmSB()); got != offset {
			t.Errorf("ImmSB() = %d, want %d", got, offset)
		}
	}
}

func TestImmURetainsUpperBitsOnly(t *testing.T) {
	ir := Instruction(encodeU(R4, 0xdeadb000))

	if got := ir.ImmU(); got != 0xdeadb000 {
		t.Errorf("ImmU() = %s, want 0xdeadb000", got)
	}
}

func TestImmUJRoundTrip(t *testing.T) {
	for _, offset := range []int32{4, 2046, -2, -1048576} {
		ir := Instruction(encodeUJ(R1, offset))

		if got := int32(ir.ImmUJ()); got != offset {
			t.Errorf("ImmUJ() = %d, want %d", got, offset)
		}
	}
}
