package vm

import (
	"bytes"
	"testing"

	"riskxvii/internal/log"
)

// testHarness builds a Machine wired to buffers instead of stdio, grounded
// on the reference codebase's testHarness (internal/vm/test_test.go).
type testHarness struct {
	*testing.T

	in  *bytes.Buffer
	out *bytes.Buffer
}

func newTestHarness(t *testing.T) *testHarness {
	return &testHarness{T: t, in: new(bytes.Buffer), out: new(bytes.Buffer)}
}

func (th *testHarness) Make() *Machine {
	return New(
		WithStdio(th.in, th.out),
		WithLogger(log.NewFormattedLogger(th)),
	)
}

func (th *testHarness) Write(b []byte) (int, error) {
	th.T.Helper()
	th.T.Log(string(bytes.TrimRight(b, "\n")))

	return len(b), nil
}

// --- instruction encoders, inverse of the Instruction accessor methods in
// instr.go. Used to build hand-assembled test images without an assembler.

func encodeR(op Opcode, rd GPR, func3 uint32, rs1, rs2 GPR, func7 uint32) uint32 {
	return uint32(op) | uint32(rd)<<7 | func3<<12 | uint32(rs1)<<15 | uint32(rs2)<<20 | func7<<25
}

func encodeI(op Opcode, rd GPR, func3 uint32, rs1 GPR, imm int32) uint32 {
	return uint32(op) | uint32(rd)<<7 | func3<<12 | uint32(rs1)<<15 | (uint32(imm)&0xfff)<<20
}

func encodeS(rs1, rs2 GPR, func3 uint32, imm int32) uint32 {
	u := uint32(imm)
	lo := u & 0x1f
	hi := (u >> 5) & 0x7f

	return uint32(OpS) | lo<<7 | func3<<12 | uint32(rs1)<<15 | uint32(rs2)<<20 | hi<<25
}

// encodeSB encodes a branch with offset, the byte distance from this
// instruction to the target (already doubled, as ImmSB decodes it).
func encodeSB(rs1, rs2 GPR, func3 uint32, offset int32) uint32 {
	u := uint32(offset)
	b12 := (u >> 12) & 0x1
	b11 := (u >> 11) & 0x1
	b10_5 := (u >> 5) & 0x3f
	b4_1 := (u >> 1) & 0xf

	return uint32(OpSB) | b11<<7 | b4_1<<8 | func3<<12 | uint32(rs1)<<15 | uint32(rs2)<<20 | b10_5<<25 | b12<<31
}

func encodeU(rd GPR, imm uint32) uint32 {
	return uint32(OpU) | uint32(rd)<<7 | (imm & 0xfffff000)
}

// encodeUJ encodes a jump with offset, the byte distance from this
// instruction to the target (already doubled, as ImmUJ decodes it).
func encodeUJ(rd GPR, offset int32) uint32 {
	u := uint32(offset)
	b20 := (u >> 20) & 0x1
	b19_12 := (u >> 12) & 0xff
	b11 := (u >> 11) & 0x1
	b10_1 := (u >> 1) & 0x3ff

	return uint32(OpUJ) | uint32(rd)<<7 | b19_12<<12 | b11<<20 | b10_1<<21 | b20<<31
}

// putWord appends w to image as four little-endian bytes.
func putWord(image []byte, w uint32) []byte {
	return append(image, byte(w), byte(w>>8), byte(w>>16), byte(w>>24))
}
