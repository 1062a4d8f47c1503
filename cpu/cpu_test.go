package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Scratch bit address flipped by instructions with no other effect.
const scratch16 = 20 * 16

// echo16 reads input bits through the word at 3w and writes each one back
// out: 0 -> 64 -> 32 -> 128+32*bit -> 64 ...
var echo16 = []segment{{
	start:  0,
	length: 24,
	data: []uint64{
		scratch16, 64, // 0
		scratch16, 128, // 32: I/O words; bit 5 of the jump is input
		scratch16, 32, // 64
		0, 0,
		32, 64, // 128: output 0
		33, 64, // 160: output 1
	},
}}

func TestCpu_HaltIdiom(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := newTestCpu[uint32](t, DefaultPolicy(), nil,
		segment{start: 0, length: 10, data: []uint64{0, 128, 0, 0, 9 * 32, 128}})

	assert.NoError(cpu.Run())
	assert.Equal(uint32(128), cpu.Ip)
	assert.Equal(uint64(1), cpu.Stats.Steps)

	// The halting step still flips.
	value, _ := cpu.Memory.Peek(9)
	assert.Equal(uint32(1), value)
	value, _ = cpu.Memory.Peek(0)
	assert.Equal(uint32(1), value)
}

func TestCpu_SelfFlipIsNotHalt(t *testing.T) {
	assert := assert.New(t)

	policy := DefaultPolicy()
	policy.NoNullJump = false

	// f=7 flips bit 7 of the instruction's own flip word, turning it into
	// 135, which lies outside the instruction. The second step halts.
	cpu, _ := newTestCpu[uint8](t, policy, nil,
		segment{start: 0, length: 18, data: []uint64{7, 0}})

	done, err := cpu.Tick()
	assert.NoError(err)
	assert.False(done)
	assert.Equal(uint8(0), cpu.Ip)

	value, _ := cpu.Memory.Peek(0)
	assert.Equal(uint8(135), value)

	done, err = cpu.Tick()
	assert.NoError(err)
	assert.True(done)

	value, _ = cpu.Memory.Peek(16)
	assert.Equal(uint8(0x80), value)
	assert.Equal(uint64(1), cpu.Stats.Steps)
}

func TestCpu_SelfJumpFault(t *testing.T) {
	assert := assert.New(t)

	// A self flip at ip 0 jumping to 0 does not halt; with null jumps
	// forbidden it faults.
	cpu, _ := newTestCpu[uint8](t, DefaultPolicy(), nil,
		segment{start: 0, length: 2, data: []uint64{0, 0}})

	done, err := cpu.Tick()
	assert.False(done)
	assert.ErrorIs(err, ErrForbiddenNullJump)
}

func TestCpu_Unaligned(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := newTestCpu[uint16](t, DefaultPolicy(), nil,
		segment{start: 0, length: 24, data: []uint64{scratch16, 48}})

	done, err := cpu.Tick()
	assert.NoError(err)
	assert.False(done)

	_, err = cpu.Tick()
	assert.ErrorIs(err, ErrUnalignedFetch)

	var fault *ErrFault
	assert.ErrorAs(err, &fault)
	assert.Equal(uint64(48), fault.Addr)
	assert.Equal(uint16(48), cpu.Ip)
}

func TestCpu_SelfModifyForbidden(t *testing.T) {
	assert := assert.New(t)

	policy := DefaultPolicy()
	policy.AllowSelfModify = false

	cpu, _ := newTestCpu[uint16](t, policy, nil,
		segment{start: 0, length: 4, data: []uint64{31, 64}})

	_, err := cpu.Tick()
	assert.ErrorIs(err, ErrSelfModifyForbidden)

	// Nothing was flipped.
	value, _ := cpu.Memory.Peek(1)
	assert.Equal(uint16(64), value)
}

func TestCpu_FlipOrder(t *testing.T) {
	table := [](struct {
		name   string
		before bool
		ip     uint16
	}){
		{"flip_before_jump", true, 64 + 32},
		{"jump_before_flip", false, 64},
	}

	for _, entry := range table {
		t.Run(entry.name, func(t *testing.T) {
			assert := assert.New(t)

			policy := DefaultPolicy()
			policy.FlipBeforeJump = entry.before

			// Flip bit 5 of the instruction's own jump word.
			cpu, _ := newTestCpu[uint16](t, policy, nil,
				segment{start: 0, length: 8, data: []uint64{16 + 5, 64}})

			_, err := cpu.Tick()
			assert.NoError(err)
			assert.Equal(entry.ip, cpu.Ip)
		})
	}
}

func TestCpu_Echo(t *testing.T) {
	assert := assert.New(t)

	cpu, output := newTestCpu[uint16](t, DefaultPolicy(), []byte("A"), echo16...)

	for range 1 + 3*16 {
		done, err := cpu.Tick()
		assert.NoError(err)
		assert.False(done)
	}

	assert.Equal([]byte{'A', 0xff}, output.Bytes())
	assert.Equal(uint64(1+3*16), cpu.Stats.Steps)
}

func TestCpu_Alignment(t *testing.T) {
	assert := assert.New(t)

	for _, align := range []uint64{3, 6, 1 << 9} {
		policy := DefaultPolicy()
		policy.Alignment = align
		_, err := NewCpu(policy, NewMemory[uint8](false, nil), nil)
		assert.ErrorIs(err, ErrPolicy, "alignment %d", align)
	}

	policy := DefaultPolicy()
	policy.Alignment = 8
	cpu, err := NewCpu(policy, NewMemory[uint8](false, nil), nil)
	assert.NoError(err)
	assert.Equal(uint8(8), cpu.align)
}

func TestCpu_UninitializedFetch(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := newTestCpu[uint64](t, DefaultPolicy(), nil,
		segment{start: 0, length: 2, data: []uint64{10 * 64, 256}})

	_, err := cpu.Tick()
	assert.ErrorIs(err, ErrUninitializedAccess)
	assert.Equal(uint64(10*64), err.(*ErrFault).Addr)
}
