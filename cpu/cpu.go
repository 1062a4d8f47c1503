// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Cpu is the simulation context for a flip-jump processor of word type W.
type Cpu[W Word] struct {
	Verbose bool // Set to enable verbose logging.

	Policy Policy     // Checks and ordering in effect.
	Memory *Memory[W] // Reference to the memory simulation.
	Stats  *Stats     // Step and timing counters.

	Ip W // Current instruction pointer.

	w     W
	align W
}

// NewCpu creates a CPU over a loaded memory.
func NewCpu[W Word](policy Policy, mem *Memory[W], stats *Stats) (cpu *Cpu[W], err error) {
	align, err := alignment[W](policy)
	if err != nil {
		return
	}

	if stats == nil {
		stats = NewStats(true)
	}

	cpu = &Cpu[W]{
		Policy: policy,
		Memory: mem,
		Stats:  stats,
		w:      Width[W](),
		align:  align,
	}

	return
}

// String returns the current CPU state as a string.
func (cpu *Cpu[W]) String() string {
	return fmt.Sprintf("w%d ip=%#x steps=%d", cpu.w, uint64(cpu.Ip), cpu.Stats.Steps)
}

// selfFlip reports whether bit address flip lies within the two words of
// the instruction at ip.
func (cpu *Cpu[W]) selfFlip(flip W) bool {
	return flip >= cpu.Ip && flip-cpu.Ip < 2*cpu.w
}

// Tick executes one step. It returns done when the step was the halt idiom:
// a jump to itself that does not flip its own instruction.
func (cpu *Cpu[W]) Tick() (done bool, err error) {
	ip := cpu.Ip
	mem := cpu.Memory

	if ip%cpu.align != 0 {
		err = &ErrFault{Addr: uint64(ip), Err: ErrUnalignedFetch}
		return
	}

	flip, err := mem.ReadWord(ip)
	if err != nil {
		return
	}

	self := cpu.selfFlip(flip)
	if self && !cpu.Policy.AllowSelfModify {
		err = &ErrFault{Addr: uint64(flip), Err: ErrSelfModifyForbidden}
		return
	}

	var jump W
	if cpu.Policy.FlipBeforeJump {
		err = mem.FlipBit(flip)
		if err != nil {
			return
		}
		jump, err = mem.ReadWordWithInput(ip + cpu.w)
		if err != nil {
			return
		}
	} else {
		jump, err = mem.ReadWordWithInput(ip + cpu.w)
		if err != nil {
			return
		}
		err = mem.FlipBit(flip)
		if err != nil {
			return
		}
	}

	if cpu.Verbose {
		log.Debugf("cpu: %#x: flip %#x jump %#x", uint64(ip), uint64(flip), uint64(jump))
	}

	if jump == ip && !self {
		cpu.Stats.StopTimer()
		done = true
		return
	}

	if cpu.Policy.NoNullJump && jump < 2*cpu.w {
		err = &ErrFault{Addr: uint64(jump), Err: ErrForbiddenNullJump}
		return
	}

	cpu.Ip = jump
	cpu.Stats.Count()

	return
}

// Run ticks until the processor halts or faults.
func (cpu *Cpu[W]) Run() (err error) {
	for done := false; !done; {
		done, err = cpu.Tick()
		if err != nil {
			return
		}
	}
	return
}
