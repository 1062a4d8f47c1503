// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"bufio"
	stdio "io"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/ezrec/flipjump/cpu"
	"github.com/ezrec/flipjump/fjm"
	"github.com/ezrec/flipjump/io"
)

// machine is a CPU of any word width.
type machine interface {
	Tick() (done bool, err error)
	String() string
	ip() uint64
}

type core[W cpu.Word] struct {
	*cpu.Cpu[W]
}

func (c core[W]) ip() uint64 {
	return uint64(c.Ip)
}

// Emulator state. Image + CPU + tape.
type Emulator struct {
	Verbose bool       // If set, enables verbose logging.
	Silent  bool       // If set, steps are not counted.
	Policy  cpu.Policy // Policy for the next Load.

	Image *fjm.Image // Currently loaded image.
	Stats *cpu.Stats // Statistics of the current run.
	Tape  io.Tape    // Standard input/output channel.

	machine machine
	ticks   uint64
}

// NewEmulator creates a new emulator with the default policy, with its tape
// on standard input and output.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Policy: cpu.DefaultPolicy(),
		Tape: io.Tape{
			Input:  os.Stdin,
			Output: os.Stdout,
		},
	}
	return
}

// Load reads an image and builds a CPU of the image's word width.
func (emu *Emulator) Load(r stdio.Reader) (err error) {
	img, err := fjm.Read(bufio.NewReader(r))
	if err != nil {
		return
	}

	if emu.Verbose {
		log.Debugf("emulator: %d-bit image, version %d, %d segments, %d words",
			img.Width, img.Version, len(img.Segments), len(img.Data))
	}

	switch img.Width {
	case 8:
		emu.machine, err = boot[uint8](emu, img)
	case 16:
		emu.machine, err = boot[uint16](emu, img)
	case 32:
		emu.machine, err = boot[uint32](emu, img)
	case 64:
		emu.machine, err = boot[uint64](emu, img)
	default:
		err = &fjm.ErrHeader{Field: "width", Value: uint64(img.Width), Err: fjm.ErrUnsupportedWordWidth}
	}
	if err != nil {
		emu.machine = nil
		return
	}

	emu.Image = img
	emu.ticks = 0

	return
}

func boot[W cpu.Word](emu *Emulator, img *fjm.Image) (m machine, err error) {
	mem := cpu.NewMemory[W](emu.Policy.ZeroInit, &emu.Tape)
	mem.Verbose = emu.Verbose

	threshold := emu.Policy.ZeroFillThreshold
	if threshold == 0 {
		threshold = cpu.DEFAULT_ZERO_FILL_THRESHOLD
	}
	err = mem.Load(img, threshold)
	if err != nil {
		return
	}

	emu.Stats = cpu.NewStats(emu.Silent)
	emu.Tape.Timer = emu.Stats

	c, err := cpu.NewCpu(emu.Policy, mem, emu.Stats)
	if err != nil {
		return
	}
	c.Verbose = emu.Verbose

	m = core[W]{c}
	return
}

// Ip returns current instruction pointer.
func (emu *Emulator) Ip() uint64 {
	if emu.machine == nil {
		return 0
	}
	return emu.machine.ip()
}

// Ticks returns the number of steps executed since Load.
func (emu *Emulator) Ticks() uint64 {
	return emu.ticks
}

// String returns the CPU state.
func (emu *Emulator) String() string {
	if emu.machine == nil {
		return ErrNotLoaded.Error()
	}
	return emu.machine.String()
}

// Tick performs a single step of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	if emu.machine == nil {
		err = ErrNotLoaded
		return
	}

	ip := emu.machine.ip()
	done, err = emu.machine.Tick()
	if err != nil {
		err = &ErrRuntime{Step: emu.ticks, Ip: ip, Err: err}
		return
	}
	emu.ticks++

	return
}

// Run steps until the program halts or faults.
func (emu *Emulator) Run() (err error) {
	for done, err := emu.Tick(); !done; done, err = emu.Tick() {
		if err != nil {
			return err
		}
	}

	if emu.Verbose {
		log.Debugf("emulator: halted, %v", emu.String())
	}

	return
}

// Report returns the run statistics summary.
func (emu *Emulator) Report() string {
	if emu.Stats == nil {
		return ""
	}
	return emu.Stats.Report()
}
