package cpu

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ezrec/flipjump/fjm"
	"github.com/ezrec/flipjump/io"
)

type segment struct {
	start  uint64
	length uint64
	data   []uint64
}

// newTestCpu loads segments into a fresh CPU with a tape over input.
func newTestCpu[W Word](t *testing.T, policy Policy, input []byte, segments ...segment) (cpu *Cpu[W], output *bytes.Buffer) {
	b := fjm.NewBuilder(uint16(Width[W]()), 1)
	for _, seg := range segments {
		require.NoError(t, b.AddSegment(seg.start, seg.length, seg.data))
	}

	stats := NewStats(false)
	output = &bytes.Buffer{}
	tape := &io.Tape{
		Input:  bytes.NewReader(input),
		Output: output,
		Timer:  stats,
	}

	mem := NewMemory[W](policy.ZeroInit, tape)
	require.NoError(t, mem.Load(b.Image(), policy.zeroFillThreshold()))

	cpu, err := NewCpu(policy, mem, stats)
	require.NoError(t, err)

	return
}
