package cpu

const (
	DEFAULT_ZERO_FILL_THRESHOLD = 1024 // Largest zero span, in words, filled eagerly.
)

// Policy selects the safety checks and ordering of a run.
type Policy struct {
	ZeroInit          bool   // Every unmapped word reads as zero.
	Alignment         uint64 // Required ip alignment in bits; 0 means 2w.
	NoNullJump        bool   // Jumps below 2w are faults.
	AllowSelfModify   bool   // An instruction may flip its own bits.
	FlipBeforeJump    bool   // Flip before the jump word is read.
	ZeroFillThreshold uint64 // Zero spans up to this many words are materialized; 0 means the default.
}

// DefaultPolicy returns the policy images are built for.
func DefaultPolicy() Policy {
	return Policy{
		NoNullJump:      true,
		AllowSelfModify: true,
		FlipBeforeJump:  true,
	}
}

// alignment resolves the instruction alignment for W.
func alignment[W Word](policy Policy) (align W, err error) {
	a := policy.Alignment
	if a == 0 {
		a = uint64(2 * Width[W]())
	}
	if a&(a-1) != 0 || uint64(W(a)) != a {
		err = &ErrPolicyValue{Name: "alignment", Value: a}
		return
	}
	align = W(a)
	return
}

func (policy Policy) zeroFillThreshold() uint64 {
	if policy.ZeroFillThreshold == 0 {
		return DEFAULT_ZERO_FILL_THRESHOLD
	}
	return policy.ZeroFillThreshold
}
