package primitives

import (
	"fmt"
	"math"
	"math/bits"
	"strings"
)

// billion is the denominator of Perbill.
const billion = 1_000_000_000

// Perbill is a ratio in parts per billion, saturating at 100%.
type Perbill uint32

// PerbillFromPercent creates a Perbill from a whole percentage.
// Values above 100 saturate.
func PerbillFromPercent(p uint32) Perbill {
	if p > 100 {
		p = 100
	}
	return Perbill(p * (billion / 100))
}

// PerbillFromParts creates a Perbill from parts per billion.
// Values above one billion saturate.
func PerbillFromParts(parts uint32) Perbill {
	if parts > billion {
		parts = billion
	}
	return Perbill(parts)
}

// Parts returns the raw parts per billion.
func (p Perbill) Parts() uint32 {
	return uint32(p)
}

// MulFloor applies the ratio to n, rounding down.
func (p Perbill) MulFloor(n uint64) uint64 {
	hi, lo := bits.Mul64(n, uint64(p))
	q, _ := bits.Div64(hi, lo, billion)
	return q
}

// String renders the ratio as a percentage without trailing zeros.
func (p Perbill) String() string {
	whole := uint32(p) / (billion / 100)
	frac := uint32(p) % (billion / 100)
	if frac == 0 {
		return fmt.Sprintf("%d%%", whole)
	}
	return fmt.Sprintf("%d.%s%%", whole, strings.TrimRight(fmt.Sprintf("%07d", frac), "0"))
}

// fixedU64Accuracy is the fractional precision of FixedU64 (10^9).
const fixedU64Accuracy = billion

// FixedU64 is an unsigned fixed-point number with nine decimal places.
type FixedU64 uint64

// FixedU64FromInt creates a FixedU64 from a whole number.
func FixedU64FromInt(n uint64) FixedU64 {
	return FixedU64(n * fixedU64Accuracy)
}

// FixedU64FromRational creates n/d, rounding down and saturating at the
// maximum representable value. d must not be zero.
func FixedU64FromRational(n, d uint64) FixedU64 {
	hi, lo := bits.Mul64(n, fixedU64Accuracy)
	if hi >= d {
		return FixedU64(math.MaxUint64)
	}
	q, _ := bits.Div64(hi, lo, d)
	return FixedU64(q)
}

// Inner returns the raw representation.
func (f FixedU64) Inner() uint64 {
	return uint64(f)
}

func (f FixedU64) String() string {
	return fmt.Sprintf("%d.%09d", uint64(f)/fixedU64Accuracy, uint64(f)%fixedU64Accuracy)
}

// FixedU128 is an unsigned fixed-point number with eighteen decimal places,
// stored as a 128-bit integer split into two words.
type FixedU128 struct {
	Hi uint64 `json:"hi"`
	Lo uint64 `json:"lo"`
}

// fixedU128Accuracy is the fractional precision of FixedU128 (10^18).
const fixedU128Accuracy = 1_000_000_000_000_000_000

// FixedU128FromInt creates a FixedU128 from a whole number.
func FixedU128FromInt(n uint64) FixedU128 {
	hi, lo := bits.Mul64(n, fixedU128Accuracy)
	return FixedU128{Hi: hi, Lo: lo}
}

// Add returns f + o and whether the addition overflowed.
func (f FixedU128) Add(o FixedU128) (FixedU128, bool) {
	lo, carry := bits.Add64(f.Lo, o.Lo, 0)
	hi, overflow := bits.Add64(f.Hi, o.Hi, carry)
	return FixedU128{Hi: hi, Lo: lo}, overflow != 0
}

// Whole returns the integer part, and false if it does not fit in 64 bits.
func (f FixedU128) Whole() (uint64, bool) {
	if f.Hi >= fixedU128Accuracy {
		return 0, false
	}
	q, _ := bits.Div64(f.Hi, f.Lo, fixedU128Accuracy)
	return q, true
}

func (f FixedU128) String() string {
	if f.Hi >= fixedU128Accuracy {
		return fmt.Sprintf("FixedU128(0x%016x%016x)", f.Hi, f.Lo)
	}
	q, r := bits.Div64(f.Hi, f.Lo, fixedU128Accuracy)
	return fmt.Sprintf("%d.%018d", q, r)
}
