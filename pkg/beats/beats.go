// Package beats provides the musical-time value type used as the MIDI
// timebase: whole beats paired with sub-beat ticks at a fixed resolution.
package beats

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// PPQN is the number of ticks per quarter note (beat). Fixed per the session
// format; never varies at runtime.
const PPQN int32 = 1920

// tolerance is the largest difference, expressed in beats, that two values
// are still considered equal for comparison purposes (one tick).
const tolerance = 1.0 / float64(PPQN)

// Beats is a value type pairing whole beats and sub-beat ticks.
//
// Invariant: 0 <= |Ticks| < PPQN, and Beats/Ticks share a sign (or either is
// zero). normalize restores this invariant after construction or arithmetic.
type Beats struct {
	Beats int32
	Ticks int32
}

// Zero is the additive identity.
var Zero = Beats{}

// New constructs a Beats value from whole beats and ticks, normalizing the
// result.
func New(wholeBeats, ticks int32) Beats {
	b := Beats{Beats: wholeBeats, Ticks: ticks}
	b.normalize()
	return b
}

// FromReal constructs a Beats value from a real number of beats: the integer
// part becomes Beats, and the fractional part is rounded to the nearest tick.
func FromReal(x float64) Beats {
	whole, frac := math.Modf(x)
	ticks := math.Round(frac * float64(PPQN))
	b := Beats{Beats: int32(whole), Ticks: int32(ticks)}
	b.normalize()
	return b
}

// totalTicks returns the value as a single 64-bit tick count, used internally
// so arithmetic never overflows 32 bits mid-computation.
func (b Beats) totalTicks() int64 {
	return int64(b.Beats)*int64(PPQN) + int64(b.Ticks)
}

// fromTotalTicks rebuilds a normalized Beats from a 64-bit tick count.
func fromTotalTicks(ticks int64) Beats {
	whole := ticks / int64(PPQN)
	rem := ticks % int64(PPQN)
	b := Beats{Beats: int32(whole), Ticks: int32(rem)}
	b.normalize()
	return b
}

// normalize re-canonicalizes the value in place so |Ticks| < PPQN and the
// signs of Beats and Ticks agree (or either is zero). Preserves
// Beats*PPQN+Ticks exactly.
func (b *Beats) normalize() {
	if b.Ticks >= PPQN || b.Ticks <= -PPQN {
		b.Beats += b.Ticks / PPQN
		b.Ticks = b.Ticks % PPQN
	}
	if b.Beats > 0 && b.Ticks < 0 {
		b.Beats--
		b.Ticks += PPQN
	} else if b.Beats < 0 && b.Ticks > 0 {
		b.Beats++
		b.Ticks -= PPQN
	}
}

// Add returns b + other.
func (b Beats) Add(other Beats) Beats {
	return fromTotalTicks(b.totalTicks() + other.totalTicks())
}

// Sub returns b - other.
func (b Beats) Sub(other Beats) Beats {
	return fromTotalTicks(b.totalTicks() - other.totalTicks())
}

// Negate returns -b.
func (b Beats) Negate() Beats {
	return fromTotalTicks(-b.totalTicks())
}

// Mul returns b scaled by a real factor.
func (b Beats) Mul(scalar float64) Beats {
	return FromReal(b.ToFloat() * scalar)
}

// Div returns b divided by a real factor, rounded to tick precision.
func (b Beats) Div(scalar float64) Beats {
	ticks := float64(b.totalTicks()) / scalar
	return fromTotalTicks(int64(math.Round(ticks)))
}

// ToFloat returns the value as a real number of beats.
func (b Beats) ToFloat() float64 {
	return float64(b.Beats) + float64(b.Ticks)/float64(PPQN)
}

// RoundToBeat rounds to the nearest whole beat; ties (tick == PPQN/2) round
// away from zero.
func (b Beats) RoundToBeat() Beats {
	if b.Ticks == 0 {
		return b
	}
	if abs32(b.Ticks) >= PPQN/2 {
		if b.Ticks > 0 {
			return Beats{Beats: b.Beats + 1}
		}
		return Beats{Beats: b.Beats - 1}
	}
	return Beats{Beats: b.Beats}
}

// RoundUpToBeat returns the next whole beat unless b is already on a beat
// boundary.
func (b Beats) RoundUpToBeat() Beats {
	if b.Ticks == 0 {
		return b
	}
	if b.Beats >= 0 {
		return Beats{Beats: b.Beats + 1}
	}
	return Beats{Beats: b.Beats + 1}
}

// RoundDownToBeat truncates the tick component.
func (b Beats) RoundDownToBeat() Beats {
	return Beats{Beats: b.Beats}
}

// SnapTo returns the smallest multiple of step that is >= b, using
// real-number arithmetic (ceil(self/step) * step).
func (b Beats) SnapTo(step Beats) Beats {
	if step.totalTicks() == 0 {
		return b
	}
	ratio := b.ToFloat() / step.ToFloat()
	return step.Mul(math.Ceil(ratio))
}

// Equal reports whether b and x differ by no more than one tick.
func (b Beats) Equal(x float64) bool {
	return math.Abs(b.ToFloat()-x) <= tolerance
}

// Less reports b < x, treating differences within tolerance as equal (so
// near-equal pairs return false).
func (b Beats) Less(x float64) bool {
	if b.Equal(x) {
		return false
	}
	return b.ToFloat() < x
}

// Greater reports b > x, treating differences within tolerance as equal.
func (b Beats) Greater(x float64) bool {
	if b.Equal(x) {
		return false
	}
	return b.ToFloat() > x
}

// Compare orders two Beats values exactly (no tolerance); used for sorting.
func (b Beats) Compare(other Beats) int {
	bt, ot := b.totalTicks(), other.totalTicks()
	switch {
	case bt < ot:
		return -1
	case bt > ot:
		return 1
	default:
		return 0
	}
}

// String renders the canonical "<beats>.<ticks>" textual form.
func (b Beats) String() string {
	return fmt.Sprintf("%d.%d", b.Beats, b.Ticks)
}

// Parse reads a real number (not the beats.ticks textual form) and
// constructs a Beats value via FromReal, matching the asymmetric
// serialization contract: output is "<beats>.<ticks>", input is a plain
// real number.
func Parse(s string) (Beats, error) {
	x, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return Beats{}, fmt.Errorf("beats: parse %q: %w", s, err)
	}
	return FromReal(x), nil
}

// Lowest returns the smallest representable Beats value.
func Lowest() Beats {
	return Beats{Beats: math.MinInt32, Ticks: -(PPQN - 1)}
}

// Max returns the largest representable Beats value.
func Max() Beats {
	return Beats{Beats: math.MaxInt32, Ticks: PPQN - 1}
}

func abs32(x int32) int32 {
	if x < 0 {
		return -x
	}
	return x
}
