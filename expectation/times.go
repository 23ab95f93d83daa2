package expectation

import (
	"fmt"
	"math"

	"github.com/cosmos/evmmock/types"

	errorsmod "cosmossdk.io/errors"
)

const unbounded = math.MaxUint64

// TimesRange bounds how many calls an expectation accepts: at least Lower,
// strictly fewer than the upper bound. The zero value accepts nothing; use
// AnyTimes for the default range.
type TimesRange struct {
	lower uint64
	upper uint64
}

// NewTimesRange returns the half-open range [lower, upper).
func NewTimesRange(lower, upper uint64) (TimesRange, error) {
	if lower >= upper {
		return TimesRange{}, errorsmod.Wrapf(
			types.ErrConfiguration,
			"invalid times range [%d, %d): lower bound must be below the upper bound", lower, upper,
		)
	}
	return TimesRange{lower: lower, upper: upper}, nil
}

// AnyTimes is the default range [0, ∞).
func AnyTimes() TimesRange { return TimesRange{lower: 0, upper: unbounded} }

// Times accepts exactly n calls.
func Times(n uint64) TimesRange { return TimesRange{lower: n, upper: inc(n)} }

// Once accepts exactly one call.
func Once() TimesRange { return Times(1) }

// Never accepts no calls.
func Never() TimesRange { return Times(0) }

// AtLeast accepts n or more calls.
func AtLeast(n uint64) TimesRange { return TimesRange{lower: n, upper: unbounded} }

// AtMost accepts up to n calls.
func AtMost(n uint64) TimesRange { return TimesRange{lower: 0, upper: inc(n)} }

// Between accepts from lo to hi calls, both inclusive.
func Between(lo, hi uint64) (TimesRange, error) { return NewTimesRange(lo, inc(hi)) }

func inc(n uint64) uint64 {
	if n >= unbounded-1 {
		return unbounded
	}
	return n + 1
}

func (r TimesRange) Lower() uint64 { return r.lower }

// Upper returns the exclusive upper bound, false when the range is unbounded.
func (r TimesRange) Upper() (uint64, bool) { return r.upper, r.Bounded() }

func (r TimesRange) Bounded() bool { return r.upper != unbounded }

// Admits reports whether one more call keeps the count below the upper bound.
func (r TimesRange) Admits(count uint64) bool {
	return count+1 < r.upper
}

// Satisfied reports whether count reached the lower bound.
func (r TimesRange) Satisfied(count uint64) bool {
	return count >= r.lower
}

// Remaining is the number of calls the range still admits.
func (r TimesRange) Remaining(count uint64) uint64 {
	if !r.Bounded() {
		return unbounded
	}
	if count+1 >= r.upper {
		return 0
	}
	return r.upper - 1 - count
}

func (r TimesRange) String() string {
	most := r.upper - 1
	switch {
	case r.lower == most:
		return "exactly " + plural(r.lower)
	case !r.Bounded() && r.lower == 0:
		return "any number of times"
	case !r.Bounded():
		return "at least " + plural(r.lower)
	case r.lower == 0:
		return "at most " + plural(most)
	default:
		return fmt.Sprintf("between %d and %s", r.lower, plural(most))
	}
}

func plural(n uint64) string {
	if n == 1 {
		return "1 time"
	}
	return fmt.Sprintf("%d times", n)
}
