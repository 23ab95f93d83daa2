package expectation_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cosmos/evmmock/expectation"
	"github.com/cosmos/evmmock/types"
)

func TestTimesRange(t *testing.T) {
	between, err := expectation.Between(2, 4)
	require.NoError(t, err)

	testCases := []struct {
		name      string
		r         expectation.TimesRange
		admits    []uint64
		rejects   []uint64
		satisfied uint64
		str       string
	}{
		{"any", expectation.AnyTimes(), []uint64{0, 1, 1000}, nil, 0, "any number of times"},
		{"once", expectation.Once(), []uint64{0}, []uint64{1, 2}, 1, "exactly 1 time"},
		{"times 3", expectation.Times(3), []uint64{0, 1, 2}, []uint64{3}, 3, "exactly 3 times"},
		{"never", expectation.Never(), nil, []uint64{0}, 0, "exactly 0 times"},
		{"at least", expectation.AtLeast(2), []uint64{0, 5, 100}, nil, 2, "at least 2 times"},
		{"at most", expectation.AtMost(2), []uint64{0, 1}, []uint64{2}, 0, "at most 2 times"},
		{"between", between, []uint64{0, 3}, []uint64{4}, 2, "between 2 and 4 times"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for _, n := range tc.admits {
				require.True(t, tc.r.Admits(n), "should admit a call after %d", n)
			}
			for _, n := range tc.rejects {
				require.False(t, tc.r.Admits(n), "should reject a call after %d", n)
			}
			require.True(t, tc.r.Satisfied(tc.satisfied))
			if tc.satisfied > 0 {
				require.False(t, tc.r.Satisfied(tc.satisfied-1))
			}
			require.Equal(t, tc.str, tc.r.String())
		})
	}
}

func TestTimesRangeInvariant(t *testing.T) {
	// a bounded range never lets the count reach its upper bound
	for upper := uint64(1); upper < 6; upper++ {
		r, err := expectation.NewTimesRange(0, upper)
		require.NoError(t, err)

		count := uint64(0)
		for i := 0; i < 10; i++ {
			if r.Admits(count) {
				count++
			}
			require.LessOrEqual(t, count, upper-1)
		}
		require.Equal(t, upper-1, count)
		require.Zero(t, r.Remaining(count))
	}
}

func TestNewTimesRangeInvalid(t *testing.T) {
	_, err := expectation.NewTimesRange(3, 2)
	require.ErrorIs(t, err, types.ErrConfiguration)

	_, err = expectation.NewTimesRange(2, 2)
	require.ErrorIs(t, err, types.ErrConfiguration)

	_, err = expectation.Between(5, 1)
	require.ErrorContains(t, err, "lower bound must be below the upper bound")
}
