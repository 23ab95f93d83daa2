package expectation

import (
	"github.com/cosmos/evmmock/types"

	errorsmod "cosmossdk.io/errors"
)

// Sequence orders expectations, possibly across contracts. The cursor points
// at the entry that accepted the latest call. An entry is eligible when it is
// at or after the cursor and every entry between the cursor and itself has
// reached its lower bound, so entries with ranges like AtLeast(2) can keep
// accepting calls until a later entry is called.
//
// The zero value is an empty sequence ready to use.
type Sequence struct {
	entries []*Expectation
	cursor  int
	retired bool
}

// NewSequence returns an empty sequence.
func NewSequence() *Sequence {
	return &Sequence{}
}

// Len returns the number of entries.
func (s *Sequence) Len() int {
	return len(s.entries)
}

func (s *Sequence) add(e *Expectation) (int, error) {
	if s.retired {
		return 0, errorsmod.Wrap(types.ErrConfiguration, "sequence was already verified by a checkpoint, create a new one")
	}
	s.entries = append(s.entries, e)
	return len(s.entries) - 1, nil
}

func (s *Sequence) eligible(idx int) bool {
	if idx < s.cursor {
		return false
	}
	for i := s.cursor; i < idx; i++ {
		if !s.entries[i].satisfied() {
			return false
		}
	}
	return true
}

func (s *Sequence) advance(idx int) {
	s.cursor = idx
}

// Verify returns an error naming the first entry that didn't reach its lower bound.
func (s *Sequence) Verify() error {
	for i, e := range s.entries {
		if !e.satisfied() {
			return errorsmod.Wrapf(
				types.ErrVerification,
				"sequence is not finished: step %d of %d, %s, was called %d times but expected %s (set at %s)",
				i+1, len(s.entries), e, e.callCount, e.times, e.location,
			)
		}
	}
	return nil
}

// retire closes the sequence after a checkpoint verified it.
func (s *Sequence) retire() {
	s.retired = true
}
