// Package expectation keeps the expectations registered on a contract, picks
// the one that accepts a call and verifies cardinalities and sequences.
package expectation

import (
	"cmp"
	"slices"

	"github.com/ethereum/go-ethereum/common"

	"github.com/cosmos/evmmock/registry"
	"github.com/cosmos/evmmock/types"

	errorsmod "cosmossdk.io/errors"
)

// Store holds the expectations of one contract in registration order.
type Store struct {
	contract     common.Address
	expectations []*Expectation
	nextID       uint64
	unexpected   []error
}

// NewStore returns an empty store for the contract at addr.
func NewStore(addr common.Address) *Store {
	return &Store{contract: addr}
}

// Add registers a new expectation for d with the default configuration: any
// arguments, any number of times, zero return values, calls and transactions
// both allowed.
func (s *Store) Add(d *registry.Descriptor, location string) *Expectation {
	e := &Expectation{
		id:                s.nextID,
		desc:              d,
		contract:          s.contract,
		location:          location,
		times:             AnyTimes(),
		response:          DefaultResponse(),
		allowCalls:        true,
		allowTransactions: true,
	}
	s.nextID++
	s.expectations = append(s.expectations, e)
	return e
}

// Len returns the number of registered expectations.
func (s *Store) Len() int {
	return len(s.expectations)
}

// Match selects the expectation accepting a call to d. With commit set the
// call is counted and the sequence of the chosen expectation advances; a
// failed committed match is remembered and reported by Verify.
//
// Candidates must match the selector, the call kind, the predicate and admit
// one more call; entries of a sequence must be eligible. Bounded candidates
// win over unbounded ones, then the earliest registered wins.
func (s *Store) Match(d *registry.Descriptor, ctx *types.CallContext, commit bool) (*Expectation, error) {
	var (
		candidates []*Expectation
		known      bool
		outOfOrder bool
	)

	for _, e := range s.expectations {
		if e.desc != d {
			continue
		}
		known = true

		if !e.admitsKind(ctx) || !e.times.Admits(e.callCount) {
			continue
		}

		e.used = true
		callCtx := *ctx
		callCtx.Index = e.callCount
		ok, err := e.predicate.Matches(&callCtx, ctx.Args)
		if err != nil {
			return nil, errorsmod.Wrapf(
				types.ErrConfiguration,
				"predicate of expectation for %s (set at %s) failed: %s", e, e.location, err.Error(),
			)
		}
		if !ok {
			continue
		}

		if e.seq != nil && !e.seq.eligible(e.seqIndex) {
			outOfOrder = true
			continue
		}

		candidates = append(candidates, e)
	}

	if len(candidates) == 0 {
		err := s.noMatch(d, ctx, known, outOfOrder)
		if commit {
			s.unexpected = append(s.unexpected, err)
		}
		return nil, err
	}

	best := slices.MinFunc(candidates, compareCandidates)
	if commit {
		ctx.Index = best.callCount
		best.callCount++
		if best.seq != nil {
			best.seq.advance(best.seqIndex)
		}
	}

	return best, nil
}

// compareCandidates orders bounded ranges first, then registration order.
// Ids are unique, which makes the order total.
func compareCandidates(a, b *Expectation) int {
	if a.times.Bounded() != b.times.Bounded() {
		if a.times.Bounded() {
			return -1
		}
		return 1
	}
	return cmp.Compare(a.id, b.id)
}

func (s *Store) noMatch(d *registry.Descriptor, ctx *types.CallContext, known, outOfOrder bool) error {
	kind := "transaction"
	if ctx.IsViewCall {
		kind = "call"
	}

	switch {
	case !known:
		return errorsmod.Wrapf(
			types.ErrNoExpectation,
			"unexpected %s to %s on contract %s, no expectations were set for this method",
			kind, d.Signature, s.contract.Hex(),
		)
	case outOfOrder:
		return errorsmod.Wrapf(
			types.ErrNoExpectation,
			"unexpected %s to %s on contract %s with arguments %s, the call is out of sequence order",
			kind, d.Signature, s.contract.Hex(), ctx.Args,
		)
	default:
		return errorsmod.Wrapf(
			types.ErrNoExpectation,
			"unexpected %s to %s on contract %s with arguments %s",
			kind, d.Signature, s.contract.Hex(), ctx.Args,
		)
	}
}

// Verify returns one error per expectation below its lower bound and per
// committed call that no expectation accepted.
func (s *Store) Verify() []error {
	var errs []error
	for _, e := range s.expectations {
		if !e.satisfied() {
			errs = append(errs, errorsmod.Wrapf(
				types.ErrVerification,
				"%s was called %d times but expected %s (set at %s)",
				e, e.callCount, e.times, e.location,
			))
		}
	}
	return append(errs, s.unexpected...)
}

// Sequences returns the distinct sequences referenced by the store.
func (s *Store) Sequences() []*Sequence {
	var seqs []*Sequence
	for _, e := range s.expectations {
		if e.seq != nil && !slices.Contains(seqs, e.seq) {
			seqs = append(seqs, e.seq)
		}
	}
	return seqs
}

// Clear drops every expectation and retires their sequences.
func (s *Store) Clear() {
	for _, seq := range s.Sequences() {
		seq.retire()
	}
	s.expectations = nil
	s.unexpected = nil
}
