// Package hulth implements the Heads-Up Limit Texas Hold'em game tree: action
// histories, legality, pot accounting, terminal utility, and the
// encoding string used as the CFR regret/strategy table key.
package hulth

import "errors"

// Constants bundles the fixed-limit betting parameters a game tree is built
// against. Every trained model is tied to one set of constants; loading a
// model trained under different values is a ModelConstantMismatch.
type Constants struct {
	StartingStack     int
	SmallBlind        int
	BigBlind          int
	RaiseAmount       int
	MaxRaisesPerStage int
	MaxBuckets        int
}

// Validate checks the constants are internally sensible.
func (c Constants) Validate() error {
	if c.StartingStack <= 0 {
		return errors.New("starting stack must be > 0")
	}
	if c.SmallBlind <= 0 {
		return errors.New("small blind must be > 0")
	}
	if c.BigBlind <= c.SmallBlind {
		return errors.New("big blind must exceed small blind")
	}
	if c.RaiseAmount <= 0 {
		return errors.New("raise amount must be > 0")
	}
	if c.MaxRaisesPerStage <= 0 {
		return errors.New("max raises per stage must be > 0")
	}
	if c.MaxBuckets <= 0 {
		return errors.New("max buckets must be > 0")
	}
	if c.StartingStack < c.BigBlind {
		return errors.New("starting stack must cover the big blind")
	}
	return nil
}

// DefaultConstants returns the reference HULTH parameters.
func DefaultConstants() Constants {
	return Constants{
		StartingStack:     140,
		SmallBlind:        10,
		BigBlind:          20,
		RaiseAmount:       20,
		MaxRaisesPerStage: 2,
		MaxBuckets:        8,
	}
}
