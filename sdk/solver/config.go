package solver

import (
	"errors"

	"github.com/lox/pokerforbots/internal/hulth"
)

// AbstractionConfig controls how many equivalence classes the hand
// abstraction produces. It must match across training and play; a model
// trained with one bucket count cannot be consulted with another.
type AbstractionConfig struct {
	MaxBuckets int
}

// Validate ensures the abstraction is usable.
func (c AbstractionConfig) Validate() error {
	if c.MaxBuckets <= 0 {
		return errors.New("max buckets must be > 0")
	}
	return nil
}

// DefaultAbstraction returns the bucket count this system trains and plays
// with by default.
func DefaultAbstraction() AbstractionConfig {
	return AbstractionConfig{MaxBuckets: 8}
}

// TrainingConfig aggregates the fixed-limit betting parameters and the CFR
// run parameters. The betting parameters are what becomes hulth.Constants;
// changing any of them invalidates a previously trained model.
type TrainingConfig struct {
	Iterations        int
	Seed              int64
	SmallBlind        int
	BigBlind          int
	StartingStack     int
	RaiseAmount       int
	MaxRaisesPerStage int

	ProgressEvery   int
	CheckpointEvery int
	CheckpointPath  string
}

// Validate ensures the training parameters are safe to use.
func (c TrainingConfig) Validate() error {
	if c.Iterations <= 0 {
		return errors.New("iterations must be > 0")
	}
	if c.SmallBlind <= 0 {
		return errors.New("small blind must be > 0")
	}
	if c.BigBlind <= c.SmallBlind {
		return errors.New("big blind must be greater than small blind")
	}
	if c.StartingStack < c.BigBlind {
		return errors.New("starting stack must cover the big blind")
	}
	if c.RaiseAmount <= 0 {
		return errors.New("raise amount must be > 0")
	}
	if c.MaxRaisesPerStage <= 0 {
		return errors.New("max raises per stage must be > 0")
	}
	if c.ProgressEvery < 0 {
		return errors.New("progress interval cannot be negative")
	}
	if c.CheckpointEvery < 0 {
		return errors.New("checkpoint interval cannot be negative")
	}
	return nil
}

// Constants derives the game-state core's fixed-limit betting parameters
// from the training config and a bucket count.
func (c TrainingConfig) Constants(maxBuckets int) hulth.Constants {
	return hulth.Constants{
		StartingStack:     c.StartingStack,
		SmallBlind:        c.SmallBlind,
		BigBlind:          c.BigBlind,
		RaiseAmount:       c.RaiseAmount,
		MaxRaisesPerStage: c.MaxRaisesPerStage,
		MaxBuckets:        maxBuckets,
	}
}

// DefaultTrainingConfig returns the reference HULTH parameters (spec §3)
// with a modest iteration count suitable for local experimentation.
func DefaultTrainingConfig() TrainingConfig {
	return TrainingConfig{
		Iterations:        10000,
		Seed:              1,
		SmallBlind:        10,
		BigBlind:          20,
		StartingStack:     140,
		RaiseAmount:       20,
		MaxRaisesPerStage: 2,
		ProgressEvery:     1000,
	}
}
