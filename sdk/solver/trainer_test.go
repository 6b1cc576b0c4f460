package solver

import (
	"context"
	"testing"

	"github.com/lox/pokerforbots/internal/hulth"
)

func smallTrainingConfig(iterations int) TrainingConfig {
	cfg := DefaultTrainingConfig()
	cfg.Iterations = iterations
	return cfg
}

func smallAbstraction() AbstractionConfig {
	return AbstractionConfig{MaxBuckets: 2}
}

func TestNewTrainerRejectsInvalidConfig(t *testing.T) {
	bad := smallTrainingConfig(1)
	bad.SmallBlind = 0
	if _, err := NewTrainer(smallAbstraction(), bad); err == nil {
		t.Fatal("expected error for zero small blind")
	}
}

func TestRunOneIterationPopulatesRegretTable(t *testing.T) {
	trainer, err := NewTrainer(smallAbstraction(), smallTrainingConfig(1))
	if err != nil {
		t.Fatalf("new trainer: %v", err)
	}

	if err := trainer.Run(context.Background(), nil); err != nil {
		t.Fatalf("run: %v", err)
	}

	if trainer.Iteration() != 1 {
		t.Fatalf("expected 1 completed iteration, got %d", trainer.Iteration())
	}
	if trainer.RegretTableSize() == 0 {
		t.Fatal("expected at least one encoding visited")
	}

	for enc, entry := range trainer.regrets.Entries() {
		if len(entry.Actions) == 0 {
			t.Fatalf("encoding %q has no actions recorded", enc)
		}
		if len(entry.RegretSum) != len(entry.Actions) || len(entry.StrategySum) != len(entry.Actions) {
			t.Fatalf("encoding %q: table slot count mismatch with action count", enc)
		}
	}
}

func TestRunAccumulatesPositiveStrategyWeightOnVisitedEncodings(t *testing.T) {
	trainer, err := NewTrainer(smallAbstraction(), smallTrainingConfig(50))
	if err != nil {
		t.Fatalf("new trainer: %v", err)
	}
	if err := trainer.Run(context.Background(), nil); err != nil {
		t.Fatalf("run: %v", err)
	}

	found := false
	for _, entry := range trainer.regrets.Entries() {
		total := 0.0
		for _, s := range entry.StrategySum {
			total += s
		}
		if total > 0 {
			found = true
			break
		}
	}
	if !found {
		t.Fatal("expected at least one encoding with positive cumulative strategy weight after 50 iterations")
	}
}

func TestRunRespectsContextCancellation(t *testing.T) {
	trainer, err := NewTrainer(smallAbstraction(), smallTrainingConfig(1000000))
	if err != nil {
		t.Fatalf("new trainer: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := trainer.Run(ctx, nil); err == nil {
		t.Fatal("expected context.Canceled error")
	}
}

func TestRunIsDeterministicForAFixedSeed(t *testing.T) {
	cfg := smallTrainingConfig(20)

	t1, err := NewTrainer(smallAbstraction(), cfg)
	if err != nil {
		t.Fatalf("new trainer 1: %v", err)
	}
	if err := t1.Run(context.Background(), nil); err != nil {
		t.Fatalf("run 1: %v", err)
	}

	t2, err := NewTrainer(smallAbstraction(), cfg)
	if err != nil {
		t.Fatalf("new trainer 2: %v", err)
	}
	if err := t2.Run(context.Background(), nil); err != nil {
		t.Fatalf("run 2: %v", err)
	}

	if t1.RegretTableSize() != t2.RegretTableSize() {
		t.Fatalf("expected identical table sizes for a fixed seed, got %d vs %d",
			t1.RegretTableSize(), t2.RegretTableSize())
	}

	e1, e2 := t1.regrets.Entries(), t2.regrets.Entries()
	for enc, entry := range e1 {
		other, ok := e2[enc]
		if !ok {
			t.Fatalf("encoding %q present in first run but not second", enc)
		}
		for i := range entry.RegretSum {
			if entry.RegretSum[i] != other.RegretSum[i] {
				t.Fatalf("encoding %q action %d: regret sums diverged (%v vs %v)",
					enc, i, entry.RegretSum[i], other.RegretSum[i])
			}
		}
	}
}

func TestPlayAdvancesChanceNodesAutomatically(t *testing.T) {
	trainer, err := NewTrainer(smallAbstraction(), smallTrainingConfig(1))
	if err != nil {
		t.Fatalf("new trainer: %v", err)
	}
	if err := trainer.Run(context.Background(), nil); err != nil {
		t.Fatalf("run: %v", err)
	}

	bundle, err := hulth.NewCardBundle(trainer.rng, trainer.mapper)
	if err != nil {
		t.Fatalf("new bundle: %v", err)
	}
	root, err := hulth.NewRootNode(bundle, trainer.Constants())
	if err != nil {
		t.Fatalf("new root: %v", err)
	}

	next, err := trainer.Play(root, trainer.rng)
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	if next.IsChance() {
		t.Fatal("expected the root's chance transition to be resolved by Play")
	}
}
