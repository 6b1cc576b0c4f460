package solver

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestCheckpointRoundTripsTrainerState(t *testing.T) {
	trainer := trainedTrainer(t, 15)
	path := filepath.Join(t.TempDir(), "checkpoint.json")

	if err := trainer.SaveCheckpoint(path); err != nil {
		t.Fatalf("save checkpoint: %v", err)
	}

	restored, err := LoadTrainerFromCheckpoint(path)
	if err != nil {
		t.Fatalf("load checkpoint: %v", err)
	}

	if restored.Iteration() != trainer.Iteration() {
		t.Fatalf("expected iteration %d, got %d", trainer.Iteration(), restored.Iteration())
	}
	if restored.RegretTableSize() != trainer.RegretTableSize() {
		t.Fatalf("expected table size %d, got %d", trainer.RegretTableSize(), restored.RegretTableSize())
	}

	orig, rest := trainer.regrets.Entries(), restored.regrets.Entries()
	for enc, entry := range orig {
		other, ok := rest[enc]
		if !ok {
			t.Fatalf("encoding %q missing after restore", enc)
		}
		for i := range entry.Actions {
			if entry.Actions[i] != other.Actions[i] {
				t.Fatalf("encoding %q: action %d mismatch", enc, i)
			}
			if entry.RegretSum[i] != other.RegretSum[i] {
				t.Fatalf("encoding %q: regret sum %d mismatch", enc, i)
			}
			if entry.StrategySum[i] != other.StrategySum[i] {
				t.Fatalf("encoding %q: strategy sum %d mismatch", enc, i)
			}
		}
	}
}

func TestResumedTrainingContinuesFromCheckpointedIteration(t *testing.T) {
	trainer := trainedTrainer(t, 10)
	path := filepath.Join(t.TempDir(), "checkpoint.json")
	if err := trainer.SaveCheckpoint(path); err != nil {
		t.Fatalf("save checkpoint: %v", err)
	}

	restored, err := LoadTrainerFromCheckpoint(path)
	if err != nil {
		t.Fatalf("load checkpoint: %v", err)
	}
	restored.trainCfg.Iterations = 20

	if err := restored.Run(context.Background(), nil); err != nil {
		t.Fatalf("resume run: %v", err)
	}
	if restored.Iteration() != 20 {
		t.Fatalf("expected 20 total iterations after resume, got %d", restored.Iteration())
	}
}

func TestLoadTrainerFromCheckpointRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.json")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatalf("write garbage file: %v", err)
	}
	if _, err := LoadTrainerFromCheckpoint(path); err == nil {
		t.Fatal("expected ErrModelFormat for malformed checkpoint")
	}
}
