package solver

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/lox/pokerforbots/internal/hulth"
)

func trainedTrainer(t *testing.T, iterations int) *Trainer {
	t.Helper()
	trainer, err := NewTrainer(smallAbstraction(), smallTrainingConfig(iterations))
	if err != nil {
		t.Fatalf("new trainer: %v", err)
	}
	if err := trainer.Run(context.Background(), nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	return trainer
}

func TestBlueprintRoundTripsThroughDisk(t *testing.T) {
	trainer := trainedTrainer(t, 20)
	bp := trainer.Blueprint()

	path := filepath.Join(t.TempDir(), "model.json")
	if err := bp.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := LoadBlueprint(path, trainer.Constants())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if loaded.Iterations != bp.Iterations {
		t.Fatalf("expected iterations %d, got %d", bp.Iterations, loaded.Iterations)
	}
	if len(loaded.CumStrategy) != len(bp.CumStrategy) {
		t.Fatalf("expected %d encodings, got %d", len(bp.CumStrategy), len(loaded.CumStrategy))
	}
	for enc, byTag := range bp.CumStrategy {
		loadedByTag, ok := loaded.CumStrategy[enc]
		if !ok {
			t.Fatalf("missing encoding %q after round trip", enc)
		}
		for tag, v := range byTag {
			if loadedByTag[tag] != v {
				t.Fatalf("encoding %q tag %q: expected %v, got %v", enc, tag, v, loadedByTag[tag])
			}
		}
	}
}

func TestLoadBlueprintRejectsMismatchedConstants(t *testing.T) {
	trainer := trainedTrainer(t, 5)
	bp := trainer.Blueprint()

	path := filepath.Join(t.TempDir(), "model.json")
	if err := bp.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	wrong := trainer.Constants()
	wrong.MaxBuckets++

	if _, err := LoadBlueprint(path, wrong); err == nil {
		t.Fatal("expected ErrModelConstantMismatch for mismatched constants")
	}
}

func TestBlueprintAverageStrategyUniformForUnseenEncoding(t *testing.T) {
	trainer := trainedTrainer(t, 1)
	bp := trainer.Blueprint()

	actions := []hulth.Action{hulth.Fold, hulth.Call, hulth.Raise}
	sigma := bp.AverageStrategy("never-visited.0", actions)
	for _, p := range sigma {
		if p != 1.0/3.0 {
			t.Fatalf("expected uniform fallback, got %v", sigma)
		}
	}
}
