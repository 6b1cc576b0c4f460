package runtime

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/lox/pokerforbots/internal/abstraction"
	"github.com/lox/pokerforbots/internal/hulth"
	"github.com/lox/pokerforbots/internal/randutil"
	"github.com/lox/pokerforbots/sdk/solver"
)

func trainedBlueprintPath(t *testing.T) (string, hulth.Constants) {
	t.Helper()
	absCfg := solver.AbstractionConfig{MaxBuckets: 2}
	trainCfg := solver.DefaultTrainingConfig()
	trainCfg.Iterations = 20

	trainer, err := solver.NewTrainer(absCfg, trainCfg)
	if err != nil {
		t.Fatalf("new trainer: %v", err)
	}
	if err := trainer.Run(context.Background(), nil); err != nil {
		t.Fatalf("run: %v", err)
	}

	path := filepath.Join(t.TempDir(), "model.json")
	if err := trainer.Blueprint().Save(path); err != nil {
		t.Fatalf("save blueprint: %v", err)
	}
	return path, trainer.Constants()
}

func TestLoadRejectsMismatchedConstants(t *testing.T) {
	path, consts := trainedBlueprintPath(t)
	consts.MaxBuckets++
	if _, err := Load(path, consts); err == nil {
		t.Fatal("expected error for mismatched constants")
	}
}

func TestActReturnsALegalAction(t *testing.T) {
	path, consts := trainedBlueprintPath(t)
	policy, err := Load(path, consts)
	if err != nil {
		t.Fatalf("load policy: %v", err)
	}

	mapper, err := abstraction.NewBucketMapper(abstraction.Config{MaxBuckets: consts.MaxBuckets})
	if err != nil {
		t.Fatalf("new mapper: %v", err)
	}
	rng := randutil.New(7)
	bundle, err := hulth.NewCardBundle(rng, mapper)
	if err != nil {
		t.Fatalf("new bundle: %v", err)
	}
	root, err := hulth.NewRootNode(bundle, consts)
	if err != nil {
		t.Fatalf("new root: %v", err)
	}
	move, err := root.Play(hulth.Chance)
	if err != nil {
		t.Fatalf("advance chance: %v", err)
	}

	action, err := policy.Act(move, rng)
	if err != nil {
		t.Fatalf("act: %v", err)
	}

	legal := false
	for _, a := range move.LegalActions() {
		if a == action {
			legal = true
			break
		}
	}
	if !legal {
		t.Fatalf("Act returned illegal action %v for legal set %v", action, move.LegalActions())
	}
}
