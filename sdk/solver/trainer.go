package solver

import (
	"context"
	randv2 "math/rand/v2"
	"sync"
	"sync/atomic"

	"github.com/lox/pokerforbots/internal/abstraction"
	"github.com/lox/pokerforbots/internal/hulth"
	"github.com/lox/pokerforbots/internal/randutil"
)

// TraversalStats captures instrumentation metrics for a single CFR
// iteration (both trainee descents combined).
type TraversalStats struct {
	NodesVisited  int64
	TerminalNodes int64
	MaxDepth      int
}

// Progress is emitted periodically during a training run.
type Progress struct {
	Iteration       int
	RegretTableSize int
	Stats           TraversalStats
}

// Trainer owns the two cumulative tables (folded into one RegretTable
// tracking both regret and strategy sums per encoding) and runs the
// chance-sampling CFR recursion over the HULTH game tree.
type Trainer struct {
	absCfg   AbstractionConfig
	trainCfg TrainingConfig
	consts   hulth.Constants
	mapper   *abstraction.BucketMapper
	regrets  *RegretTable
	rng      *randv2.Rand

	iteration atomic.Int64
	statsMu   sync.Mutex
	stats     TraversalStats
}

// NewTrainer constructs a trainer from validated abstraction and training
// configs.
func NewTrainer(absCfg AbstractionConfig, trainCfg TrainingConfig) (*Trainer, error) {
	if err := absCfg.Validate(); err != nil {
		return nil, err
	}
	if err := trainCfg.Validate(); err != nil {
		return nil, err
	}
	consts := trainCfg.Constants(absCfg.MaxBuckets)
	if err := consts.Validate(); err != nil {
		return nil, err
	}

	mapper, err := abstraction.NewBucketMapper(abstraction.Config{MaxBuckets: absCfg.MaxBuckets})
	if err != nil {
		return nil, err
	}

	seed := trainCfg.Seed
	if seed == 0 {
		seed = 1
	}

	return &Trainer{
		absCfg:   absCfg,
		trainCfg: trainCfg,
		consts:   consts,
		mapper:   mapper,
		regrets:  NewRegretTable(),
		rng:      randutil.New(seed),
	}, nil
}

// Run executes the configured number of CFR iterations, reporting progress
// and writing checkpoints at the configured cadence. Resumable: iteration
// count already completed (e.g. after LoadTrainerFromCheckpoint) is
// preserved.
func (t *Trainer) Run(ctx context.Context, progress func(Progress)) error {
	for i := int(t.iteration.Load()); i < t.trainCfg.Iterations; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		stats, err := t.singleIteration()
		if err != nil {
			return err
		}
		t.setStats(stats)
		iter := int(t.iteration.Add(1))

		if t.trainCfg.CheckpointPath != "" && t.trainCfg.CheckpointEvery > 0 && iter%t.trainCfg.CheckpointEvery == 0 {
			if err := t.SaveCheckpoint(t.trainCfg.CheckpointPath); err != nil {
				return err
			}
		}
		if progress != nil && t.trainCfg.ProgressEvery > 0 && iter%t.trainCfg.ProgressEvery == 0 {
			progress(Progress{Iteration: iter, RegretTableSize: t.regrets.Size(), Stats: stats})
		}
	}

	if progress != nil {
		progress(Progress{Iteration: int(t.iteration.Load()), RegretTableSize: t.regrets.Size(), Stats: t.Stats()})
	}
	if t.trainCfg.CheckpointPath != "" {
		if err := t.SaveCheckpoint(t.trainCfg.CheckpointPath); err != nil {
			return err
		}
	}
	return nil
}

// singleIteration draws one fresh deal and runs the chance-sampling CFR
// recursion once per trainee. Per spec §5 Ordering, the two descents are
// sequential and share the root: the small-blind descent mutates the
// tables before the big-blind descent reads the updated values.
func (t *Trainer) singleIteration() (TraversalStats, error) {
	bundle, err := hulth.NewCardBundle(t.rng, t.mapper)
	if err != nil {
		return TraversalStats{}, err
	}
	root, err := hulth.NewRootNode(bundle, t.consts)
	if err != nil {
		return TraversalStats{}, err
	}

	stats := &TraversalStats{}
	if _, err := t.cfr(root, hulth.SmallBlind, 1.0, 1.0, stats, 0); err != nil {
		return TraversalStats{}, err
	}
	if _, err := t.cfr(root, hulth.BigBlind, 1.0, 1.0, stats, 0); err != nil {
		return TraversalStats{}, err
	}
	return *stats, nil
}

func (t *Trainer) setStats(stats TraversalStats) {
	t.statsMu.Lock()
	defer t.statsMu.Unlock()
	t.stats = stats
}

// Stats returns the most recently completed iteration's traversal stats.
func (t *Trainer) Stats() TraversalStats {
	t.statsMu.Lock()
	defer t.statsMu.Unlock()
	return t.stats
}

// Iteration returns the number of iterations completed so far.
func (t *Trainer) Iteration() int64 {
	return t.iteration.Load()
}

// TrainingConfig returns the config the trainer was built with.
func (t *Trainer) TrainingConfig() TrainingConfig {
	return t.trainCfg
}

// Constants returns the fixed-limit betting parameters this trainer's
// tables are keyed against.
func (t *Trainer) Constants() hulth.Constants {
	return t.consts
}

// RegretTableSize returns the number of distinct encodings visited so far.
func (t *Trainer) RegretTableSize() int {
	return t.regrets.Size()
}

// Play consults the average strategy at node's encoding and returns the
// child node after sampling an action (spec §6 Play boundary). A chance
// node is advanced directly with its single Chance action. The caller is
// responsible for deciding terminality: Play must not be called on a
// terminal node.
func (t *Trainer) Play(node *hulth.Node, rng *randv2.Rand) (*hulth.Node, error) {
	if node.IsChance() {
		return node.Play(hulth.Chance)
	}

	actions := node.LegalActions()
	entry := t.regrets.Get(node.Encoding(), actions)
	sigma := entry.AverageStrategy()

	a := sampleAction(actions, sigma, rng)
	return node.Play(a)
}

// sampleAction draws the cumulative-probability sample described in spec
// §4.3 ("Action sampling at play"): draw u ~ U(0,1), return the first
// action whose cumulative probability >= u, retrying a bounded number of
// times if floating-point drift leaves the draw unselected.
func sampleAction(actions []hulth.Action, sigma []float64, rng *randv2.Rand) hulth.Action {
	const maxRetries = 4
	for attempt := 0; attempt < maxRetries; attempt++ {
		u := rng.Float64()
		acc := 0.0
		for i, p := range sigma {
			acc += p
			if u <= acc {
				return actions[i]
			}
		}
	}
	return actions[len(actions)-1]
}
