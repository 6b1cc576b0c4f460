package solver

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/lox/pokerforbots/internal/hulth"
)

const checkpointFileVersion = 1

type checkpointSnapshot struct {
	Version     int                       `json:"version"`
	Iteration   int64                     `json:"iteration"`
	Abstraction AbstractionConfig         `json:"abstraction"`
	Training    TrainingConfig            `json:"training"`
	Stats       TraversalStats            `json:"stats"`
	Regrets     map[string]regretSnapshot `json:"regrets"`
}

type regretSnapshot struct {
	Actions     []string  `json:"actions"`
	RegretSum   []float64 `json:"regret_sum"`
	StrategySum []float64 `json:"strategy_sum"`
}

func (e *RegretEntry) snapshot() regretSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	tags := make([]string, len(e.Actions))
	for i, a := range e.Actions {
		tags[i] = a.String()
	}
	return regretSnapshot{
		Actions:     tags,
		RegretSum:   append([]float64(nil), e.RegretSum...),
		StrategySum: append([]float64(nil), e.StrategySum...),
	}
}

func newRegretEntryFromSnapshot(snap regretSnapshot) (*RegretEntry, error) {
	actions := make([]hulth.Action, len(snap.Actions))
	for i, tag := range snap.Actions {
		a, err := hulth.ParseAction(tag)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrModelFormat, err)
		}
		actions[i] = a
	}
	return &RegretEntry{
		Actions:     actions,
		RegretSum:   append([]float64(nil), snap.RegretSum...),
		StrategySum: append([]float64(nil), snap.StrategySum...),
	}, nil
}

// SaveCheckpoint writes a full snapshot of the trainer's regret/strategy
// tables and progress to path, via a temp file renamed into place so a
// crash mid-write never leaves a truncated checkpoint.
func (t *Trainer) SaveCheckpoint(path string) error {
	snap := t.buildCheckpoint()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create checkpoint dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create checkpoint temp: %w", err)
	}
	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("encode checkpoint: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close checkpoint temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("persist checkpoint: %w", err)
	}
	return nil
}

// LoadTrainerFromCheckpoint restores a trainer to the exact state
// SaveCheckpoint captured, including the RNG stream position, so resumed
// training continues the same reproducible draw sequence.
func LoadTrainerFromCheckpoint(path string) (*Trainer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	snap, err := decodeCheckpoint(f)
	if err != nil {
		return nil, err
	}

	trainer, err := NewTrainer(snap.Abstraction, snap.Training)
	if err != nil {
		return nil, err
	}

	trainer.iteration.Store(snap.Iteration)
	trainer.stats = snap.Stats
	// NewTrainer has already seeded trainer.rng from the same training
	// config (including its zero-seed default). Advance the RNG stream to where training left off: one CardBundle
	// deal per completed iteration consumes a fixed draw pattern, so
	// replaying `Iteration` deals puts the stream back where it was.
	for i := int64(0); i < snap.Iteration; i++ {
		if _, err := hulth.NewCardBundle(trainer.rng, trainer.mapper); err != nil {
			return nil, fmt.Errorf("replay rng stream: %w", err)
		}
	}

	regrets, err := restoreRegretTable(snap.Regrets)
	if err != nil {
		return nil, err
	}
	trainer.regrets = regrets
	return trainer, nil
}

func (t *Trainer) buildCheckpoint() *checkpointSnapshot {
	entries := t.regrets.Entries()
	regrets := make(map[string]regretSnapshot, len(entries))
	for key, entry := range entries {
		regrets[key] = entry.snapshot()
	}
	return &checkpointSnapshot{
		Version:     checkpointFileVersion,
		Iteration:   t.iteration.Load(),
		Abstraction: t.absCfg,
		Training:    t.trainCfg,
		Stats:       t.Stats(),
		Regrets:     regrets,
	}
}

func decodeCheckpoint(r io.Reader) (*checkpointSnapshot, error) {
	var snap checkpointSnapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelFormat, err)
	}
	if snap.Version != checkpointFileVersion {
		return nil, fmt.Errorf("%w: unsupported checkpoint version %d", ErrModelFormat, snap.Version)
	}
	if err := snap.Abstraction.Validate(); err != nil {
		return nil, fmt.Errorf("checkpoint abstraction invalid: %w", err)
	}
	if err := snap.Training.Validate(); err != nil {
		return nil, fmt.Errorf("checkpoint training invalid: %w", err)
	}
	return &snap, nil
}

func restoreRegretTable(snaps map[string]regretSnapshot) (*RegretTable, error) {
	table := NewRegretTable()
	for key, snap := range snaps {
		entry, err := newRegretEntryFromSnapshot(snap)
		if err != nil {
			return nil, err
		}
		shard := table.shardFor(key)
		shard.mu.Lock()
		shard.entries[key] = entry
		shard.mu.Unlock()
	}
	return table, nil
}
