package solver

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/lox/pokerforbots/internal/hulth"
)

const blueprintFileVersion = 1

// ErrModelFormat means a model file failed to deserialise against the
// expected schema.
var ErrModelFormat = errors.New("solver: model format error")

// ErrModelConstantMismatch means a model file was trained under different
// fixed-limit betting constants than the ones requested at load time.
var ErrModelConstantMismatch = errors.New("solver: model built with different constants")

// Blueprint is the serialisable form of the two cumulative tables (spec
// §6 Model file): a mapping from encoding to a per-action-tag cumulative
// regret and cumulative strategy weight.
type Blueprint struct {
	Version     int
	GeneratedAt time.Time
	Iterations  int
	Constants   hulth.Constants
	CumRegrets  map[string]map[string]float64
	CumStrategy map[string]map[string]float64
}

type blueprintFile struct {
	Version     int                           `json:"version"`
	GeneratedAt time.Time                     `json:"generated_at"`
	Iterations  int                           `json:"iterations"`
	Constants   hulth.Constants               `json:"constants"`
	CumRegrets  map[string]map[string]float64 `json:"cum_regrets"`
	CumStrategy map[string]map[string]float64 `json:"cum_strategy"`
}

// Blueprint materialises the cumulative strategy weights (unnormalised;
// AverageStrategy derives the average from them) and the cumulative regret
// sums accumulated so far.
func (t *Trainer) Blueprint() *Blueprint {
	entries := t.regrets.Entries()
	cumRegrets := make(map[string]map[string]float64, len(entries))
	cumStrategy := make(map[string]map[string]float64, len(entries))

	for enc, entry := range entries {
		entry.mu.Lock()
		regretByTag := make(map[string]float64, len(entry.Actions))
		strategyByTag := make(map[string]float64, len(entry.Actions))
		for i, a := range entry.Actions {
			regretByTag[a.String()] = entry.RegretSum[i]
			strategyByTag[a.String()] = entry.StrategySum[i]
		}
		entry.mu.Unlock()
		cumRegrets[enc] = regretByTag
		cumStrategy[enc] = strategyByTag
	}

	return &Blueprint{
		Version:     blueprintFileVersion,
		GeneratedAt: time.Now().UTC(),
		Iterations:  int(t.iteration.Load()),
		Constants:   t.consts,
		CumRegrets:  cumRegrets,
		CumStrategy: cumStrategy,
	}
}

// Save writes the blueprint to disk as JSON.
func (b *Blueprint) Save(path string) error {
	f := blueprintFile{
		Version:     b.Version,
		GeneratedAt: b.GeneratedAt,
		Iterations:  b.Iterations,
		Constants:   b.Constants,
		CumRegrets:  b.CumRegrets,
		CumStrategy: b.CumStrategy,
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal blueprint: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write blueprint: %w", err)
	}
	return nil
}

// LoadBlueprint reads a blueprint from disk and validates it was trained
// under the requested constants.
func LoadBlueprint(path string, want hulth.Constants) (*Blueprint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read blueprint: %w", err)
	}

	var f blueprintFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelFormat, err)
	}
	if f.Version != blueprintFileVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrModelFormat, f.Version)
	}
	if f.Constants != want {
		return nil, fmt.Errorf("%w: model has %+v, requested %+v", ErrModelConstantMismatch, f.Constants, want)
	}

	return &Blueprint{
		Version:     f.Version,
		GeneratedAt: f.GeneratedAt,
		Iterations:  f.Iterations,
		Constants:   f.Constants,
		CumRegrets:  f.CumRegrets,
		CumStrategy: f.CumStrategy,
	}, nil
}

// AverageStrategy returns the normalised average strategy for enc, or
// uniform over legalActions if enc was never visited during training.
func (b *Blueprint) AverageStrategy(enc string, legalActions []hulth.Action) []float64 {
	strat := make([]float64, len(legalActions))
	byTag, ok := b.CumStrategy[enc]
	if !ok {
		uniform(strat)
		return strat
	}

	total := 0.0
	for i, a := range legalActions {
		strat[i] = byTag[a.String()]
		total += strat[i]
	}
	if total <= 0 {
		uniform(strat)
		return strat
	}
	for i := range strat {
		strat[i] /= total
	}
	return strat
}
