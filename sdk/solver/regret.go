package solver

import (
	"sync"

	"github.com/lox/pokerforbots/internal/hulth"
)

// RegretEntry accumulates cumulative regret and cumulative strategy weight
// for one encoding, one slot per legal action at that encoding. The action
// set for an encoding is fixed for the life of the entry: every node that
// shares an encoding shares the same legal-action set (spec §8, "encoding
// injectivity within a node kind").
type RegretEntry struct {
	mu          sync.Mutex
	Actions     []hulth.Action
	RegretSum   []float64
	StrategySum []float64
}

func newRegretEntry(actions []hulth.Action) *RegretEntry {
	return &RegretEntry{
		Actions:     append([]hulth.Action(nil), actions...),
		RegretSum:   make([]float64, len(actions)),
		StrategySum: make([]float64, len(actions)),
	}
}

// Strategy returns the regret-matching distribution sigma: the positive
// part of cumulative regret, normalised, or uniform when no action has
// positive regret yet.
func (e *RegretEntry) Strategy() []float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return regretMatch(e.RegretSum)
}

func regretMatch(regretSum []float64) []float64 {
	strat := make([]float64, len(regretSum))
	total := 0.0
	for i, r := range regretSum {
		if r > 0 {
			strat[i] = r
			total += r
		}
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

func uniform(strat []float64) {
	if len(strat) == 0 {
		return
	}
	v := 1.0 / float64(len(strat))
	for i := range strat {
		strat[i] = v
	}
}

// Update applies one cfr recursion's contribution at this encoding: regret
// is the counterfactual regret for each action (already weighted by the
// opponent's reach probability), strategy is sigma at this visit, and
// reachSelf is the trainee's own reach probability.
func (e *RegretEntry) Update(regret, strategy []float64, reachSelf float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range regret {
		e.RegretSum[i] += regret[i]
		e.StrategySum[i] += reachSelf * strategy[i]
	}
}

// AverageStrategy returns sigma-bar: cumulative strategy weight normalised
// across actions, or uniform if the encoding was never a trainee's turn.
func (e *RegretEntry) AverageStrategy() []float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	strat := make([]float64, len(e.StrategySum))
	total := 0.0
	for _, s := range e.StrategySum {
		total += s
	}
	if total <= 0 {
		uniform(strat)
		return strat
	}
	for i := range strat {
		strat[i] = e.StrategySum[i] / total
	}
	return strat
}

const regretTableShardCount = 64
const regretTableShardMask = regretTableShardCount - 1

type regretShard struct {
	mu      sync.RWMutex
	entries map[string]*RegretEntry
}

// RegretTable maps encoding strings to regret entries using sharded maps
// (FNV-1a hash into 64 shards) so concurrent lookups (such as Trainer.Play)
// don't contend on a single lock; training itself is single-threaded per
// spec §5.
type RegretTable struct {
	shards [regretTableShardCount]regretShard
}

// NewRegretTable returns an empty table ready for use.
func NewRegretTable() *RegretTable {
	t := &RegretTable{}
	for i := range t.shards {
		t.shards[i].entries = make(map[string]*RegretEntry)
	}
	return t
}

// Get returns the entry for enc, creating it with one zero-initialised
// slot per action in actions if this is the first visit.
func (t *RegretTable) Get(enc string, actions []hulth.Action) *RegretEntry {
	shard := t.shardFor(enc)

	shard.mu.RLock()
	entry, ok := shard.entries[enc]
	shard.mu.RUnlock()
	if ok {
		return entry
	}

	shard.mu.Lock()
	defer shard.mu.Unlock()
	if entry, ok = shard.entries[enc]; ok {
		return entry
	}
	entry = newRegretEntry(actions)
	shard.entries[enc] = entry
	return entry
}

// Entries returns a snapshot of every tracked encoding, for serialisation.
func (t *RegretTable) Entries() map[string]*RegretEntry {
	out := make(map[string]*RegretEntry)
	for i := range t.shards {
		shard := &t.shards[i]
		shard.mu.RLock()
		for k, v := range shard.entries {
			out[k] = v
		}
		shard.mu.RUnlock()
	}
	return out
}

// Size returns the number of distinct encodings tracked.
func (t *RegretTable) Size() int {
	total := 0
	for i := range t.shards {
		shard := &t.shards[i]
		shard.mu.RLock()
		total += len(shard.entries)
		shard.mu.RUnlock()
	}
	return total
}

func (t *RegretTable) shardFor(key string) *regretShard {
	return &t.shards[hashKey(key)&regretTableShardMask]
}

func hashKey(key string) uint32 {
	const offset32 = 2166136261
	const prime32 = 16777619
	var hash uint32 = offset32
	for i := 0; i < len(key); i++ {
		hash ^= uint32(key[i])
		hash *= prime32
	}
	return hash
}
