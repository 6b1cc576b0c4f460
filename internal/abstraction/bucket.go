package abstraction

import (
	randv2 "math/rand/v2"

	"github.com/lox/pokerforbots/poker"
)

// BucketMapper maps hole/board combinations onto a shared set of
// equivalence-class buckets, using the Chen heuristic pre-flop and
// Effective Hand Strength on every later street.
type BucketMapper struct {
	cfg Config
}

// NewBucketMapper constructs a mapper from a validated config.
func NewBucketMapper(cfg Config) (*BucketMapper, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &BucketMapper{cfg: cfg}, nil
}

// Bucket returns the equivalence class for hole cards given the community
// cards dealt so far. An empty board selects the pre-flop (Chen) mapping;
// any other board size selects the post-flop (EHS) mapping.
func (m *BucketMapper) Bucket(hole [2]poker.Card, board []poker.Card, rng *randv2.Rand) (int, error) {
	if len(board) == 0 {
		return PreflopBucket(hole, m.cfg.MaxBuckets), nil
	}
	return PostflopBucket(hole, board, m.cfg.MaxBuckets, rng)
}

// MaxBuckets returns the bucket count this mapper was built with.
func (m *BucketMapper) MaxBuckets() int {
	return m.cfg.MaxBuckets
}
