package abstraction

import (
	"math"

	"github.com/lox/pokerforbots/poker"
)

// chenMin and chenMax bound the span the raw Chen score can occupy, used to
// rescale into [0, MaxBuckets-1].
const (
	chenMin = -1.0
	chenMax = 20.0
)

// chenCardScore scores a single hole card per the Chen heuristic: face
// cards and the ace have fixed values, everything else is half its rank
// value (rank_index 0 == deuce).
func chenCardScore(rank uint8) float64 {
	switch rank {
	case poker.Ace:
		return 10
	case poker.King:
		return 8
	case poker.Queen:
		return 7
	case poker.Jack:
		return 6
	default:
		return float64(int(rank)+2) / 2
	}
}

// ChenScore computes the raw (pre-rescale) Chen score for a hole hand.
func ChenScore(hole [2]poker.Card) float64 {
	r0, r1 := hole[0].Rank(), hole[1].Rank()
	s0 := chenCardScore(r0)
	s1 := chenCardScore(r1)

	score := s0
	if s1 > score {
		score = s1
	}

	if hole[0].Suit() == hole[1].Suit() {
		score += 2
	}

	d := int(r0) - int(r1)
	if d < 0 {
		d = -d
	}

	switch {
	case d == 0:
		score *= 2
	case d == 1:
		score += 1
	case d == 2:
		score -= 1
	case d == 3:
		score -= 2
	case d == 4:
		score -= 4
	default:
		score -= 5
	}

	return math.Ceil(score)
}

// PreflopBucket rescales a Chen score into [0, buckets-1].
func PreflopBucket(hole [2]poker.Card, buckets int) int {
	score := ChenScore(hole)
	frac := (score - chenMin) / (chenMax - chenMin)
	bucket := int(math.Floor(frac * float64(buckets-1)))
	return clampBucket(bucket, buckets)
}

func clampBucket(bucket, buckets int) int {
	if bucket < 0 {
		return 0
	}
	if bucket >= buckets {
		return buckets - 1
	}
	return bucket
}
