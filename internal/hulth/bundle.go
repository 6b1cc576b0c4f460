package hulth

import (
	"fmt"
	randv2 "math/rand/v2"

	"github.com/lox/pokerforbots/internal/abstraction"
	"github.com/lox/pokerforbots/poker"
)

// CardBundle is everything about one dealt hand that the game tree needs:
// both hole-card hands, the full board, the showdown ranks, and the bucket
// index each player occupies at every stage. It is created once per deal,
// immutable thereafter, and discarded when the CFR descent for that deal
// finishes.
type CardBundle struct {
	Hands   [2][2]poker.Card
	Board   [5]poker.Card
	Ranks   [2]poker.Rank
	buckets [2][5]int // [player][stage]
}

// NewCardBundle deals fresh hole cards and a board, then precomputes every
// stage's bucket index for both players up front.
func NewCardBundle(rng *randv2.Rand, mapper *abstraction.BucketMapper) (*CardBundle, error) {
	deck := poker.NewDeck(rng)
	bundle := &CardBundle{}

	for p := 0; p < 2; p++ {
		cards := deck.Deal(2)
		bundle.Hands[p] = [2]poker.Card{cards[0], cards[1]}
	}
	board := deck.Deal(5)
	copy(bundle.Board[:], board)

	for p := 0; p < 2; p++ {
		bundle.Ranks[p] = poker.RankHand(bundle.Hands[p], bundle.Board[:])
	}

	for stage := PreFlop; stage <= River; stage++ {
		boardSoFar := bundle.Board[:stage.CommunityCards()]
		for p := 0; p < 2; p++ {
			bucket, err := mapper.Bucket(bundle.Hands[p], boardSoFar, rng)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrAbstractionError, err)
			}
			if bucket < 0 || bucket >= mapper.MaxBuckets() {
				return nil, fmt.Errorf("%w: bucket %d out of range", ErrAbstractionError, bucket)
			}
			bundle.buckets[p][stage] = bucket
		}
	}
	// Showdown carries no further card information; it shares the river bucket.
	for p := 0; p < 2; p++ {
		bundle.buckets[p][Showdown] = bundle.buckets[p][River]
	}

	return bundle, nil
}

// Bucket returns player's equivalence-class index at the given stage.
func (b *CardBundle) Bucket(player Player, stage Stage) int {
	return b.buckets[player][stage]
}

// Winner determines the showdown winner by evaluator rank, with the small
// blind winning ties per the fixed deterministic tie-break this system
// mandates.
func (b *CardBundle) Winner() Player {
	sb, bb := b.Ranks[SmallBlind], b.Ranks[BigBlind]
	if sb.Stronger(bb) || sb == bb {
		return SmallBlind
	}
	return BigBlind
}
