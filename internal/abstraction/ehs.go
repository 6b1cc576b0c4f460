package abstraction

import (
	"math"
	randv2 "math/rand/v2"

	"golang.org/x/sync/errgroup"

	"github.com/lox/pokerforbots/internal/randutil"
	"github.com/lox/pokerforbots/poker"
)

// epsilon guards the potential ratios against division by zero when a
// comparison bucket is never reached by any sampled opponent hand.
const epsilon = 0.001

// completionSampleRatio returns how much of the board-completion space to
// sample, keyed by the number of undrawn community cards (0, 1, or 2).
func completionSampleRatio(undrawn int) float64 {
	switch undrawn {
	case 0:
		return 1.0
	case 1:
		return 0.1
	case 2:
		return 0.005
	default:
		return 0.0
	}
}

const (
	ahead = 0
	tied  = 1
	behind = 2
)

// HandStrength computes HS: the fraction of opponent hands our hand beats
// or ties, weighted by a half-credit for ties, against the current board.
func HandStrength(hole [2]poker.Card, board []poker.Card) float64 {
	ourRank := poker.RankHand(hole, board)
	opponents := combinations(undealtCards(append(append([]poker.Card{}, hole[:]...), board...)), 2)

	var aheadN, tiedN, behindN float64
	for _, opp := range opponents {
		oppHole := [2]poker.Card{opp[0], opp[1]}
		oppRank := poker.RankHand(oppHole, board)
		switch {
		case ourRank.Stronger(oppRank):
			aheadN++
		case ourRank == oppRank:
			tiedN++
		default:
			behindN++
		}
	}
	total := aheadN + tiedN + behindN
	if total == 0 {
		return 0.5
	}
	return (aheadN + tiedN/2) / total
}

// HandPotential computes (Ppot, Npot): the probability a currently-behind
// or tied hand pulls ahead by the river (Ppot), and the probability a
// currently-ahead or tied hand falls behind (Npot).
func HandPotential(hole [2]poker.Card, board []poker.Card, rng *randv2.Rand) (float64, float64, error) {
	excluded := append(append([]poker.Card{}, hole[:]...), board...)
	opponents := combinations(undealtCards(excluded), 2)
	undrawn := 5 - len(board)
	ratio := completionSampleRatio(undrawn)

	var h [3][3]float64
	var totals [3]float64

	// Seeds are drawn sequentially from the caller's RNG so the overall
	// computation stays deterministic regardless of how the per-opponent
	// work below is scheduled across goroutines.
	seeds := make([]uint64, len(opponents))
	for i := range seeds {
		seeds[i] = rng.Uint64()
	}

	results := make([]opponentResult, len(opponents))

	g := new(errgroup.Group)
	g.SetLimit(maxWorkers())
	for i, opp := range opponents {
		i, opp := i, opp
		g.Go(func() error {
			localRNG := randutil.New(int64(seeds[i]))
			oppHole := [2]poker.Card{opp[0], opp[1]}
			results[i] = potentialForOpponent(hole, oppHole, board, undrawn, ratio, localRNG)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, 0, err
	}

	for _, r := range results {
		for i := 0; i < 3; i++ {
			totals[i] += r.totals[i]
			for j := 0; j < 3; j++ {
				h[i][j] += r.h[i][j]
			}
		}
	}

	ppot := (h[behind][ahead] + h[behind][tied]/2 + h[tied][ahead]/2 + epsilon) / (totals[behind] + totals[tied] + epsilon)
	npot := (h[ahead][behind] + h[tied][behind]/2 + h[ahead][tied]/2 + epsilon) / (totals[ahead] + totals[tied] + epsilon)

	return ppot, npot, nil
}

// opponentResult holds one opponent hand's contribution to the 3x3
// current-vs-final showdown contingency table.
type opponentResult struct {
	h      [3][3]float64
	totals [3]float64
}

func potentialForOpponent(hole, oppHole [2]poker.Card, board []poker.Card, undrawn int, ratio float64, rng *randv2.Rand) opponentResult {
	var out opponentResult

	ourCurrent := poker.RankHand(hole, board)
	oppCurrent := poker.RankHand(oppHole, board)
	currentIdx := classify(ourCurrent, oppCurrent)

	excluded := append(append(append([]poker.Card{}, hole[:]...), board...), oppHole[:]...)
	completions := combinations(undealtCards(excluded), undrawn)
	completions = sampleCombos(completions, ratio, rng)

	for _, completion := range completions {
		out.totals[currentIdx]++

		newBoard := append(append([]poker.Card{}, board...), completion...)
		ourFinal := poker.RankHand(hole, newBoard)
		oppFinal := poker.RankHand(oppHole, newBoard)
		finalIdx := classify(ourFinal, oppFinal)

		out.h[currentIdx][finalIdx]++
	}
	return out
}

func classify(our, opp poker.Rank) int {
	switch {
	case our.Stronger(opp):
		return ahead
	case our == opp:
		return tied
	default:
		return behind
	}
}

// EffectiveHandStrength combines HS and potential into the single EHS
// score used to bucket post-flop hands.
func EffectiveHandStrength(hole [2]poker.Card, board []poker.Card, rng *randv2.Rand) (float64, error) {
	hs := HandStrength(hole, board)
	ppot, npot, err := HandPotential(hole, board, rng)
	if err != nil {
		return 0, err
	}
	return hs*(1-npot) + (1-hs)*ppot, nil
}

// PostflopBucket buckets a hole/board combination by EHS.
func PostflopBucket(hole [2]poker.Card, board []poker.Card, buckets int, rng *randv2.Rand) (int, error) {
	ehs, err := EffectiveHandStrength(hole, board, rng)
	if err != nil {
		return 0, err
	}
	bucket := int(math.Floor(ehs * float64(buckets)))
	return clampBucket(bucket, buckets), nil
}
