package abstraction

import (
	randv2 "math/rand/v2"
	"runtime"

	"github.com/lox/pokerforbots/poker"
)

// fullDeck returns all 52 cards in suit-major, rank-minor order.
func fullDeck() []poker.Card {
	deck := make([]poker.Card, 0, 52)
	for suit := uint8(0); suit < 4; suit++ {
		for rank := uint8(0); rank < 13; rank++ {
			deck = append(deck, poker.NewCard(rank, suit))
		}
	}
	return deck
}

// undealtCards returns every card in the deck not present in excluded.
func undealtCards(excluded []poker.Card) []poker.Card {
	dead := make(map[poker.Card]bool, len(excluded))
	for _, c := range excluded {
		dead[c] = true
	}
	out := make([]poker.Card, 0, 52-len(excluded))
	for _, c := range fullDeck() {
		if !dead[c] {
			out = append(out, c)
		}
	}
	return out
}

// combinations returns every k-element subset of cards, in the order a
// straightforward recursive descent produces them.
func combinations(cards []poker.Card, k int) [][]poker.Card {
	if k == 0 {
		return [][]poker.Card{{}}
	}
	if k > len(cards) {
		return nil
	}

	var out [][]poker.Card
	var pick func(start int, chosen []poker.Card)
	pick = func(start int, chosen []poker.Card) {
		if len(chosen) == k {
			combo := make([]poker.Card, k)
			copy(combo, chosen)
			out = append(out, combo)
			return
		}
		remaining := k - len(chosen)
		for i := start; i <= len(cards)-remaining; i++ {
			pick(i+1, append(chosen, cards[i]))
		}
	}
	pick(0, make([]poker.Card, 0, k))
	return out
}

// sampleCombos returns a deterministic random subset of combos sized to
// ratio, matching the "sample a fraction of the completion space" scheme
// used for board-completion potential estimates. ratio >= 1.0 returns combos
// unchanged.
func sampleCombos(combos [][]poker.Card, ratio float64, rng *randv2.Rand) [][]poker.Card {
	if ratio >= 1.0 || len(combos) == 0 {
		return combos
	}
	n := int(float64(len(combos)) * ratio)
	if n <= 0 {
		n = 1
	}
	if n >= len(combos) {
		return combos
	}

	shuffled := make([][]poker.Card, len(combos))
	copy(shuffled, combos)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:n]
}

// maxWorkers bounds errgroup fan-out to the available CPUs, matching the
// teacher's equity-estimation parallelism.
func maxWorkers() int {
	return runtime.GOMAXPROCS(0)
}
