package poker

import "testing"

func mustParse(t *testing.T, s string) Card {
	t.Helper()
	c, err := ParseCard(s)
	if err != nil {
		t.Fatalf("ParseCard(%q): %v", s, err)
	}
	return c
}

func handOf(t *testing.T, cards ...string) Hand {
	t.Helper()
	var h Hand
	for _, s := range cards {
		h.AddCard(mustParse(t, s))
	}
	return h
}

func TestEvaluateBestHandTypes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		hand Hand
		want HandRank
	}{
		{"flush", handOf(t, "2c", "4c", "9c", "Jc", "Kc"), Flush},
		{"straight", handOf(t, "4c", "5d", "6h", "7s", "8c"), Straight},
		{"wheel straight", handOf(t, "Ac", "2d", "3h", "4s", "5c"), Straight},
		{"full house", handOf(t, "3c", "3d", "3h", "9s", "9c"), FullHouse},
		{"four of a kind", handOf(t, "7c", "7d", "7h", "7s", "2c"), FourOfAKind},
		{"two pair", handOf(t, "2c", "2d", "9h", "9s", "Kc"), TwoPair},
		{"pair", handOf(t, "2c", "2d", "5h", "9s", "Kc"), Pair},
		{"high card", handOf(t, "2c", "5d", "9h", "Js", "Kc"), HighCard},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := EvaluateBest(tt.hand).Type()
			if got != tt.want {
				t.Errorf("EvaluateBest(%s).Type() = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestEvaluateBestSevenCardsPicksBestFive(t *testing.T) {
	t.Parallel()
	hand := handOf(t, "2c", "3d", "As", "Ks", "Qs", "Js", "Ts")
	got := EvaluateBest(hand)
	if got.Type() != StraightFlush {
		t.Errorf("expected straight flush among 7 cards, got %v", got.Type())
	}
}

func TestCompareHandsOrdering(t *testing.T) {
	t.Parallel()
	pair := EvaluateBest(handOf(t, "2c", "2d", "5h", "9s", "Kc"))
	flush := EvaluateBest(handOf(t, "2c", "4c", "9c", "Jc", "Kc"))
	if CompareHands(flush, pair) != 1 {
		t.Error("flush should beat pair")
	}
	if CompareHands(pair, flush) != -1 {
		t.Error("pair should lose to flush")
	}
	if CompareHands(pair, pair) != 0 {
		t.Error("identical hand ranks should tie")
	}
}

func TestRankHandLowerIsStronger(t *testing.T) {
	t.Parallel()
	board := []Card{mustParse(t, "2c"), mustParse(t, "7d"), mustParse(t, "9h")}
	strongHole := [2]Card{mustParse(t, "Ac"), mustParse(t, "Ad")}
	weakHole := [2]Card{mustParse(t, "3s"), mustParse(t, "4s")}

	strong := RankHand(strongHole, board)
	weak := RankHand(weakHole, board)

	if !strong.Stronger(weak) {
		t.Errorf("pair of aces (rank %d) should be stronger than high card (rank %d)", strong, weak)
	}
}

func TestRankHandPreflopReturnsZero(t *testing.T) {
	t.Parallel()
	hole := [2]Card{mustParse(t, "Ac"), mustParse(t, "Ad")}
	if got := RankHand(hole, nil); got != 0 {
		t.Errorf("RankHand with no board should be 0, got %d", got)
	}
}
