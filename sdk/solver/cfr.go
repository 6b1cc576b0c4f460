package solver

import "github.com/lox/pokerforbots/internal/hulth"

// cfr is the chance-sampling CFR recursion (spec §4.3). trainee is the
// player whose counterfactual regret is being accumulated on this descent;
// piSB and piBB are the two players' reach probabilities along the path
// taken so far.
func (t *Trainer) cfr(node *hulth.Node, trainee hulth.Player, piSB, piBB float64, stats *TraversalStats, depth int) (float64, error) {
	stats.NodesVisited++
	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}

	if node.IsTerminal() {
		stats.TerminalNodes++
		return node.Utility(trainee)
	}

	if node.IsChance() {
		// Exactly one chance transition in this abstraction: the deal was
		// pre-fixed by the CardBundle, so there is nothing to sample here
		// beyond appending the marker. Reach probabilities are unchanged.
		child, err := node.Play(hulth.Chance)
		if err != nil {
			return 0, err
		}
		return t.cfr(child, trainee, piSB, piBB, stats, depth+1)
	}

	enc := node.Encoding()
	actions := node.LegalActions()
	entry := t.regrets.Get(enc, actions)
	sigma := entry.Strategy()
	current := node.CurrentPlayer()

	util := make([]float64, len(actions))
	u := 0.0
	for i, a := range actions {
		child, err := node.Play(a)
		if err != nil {
			return 0, err
		}

		nPiSB, nPiBB := piSB, piBB
		if current == hulth.SmallBlind {
			nPiSB *= sigma[i]
		} else {
			nPiBB *= sigma[i]
		}

		cu, err := t.cfr(child, trainee, nPiSB, nPiBB, stats, depth+1)
		if err != nil {
			return 0, err
		}
		util[i] = cu
		u += sigma[i] * cu
	}

	if current == trainee {
		piSelf, piOther := piSB, piBB
		if current == hulth.BigBlind {
			piSelf, piOther = piBB, piSB
		}
		regret := make([]float64, len(actions))
		for i := range actions {
			regret[i] = piOther * (util[i] - u)
		}
		entry.Update(regret, sigma, piSelf)
	}

	return u, nil
}
