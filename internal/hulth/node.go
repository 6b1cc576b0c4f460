package hulth

import "fmt"

// Node is the tagged variant InfoSet = Chance(ChanceNode) | Move(MoveNode),
// realised as a single struct with a cached discriminant rather than an
// interface, so the CFR inner loop never pays for dynamic dispatch. Every
// derived attribute (stage, current player, pot, encoding) is a pure
// function of history plus bundle; nodes are cheap to rebuild and are not
// cached across calls.
type Node struct {
	history  History
	bundle   *CardBundle
	consts   Constants
	isChance bool
}

// NewRootNode constructs the chance node at the start of a deal.
func NewRootNode(bundle *CardBundle, consts Constants) (*Node, error) {
	return newNode(History{}, bundle, consts)
}

func newNode(h History, bundle *CardBundle, consts Constants) (*Node, error) {
	if err := validateHistory(h); err != nil {
		return nil, err
	}
	return &Node{
		history:  h,
		bundle:   bundle,
		consts:   consts,
		isChance: len(h) == 0 || h.isDoubleCallClose(),
	}, nil
}

func validateHistory(h History) error {
	if len(h) > 0 && h[0] != Chance {
		return ErrInvalidHistory
	}
	for i, a := range h {
		if a == Fold && i != len(h)-1 {
			return ErrInvalidHistory
		}
		// After the leading deal, Chance must follow a double-call close and
		// a double-call close must be followed by Chance.
		closed := i >= 2 && h[i-2] == Call && h[i-1] == Call
		if i > 0 && (a == Chance) != closed {
			return ErrInvalidHistory
		}
	}
	return nil
}

// IsChance reports whether this node has exactly one legal action (Chance).
func (n *Node) IsChance() bool {
	return n.isChance
}

// IsTerminal reports whether the node ends the deal: either a player folded,
// or betting has closed out at Showdown.
func (n *Node) IsTerminal() bool {
	if n.isChance {
		return false
	}
	if len(n.history) > 0 && n.history[len(n.history)-1] == Fold {
		return true
	}
	return n.Stage() == Showdown
}

// Stage derives the current betting round from the history prefix.
func (n *Node) Stage() Stage {
	return stageFromHistory(n.history)
}

// CurrentPlayer returns the seat to act. Only meaningful on non-terminal
// move nodes.
func (n *Node) CurrentPlayer() Player {
	return n.history.currentPlayer()
}

// LegalActions returns the actions playable from this node. A chance node
// always has exactly {Chance}; a terminal node has none.
func (n *Node) LegalActions() []Action {
	if n.isChance {
		return []Action{Chance}
	}
	if n.IsTerminal() {
		return nil
	}
	actions := make([]Action, 0, 3)
	actions = append(actions, Fold, Call)
	if n.raiseLegal() {
		actions = append(actions, Raise)
	}
	return actions
}

func (n *Node) raiseLegal() bool {
	if n.history.raiseCountInStage() >= n.consts.MaxRaisesPerStage {
		return false
	}
	bets, _ := n.potWalk()
	cur := n.CurrentPlayer()
	remaining := n.consts.StartingStack - bets[cur]
	return remaining >= n.consts.RaiseAmount
}

// Bets returns each player's total committed bet at this node.
func (n *Node) Bets() [2]int {
	bets, _ := n.potWalk()
	return bets
}

// Pot returns the total chips committed by both players.
func (n *Node) Pot() int {
	bets, _ := n.potWalk()
	return bets[SmallBlind] + bets[BigBlind]
}

// potWalk replays the history from the root, tracking each player's
// cumulative bet and who took the most recent non-Chance action.
func (n *Node) potWalk() (bets [2]int, lastActor Player) {
	bets = [2]int{n.consts.SmallBlind, n.consts.BigBlind}
	cur := SmallBlind
	for _, a := range n.history {
		if a == Chance {
			cur = SmallBlind
			continue
		}
		lastActor = cur
		switch a {
		case Raise:
			bets[cur] = bets[cur.Opponent()] + n.consts.RaiseAmount
		case Call:
			bets[cur] = bets[cur.Opponent()]
		case Fold:
		}
		cur = cur.Opponent()
	}
	return bets, lastActor
}

// Utility returns player's zero-sum payoff at a terminal node: a fold
// forfeits the folder's own committed bet to the opponent; a showdown pays
// the loser's committed bet to the winner.
func (n *Node) Utility(player Player) (float64, error) {
	if !n.IsTerminal() {
		return 0, ErrUtilityOnNonTerminal
	}
	bets, lastActor := n.potWalk()

	var loser Player
	if n.history[len(n.history)-1] == Fold {
		loser = lastActor
	} else {
		loser = n.bundle.Winner().Opponent()
	}

	if player == loser {
		return -float64(bets[loser]), nil
	}
	return float64(bets[loser]), nil
}

// Encoding is the CFR table key: for a chance node, the single character
// '.'; for a move node, every action's single-character form concatenated,
// followed by '.' and the current player's bucket index at this stage.
func (n *Node) Encoding() string {
	if n.isChance {
		return "."
	}
	bucket := n.bundle.Bucket(n.CurrentPlayer(), n.Stage())
	return fmt.Sprintf("%s.%d", n.history.String(), bucket)
}

// Play validates that action is legal and returns the resulting child node.
// Children are not cached: rebuilding is O(history length) and a CFR
// descent touches each node once per iteration.
func (n *Node) Play(a Action) (*Node, error) {
	legal := false
	for _, la := range n.LegalActions() {
		if la == a {
			legal = true
			break
		}
	}
	if !legal {
		return nil, ErrIllegalAction
	}
	return newNode(n.history.Append(a), n.bundle, n.consts)
}

// History exposes the action sequence since the root.
func (n *Node) History() History {
	return n.history
}
