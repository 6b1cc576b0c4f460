package hulth

// Player identifies a seat. SmallBlind acts first after every deal; the two
// seats alternate thereafter.
type Player int

const (
	SmallBlind Player = iota
	BigBlind
)

func (p Player) Opponent() Player {
	if p == SmallBlind {
		return BigBlind
	}
	return SmallBlind
}

func (p Player) String() string {
	if p == SmallBlind {
		return "sb"
	}
	return "bb"
}

// History is the ordered sequence of actions taken since the root. The root
// itself is represented by an empty History.
type History []Action

// Bytes renders the history as its single-character encoding form.
func (h History) Bytes() []byte {
	out := make([]byte, len(h))
	for i, a := range h {
		out[i] = a.Byte()
	}
	return out
}

func (h History) String() string {
	return string(h.Bytes())
}

// Append returns a new History with action appended, leaving h untouched.
func (h History) Append(a Action) History {
	out := make(History, len(h)+1)
	copy(out, h)
	out[len(h)] = a
	return out
}

// isDoubleCallClose reports whether h ends in two consecutive Call actions,
// the marker that closes a betting round.
func (h History) isDoubleCallClose() bool {
	n := len(h)
	return n >= 2 && h[n-2] == Call && h[n-1] == Call
}

// stageSuffix returns the contiguous suffix of h starting at (and including)
// the most recent Chance action. If no Chance action has occurred, the
// suffix is the entire history. This is the window the current-player
// parity rule and the per-stage raise cap are computed over.
func (h History) stageSuffix() History {
	for i := len(h) - 1; i >= 0; i-- {
		if h[i] == Chance {
			return h[i:]
		}
	}
	return h
}

// raiseCountInStage counts Raise actions since the last Chance action.
func (h History) raiseCountInStage() int {
	n := 0
	for _, a := range h.stageSuffix() {
		if a == Raise {
			n++
		}
	}
	return n
}

// currentPlayer applies the parity rule: the small blind acts first after
// every deal, and the two seats alternate from there.
func (h History) currentPlayer() Player {
	return Player((1 + len(h.stageSuffix())) % 2)
}
