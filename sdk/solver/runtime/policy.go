// Package runtime exposes a trained blueprint for live play, independent
// of the CFR trainer: loading a model and sampling an action from its
// average strategy never touches the regret tables.
package runtime

import (
	randv2 "math/rand/v2"

	"github.com/lox/pokerforbots/internal/hulth"
	"github.com/lox/pokerforbots/sdk/solver"
)

// Policy exposes read-only access to a solver blueprint for sampling
// actions during live play.
type Policy struct {
	blueprint *solver.Blueprint
}

// Load constructs a runtime policy from a stored blueprint file, refusing
// to load one trained under different fixed-limit betting constants.
func Load(path string, want hulth.Constants) (*Policy, error) {
	bp, err := solver.LoadBlueprint(path, want)
	if err != nil {
		return nil, err
	}
	return &Policy{blueprint: bp}, nil
}

// Blueprint returns the underlying blueprint metadata.
func (p *Policy) Blueprint() *solver.Blueprint {
	return p.blueprint
}

// Act samples an action for node from the stored average strategy. node
// must be a non-terminal move node; chance transitions are the caller's
// responsibility to advance (spec §6 Play boundary).
func (p *Policy) Act(node *hulth.Node, rng *randv2.Rand) (hulth.Action, error) {
	actions := node.LegalActions()
	sigma := p.blueprint.AverageStrategy(node.Encoding(), actions)

	u := rng.Float64()
	acc := 0.0
	for i, prob := range sigma {
		acc += prob
		if u <= acc {
			return actions[i], nil
		}
	}
	return actions[len(actions)-1], nil
}
