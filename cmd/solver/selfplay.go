package main

import (
	"context"

	"github.com/lox/pokerforbots/internal/abstraction"
	"github.com/lox/pokerforbots/internal/hulth"
	"github.com/lox/pokerforbots/internal/randutil"
	"github.com/lox/pokerforbots/sdk/solver/runtime"
)

type selfplayResult struct {
	Hands               int
	SmallBlindBBPerHand float64
}

func loadSelfplayPolicy(path string, consts hulth.Constants) (*runtime.Policy, error) {
	return runtime.Load(path, consts)
}

// runSelfplay plays hands of the loaded average strategy against itself,
// both seats sampling from the same policy, and reports the small blind
// seat's average winnings in big blinds per hand.
func runSelfplay(ctx context.Context, policy *runtime.Policy, consts hulth.Constants, hands int, seed int64) (*selfplayResult, error) {
	mapper, err := abstraction.NewBucketMapper(abstraction.Config{MaxBuckets: consts.MaxBuckets})
	if err != nil {
		return nil, err
	}
	rng := randutil.New(seed)

	var totalSB float64
	for i := 0; i < hands; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		bundle, err := hulth.NewCardBundle(rng, mapper)
		if err != nil {
			return nil, err
		}
		node, err := hulth.NewRootNode(bundle, consts)
		if err != nil {
			return nil, err
		}

		for !node.IsTerminal() {
			if node.IsChance() {
				node, err = node.Play(hulth.Chance)
			} else {
				var action hulth.Action
				action, err = policy.Act(node, rng)
				if err == nil {
					node, err = node.Play(action)
				}
			}
			if err != nil {
				return nil, err
			}
		}

		util, err := node.Utility(hulth.SmallBlind)
		if err != nil {
			return nil, err
		}
		totalSB += util
	}

	return &selfplayResult{
		Hands:               hands,
		SmallBlindBBPerHand: totalSB / float64(consts.BigBlind) / float64(hands),
	}, nil
}
