package commission

import (
	"context"

	"go.uber.org/zap"

	"github.com/obinnaso/pairline/internal/genealogy"
)

// Engine accumulates leg volume, runs pairing, and distributes commissions
// up the genealogy tree.
type Engine struct {
	store Store
	tree  *genealogy.Engine
	log   *zap.Logger
}

func NewEngine(store Store, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		store: store,
		tree:  genealogy.NewEngine(store, log),
		log:   log,
	}
}

// ApplyPurchase credits amount to whichever of memberID's legs contains
// the purchasing member and returns that leg. The increment goes through
// the store's per-record update so concurrent purchases crediting the same
// ancestor cannot lose volume.
func (e *Engine) ApplyPurchase(ctx context.Context, memberID string, amount int64, purchaserID string) (genealogy.Position, error) {
	if amount <= 0 {
		return "", ErrInvalidAmount
	}

	node, err := e.store.GetNode(ctx, memberID)
	if err != nil {
		return "", err
	}
	if _, err := e.store.GetNode(ctx, purchaserID); err != nil {
		return "", err
	}

	// Decide which subtree the purchaser sits in, left first. A purchaser
	// outside both legs (including the member itself) earns nothing here.
	var leg genealogy.Position
	if in, err := e.tree.InSubtree(ctx, node.LeftChildID, purchaserID); err != nil {
		return "", err
	} else if in {
		leg = genealogy.PositionLeft
	} else if in, err := e.tree.InSubtree(ctx, node.RightChildID, purchaserID); err != nil {
		return "", err
	} else if in {
		leg = genealogy.PositionRight
	} else {
		return "", ErrNotInDownline
	}

	_, err = e.store.UpdateNode(ctx, memberID, func(n *genealogy.TreeNode) error {
		if leg == genealogy.PositionLeft {
			n.LeftLegVolume += amount
		} else {
			n.RightLegVolume += amount
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return leg, nil
}

// LegVolumes returns the current left and right leg volume for a member.
func (e *Engine) LegVolumes(ctx context.Context, memberID string) (left, right int64, err error) {
	node, err := e.store.GetNode(ctx, memberID)
	if err != nil {
		return 0, 0, err
	}
	return node.LeftLegVolume, node.RightLegVolume, nil
}
