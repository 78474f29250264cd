package genealogy

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Engine places members in the binary tree and answers traversal queries.
type Engine struct {
	store Store
	log   *zap.Logger
}

func NewEngine(store Store, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{store: store, log: log}
}

// PlaceRoot creates the root node for the first registered member.
func (e *Engine) PlaceRoot(ctx context.Context, memberID string) (TreeNode, error) {
	if _, err := e.store.GetMember(ctx, memberID); err != nil {
		return TreeNode{}, err
	}
	if _, err := e.store.GetNode(ctx, memberID); err == nil {
		return TreeNode{}, ErrAlreadyPlaced
	} else if !errors.Is(err, ErrNodeNotFound) {
		return TreeNode{}, err
	}

	node := TreeNode{
		MemberID: memberID,
		Position: PositionRoot,
		Depth:    0,
	}
	if err := e.store.CreateNode(ctx, node); err != nil {
		return TreeNode{}, fmt.Errorf("create root node: %w", err)
	}
	return node, nil
}

// Place inserts memberID into the tree under sponsorID. With an explicit
// position the sponsor's own slot is used or the call fails; otherwise the
// first open slot in left-fill BFS order over the sponsor's subtree is
// taken (spillover), so the subtree fills one level at a time, left to
// right.
func (e *Engine) Place(ctx context.Context, memberID, sponsorID string, explicit Position) (TreeNode, error) {
	if _, err := e.store.GetMember(ctx, memberID); err != nil {
		return TreeNode{}, err
	}
	if _, err := e.store.GetNode(ctx, memberID); err == nil {
		return TreeNode{}, ErrAlreadyPlaced
	} else if !errors.Is(err, ErrNodeNotFound) {
		return TreeNode{}, err
	}

	if _, err := e.store.GetMember(ctx, sponsorID); err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			return TreeNode{}, ErrSponsorNotFound
		}
		return TreeNode{}, err
	}
	sponsorNode, err := e.store.GetNode(ctx, sponsorID)
	if err != nil {
		if errors.Is(err, ErrNodeNotFound) {
			return TreeNode{}, ErrSponsorNotPlaced
		}
		return TreeNode{}, err
	}

	if explicit == PositionLeft || explicit == PositionRight {
		if explicit == PositionLeft && sponsorNode.LeftChildID != "" {
			return TreeNode{}, ErrPositionOccupied
		}
		if explicit == PositionRight && sponsorNode.RightChildID != "" {
			return TreeNode{}, ErrPositionOccupied
		}
		return e.attach(ctx, memberID, sponsorID, explicit, sponsorNode.Depth+1)
	}

	// A lost claim means a concurrent registration won that slot, so the
	// search is simply re-run. Each retry implies another registration
	// made progress, which bounds the loop.
	for {
		parentID, pos, depth, err := e.findOpenSlot(ctx, sponsorID)
		if err != nil {
			return TreeNode{}, err
		}
		node, err := e.attach(ctx, memberID, parentID, pos, depth)
		if errors.Is(err, ErrPositionOccupied) {
			e.log.Debug("placement slot claim lost, retrying",
				zap.String("member_id", memberID),
				zap.String("parent_id", parentID),
				zap.String("position", string(pos)))
			continue
		}
		return node, err
	}
}

// attach claims the parent slot first, then creates the child node, so two
// registrations can never both win the same slot.
func (e *Engine) attach(ctx context.Context, memberID, parentID string, pos Position, depth int) (TreeNode, error) {
	if err := e.store.ClaimChild(ctx, parentID, pos, memberID); err != nil {
		return TreeNode{}, err
	}

	node := TreeNode{
		MemberID:  memberID,
		SponsorID: parentID,
		Position:  pos,
		Depth:     depth,
	}
	if err := e.store.CreateNode(ctx, node); err != nil {
		return TreeNode{}, fmt.Errorf("create tree node: %w", err)
	}
	return node, nil
}

// findOpenSlot runs a breadth-first search from startID and returns the
// first open slot, checking left before right at every visited node.
func (e *Engine) findOpenSlot(ctx context.Context, startID string) (parentID string, pos Position, depth int, err error) {
	queue := []string{startID}
	visited := make(map[string]bool)

	for len(queue) > 0 {
		currentID := queue[0]
		queue = queue[1:]
		if visited[currentID] {
			continue
		}
		visited[currentID] = true

		node, err := e.store.GetNode(ctx, currentID)
		if err != nil {
			if errors.Is(err, ErrNodeNotFound) {
				continue
			}
			return "", "", 0, err
		}

		if node.LeftChildID == "" {
			return currentID, PositionLeft, node.Depth + 1, nil
		}
		if node.RightChildID == "" {
			return currentID, PositionRight, node.Depth + 1, nil
		}

		queue = append(queue, node.LeftChildID, node.RightChildID)
	}

	return "", "", 0, ErrNoOpenSlot
}
