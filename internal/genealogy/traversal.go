package genealogy

import (
	"context"
	"errors"
)

// Upline returns every ancestor of memberID in order, nearest first,
// following tree-parent links up to the root.
func (e *Engine) Upline(ctx context.Context, memberID string) ([]UplineEntry, error) {
	if _, err := e.store.GetMember(ctx, memberID); err != nil {
		return nil, err
	}
	node, err := e.store.GetNode(ctx, memberID)
	if err != nil {
		return nil, err
	}

	upline := []UplineEntry{}
	currentID := node.SponsorID

	for currentID != "" {
		member, err := e.store.GetMember(ctx, currentID)
		if err != nil {
			break
		}
		current, err := e.store.GetNode(ctx, currentID)
		if err != nil {
			break
		}

		upline = append(upline, UplineEntry{
			ID:              member.ID,
			Username:        member.Username,
			Status:          member.Status,
			ActivePackageID: member.ActivePackageID,
			Position:        current.Position,
			Depth:           current.Depth,
		})

		currentID = current.SponsorID
	}

	return upline, nil
}

// Downline lists every descendant of memberID in breadth-first order with
// member details attached. maxDepth limits how many levels below the
// member are visited; zero or negative means no limit.
func (e *Engine) Downline(ctx context.Context, memberID string, maxDepth int) ([]NodeInfo, error) {
	return e.walk(ctx, memberID, maxDepth, false)
}

// Tree is Downline including the member's own node, for rendering the
// genealogy view.
func (e *Engine) Tree(ctx context.Context, memberID string, maxDepth int) ([]NodeInfo, error) {
	return e.walk(ctx, memberID, maxDepth, true)
}

func (e *Engine) walk(ctx context.Context, memberID string, maxDepth int, includeSelf bool) ([]NodeInfo, error) {
	if _, err := e.store.GetMember(ctx, memberID); err != nil {
		return nil, err
	}
	if _, err := e.store.GetNode(ctx, memberID); err != nil {
		return nil, err
	}

	type item struct {
		id    string
		depth int
	}
	result := []NodeInfo{}
	queue := []item{{id: memberID, depth: 0}}
	visited := make(map[string]bool)

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if visited[current.id] {
			continue
		}
		visited[current.id] = true

		node, err := e.store.GetNode(ctx, current.id)
		if err != nil {
			if errors.Is(err, ErrNodeNotFound) {
				continue
			}
			return nil, err
		}

		if includeSelf || current.id != memberID {
			info := NodeInfo{TreeNode: node}
			if member, err := e.store.GetMember(ctx, current.id); err == nil {
				info.Member = &member
			}
			result = append(result, info)
		}

		if maxDepth > 0 && current.depth >= maxDepth {
			continue
		}
		if node.LeftChildID != "" {
			queue = append(queue, item{id: node.LeftChildID, depth: current.depth + 1})
		}
		if node.RightChildID != "" {
			queue = append(queue, item{id: node.RightChildID, depth: current.depth + 1})
		}
	}

	return result, nil
}

// InSubtree reports whether targetID sits in the subtree rooted at rootID.
// An empty rootID (absent child) is never a match.
func (e *Engine) InSubtree(ctx context.Context, rootID, targetID string) (bool, error) {
	if rootID == "" {
		return false, nil
	}
	if rootID == targetID {
		return true, nil
	}

	queue := []string{rootID}
	visited := make(map[string]bool)

	for len(queue) > 0 {
		currentID := queue[0]
		queue = queue[1:]
		if visited[currentID] {
			continue
		}
		visited[currentID] = true

		if currentID == targetID {
			return true, nil
		}

		node, err := e.store.GetNode(ctx, currentID)
		if err != nil {
			if errors.Is(err, ErrNodeNotFound) {
				continue
			}
			return false, err
		}
		if node.LeftChildID != "" {
			queue = append(queue, node.LeftChildID)
		}
		if node.RightChildID != "" {
			queue = append(queue, node.RightChildID)
		}
	}

	return false, nil
}
