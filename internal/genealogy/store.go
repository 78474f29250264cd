package genealogy

import (
	"context"
	"errors"
)

var (
	ErrMemberNotFound   = errors.New("member not found")
	ErrNodeNotFound     = errors.New("member not in tree")
	ErrAlreadyPlaced    = errors.New("member already in tree")
	ErrSponsorNotFound  = errors.New("sponsor not found")
	ErrSponsorNotPlaced = errors.New("sponsor not in tree")
	ErrPositionOccupied = errors.New("position already occupied")
	ErrNoOpenSlot       = errors.New("no open position found")
)

// Store is the persistence the tree engine relies on. Each call either
// fully succeeds or fully fails; ClaimChild and UpdateNode must be atomic
// per record so concurrent registrations and purchases cannot race on the
// same node.
type Store interface {
	GetMember(ctx context.Context, id string) (Member, error)
	GetNode(ctx context.Context, memberID string) (TreeNode, error)
	CreateNode(ctx context.Context, node TreeNode) error

	// ClaimChild sets parent.left_child_id or right_child_id to childID
	// only if the slot is still empty, returning ErrPositionOccupied when
	// another registration got there first.
	ClaimChild(ctx context.Context, parentID string, pos Position, childID string) error

	// UpdateNode runs fn against the current node under a per-record lock
	// and persists the result. fn returning an error aborts the update.
	UpdateNode(ctx context.Context, memberID string, fn func(*TreeNode) error) (TreeNode, error)
}
