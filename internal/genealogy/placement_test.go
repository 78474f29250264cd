package genealogy_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obinnaso/pairline/internal/genealogy"
	"github.com/obinnaso/pairline/internal/storage"
)

func newTestEngine() (*genealogy.Engine, *storage.Memory) {
	store := storage.NewMemory()
	return genealogy.NewEngine(store, nil), store
}

func addMember(store *storage.Memory, id string) {
	store.PutMember(genealogy.Member{ID: id, Username: id, Status: "active"})
}

func TestPlaceRoot(t *testing.T) {
	ctx := context.Background()
	eng, store := newTestEngine()
	addMember(store, "alice")

	node, err := eng.PlaceRoot(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, genealogy.PositionRoot, node.Position)
	assert.Equal(t, 0, node.Depth)
	assert.Empty(t, node.SponsorID)

	_, err = eng.PlaceRoot(ctx, "alice")
	assert.ErrorIs(t, err, genealogy.ErrAlreadyPlaced)

	_, err = eng.PlaceRoot(ctx, "ghost")
	assert.ErrorIs(t, err, genealogy.ErrMemberNotFound)
}

func TestPlaceSpillover(t *testing.T) {
	ctx := context.Background()
	eng, store := newTestEngine()
	for _, id := range []string{"a", "b", "c", "d"} {
		addMember(store, id)
	}
	_, err := eng.PlaceRoot(ctx, "a")
	require.NoError(t, err)

	// First two recruits take the sponsor's own slots, left before right.
	nodeB, err := eng.Place(ctx, "b", "a", "")
	require.NoError(t, err)
	assert.Equal(t, genealogy.PositionLeft, nodeB.Position)
	assert.Equal(t, "a", nodeB.SponsorID)
	assert.Equal(t, 1, nodeB.Depth)

	nodeC, err := eng.Place(ctx, "c", "a", "")
	require.NoError(t, err)
	assert.Equal(t, genealogy.PositionRight, nodeC.Position)
	assert.Equal(t, "a", nodeC.SponsorID)
	assert.Equal(t, 1, nodeC.Depth)

	// Third recruit spills over into the leftmost open slot of the
	// next level, even though the sponsor is still "a".
	nodeD, err := eng.Place(ctx, "d", "a", "")
	require.NoError(t, err)
	assert.Equal(t, genealogy.PositionLeft, nodeD.Position)
	assert.Equal(t, "b", nodeD.SponsorID)
	assert.Equal(t, 2, nodeD.Depth)
}

func TestPlaceFillsLevelsLeftToRight(t *testing.T) {
	ctx := context.Background()
	eng, store := newTestEngine()
	addMember(store, "root")
	_, err := eng.PlaceRoot(ctx, "root")
	require.NoError(t, err)

	// Six placements complete two full levels below the root.
	ids := []string{"m1", "m2", "m3", "m4", "m5", "m6"}
	for _, id := range ids {
		addMember(store, id)
		_, err := eng.Place(ctx, id, "root", "")
		require.NoError(t, err)
	}

	wantParent := map[string]string{
		"m1": "root", "m2": "root",
		"m3": "m1", "m4": "m1",
		"m5": "m2", "m6": "m2",
	}
	wantDepth := map[string]int{
		"m1": 1, "m2": 1,
		"m3": 2, "m4": 2, "m5": 2, "m6": 2,
	}
	for _, id := range ids {
		node, err := store.GetNode(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, wantParent[id], node.SponsorID, "parent of %s", id)
		assert.Equal(t, wantDepth[id], node.Depth, "depth of %s", id)
	}
}

func TestPlaceExplicitPosition(t *testing.T) {
	ctx := context.Background()
	eng, store := newTestEngine()
	for _, id := range []string{"a", "b", "c"} {
		addMember(store, id)
	}
	_, err := eng.PlaceRoot(ctx, "a")
	require.NoError(t, err)

	node, err := eng.Place(ctx, "b", "a", genealogy.PositionRight)
	require.NoError(t, err)
	assert.Equal(t, genealogy.PositionRight, node.Position)
	assert.Equal(t, "a", node.SponsorID)

	// An explicit position never spills over; an occupied slot is an error.
	_, err = eng.Place(ctx, "c", "a", genealogy.PositionRight)
	assert.ErrorIs(t, err, genealogy.ErrPositionOccupied)

	// The failed registration must not have created a node.
	_, err = store.GetNode(ctx, "c")
	assert.ErrorIs(t, err, genealogy.ErrNodeNotFound)
}

func TestPlaceValidation(t *testing.T) {
	ctx := context.Background()
	eng, store := newTestEngine()
	addMember(store, "a")
	addMember(store, "b")
	addMember(store, "loner")
	_, err := eng.PlaceRoot(ctx, "a")
	require.NoError(t, err)
	_, err = eng.Place(ctx, "b", "a", "")
	require.NoError(t, err)

	_, err = eng.Place(ctx, "ghost", "a", "")
	assert.ErrorIs(t, err, genealogy.ErrMemberNotFound)

	_, err = eng.Place(ctx, "b", "a", "")
	assert.ErrorIs(t, err, genealogy.ErrAlreadyPlaced)

	_, err = eng.Place(ctx, "loner", "ghost", "")
	assert.ErrorIs(t, err, genealogy.ErrSponsorNotFound)

	addMember(store, "unplaced")
	_, err = eng.Place(ctx, "loner", "unplaced", "")
	assert.ErrorIs(t, err, genealogy.ErrSponsorNotPlaced)
}

func TestPlaceConcurrentRegistrations(t *testing.T) {
	ctx := context.Background()
	eng, store := newTestEngine()
	addMember(store, "root")
	_, err := eng.PlaceRoot(ctx, "root")
	require.NoError(t, err)

	const n = 20
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("m%02d", i)
		addMember(store, ids[i])
	}

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, errs[i] = eng.Place(ctx, id, "root", "")
		}(i, id)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "placement of %s", ids[i])
	}

	// Every member got a slot and every parent-child link is consistent
	// in both directions.
	seen := map[string]bool{}
	for _, id := range ids {
		node, err := store.GetNode(ctx, id)
		require.NoError(t, err)
		parent, err := store.GetNode(ctx, node.SponsorID)
		require.NoError(t, err)

		slot := node.SponsorID + "/" + string(node.Position)
		assert.False(t, seen[slot], "slot %s claimed twice", slot)
		seen[slot] = true

		switch node.Position {
		case genealogy.PositionLeft:
			assert.Equal(t, id, parent.LeftChildID)
		case genealogy.PositionRight:
			assert.Equal(t, id, parent.RightChildID)
		default:
			t.Fatalf("unexpected position %q for %s", node.Position, id)
		}
	}
}
