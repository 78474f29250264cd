package commission_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obinnaso/pairline/internal/commission"
	"github.com/obinnaso/pairline/internal/genealogy"
	"github.com/obinnaso/pairline/internal/storage"
)

// newFamily places the standard test tree and returns the commission
// engine over the same store:
//
//	a
//	├── b (left)
//	│   └── d (left)
//	└── c (right)
func newFamily(t *testing.T) (*commission.Engine, *storage.Memory) {
	t.Helper()
	ctx := context.Background()
	store := storage.NewMemory()
	tree := genealogy.NewEngine(store, nil)

	for _, id := range []string{"a", "b", "c", "d"} {
		store.PutMember(genealogy.Member{ID: id, Username: id, Status: "active"})
	}
	_, err := tree.PlaceRoot(ctx, "a")
	require.NoError(t, err)
	_, err = tree.Place(ctx, "b", "a", genealogy.PositionLeft)
	require.NoError(t, err)
	_, err = tree.Place(ctx, "c", "a", genealogy.PositionRight)
	require.NoError(t, err)
	_, err = tree.Place(ctx, "d", "b", genealogy.PositionLeft)
	require.NoError(t, err)

	return commission.NewEngine(store, nil), store
}

func TestApplyPurchaseCreditsCorrectLeg(t *testing.T) {
	ctx := context.Background()
	eng, _ := newFamily(t)

	// d sits in a's left subtree.
	leg, err := eng.ApplyPurchase(ctx, "a", 500, "d")
	require.NoError(t, err)
	assert.Equal(t, genealogy.PositionLeft, leg)

	left, right, err := eng.LegVolumes(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(500), left)
	assert.Equal(t, int64(0), right)

	// c sits in a's right subtree; volumes accumulate independently.
	leg, err = eng.ApplyPurchase(ctx, "a", 200, "c")
	require.NoError(t, err)
	assert.Equal(t, genealogy.PositionRight, leg)

	left, right, err = eng.LegVolumes(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(500), left)
	assert.Equal(t, int64(200), right)
}

func TestApplyPurchaseRejectsOutsiders(t *testing.T) {
	ctx := context.Background()
	eng, store := newFamily(t)

	// A member is not in its own downline.
	_, err := eng.ApplyPurchase(ctx, "a", 100, "a")
	assert.ErrorIs(t, err, commission.ErrNotInDownline)

	// d is below b, not the other way around.
	_, err = eng.ApplyPurchase(ctx, "d", 100, "b")
	assert.ErrorIs(t, err, commission.ErrNotInDownline)

	// Nothing may have been credited by the failed calls.
	left, right, err := eng.LegVolumes(ctx, "a")
	require.NoError(t, err)
	assert.Zero(t, left)
	assert.Zero(t, right)

	store.PutMember(genealogy.Member{ID: "e", Username: "e", Status: "active"})
	_, err = eng.ApplyPurchase(ctx, "a", 100, "e")
	assert.ErrorIs(t, err, genealogy.ErrNodeNotFound)
}

func TestApplyPurchaseRejectsNonPositiveAmounts(t *testing.T) {
	ctx := context.Background()
	eng, _ := newFamily(t)

	_, err := eng.ApplyPurchase(ctx, "a", 0, "d")
	assert.ErrorIs(t, err, commission.ErrInvalidAmount)

	_, err = eng.ApplyPurchase(ctx, "a", -50, "d")
	assert.ErrorIs(t, err, commission.ErrInvalidAmount)
}
