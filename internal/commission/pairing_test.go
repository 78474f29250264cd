package commission_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obinnaso/pairline/internal/commission"
)

func TestPairMatchesSmallerLeg(t *testing.T) {
	ctx := context.Background()
	eng, store := newFamily(t)
	store.PutPackage(commission.Package{ID: "starter", Name: "Starter", Price: 10000, CommissionRate: 10, IsActive: true})

	// Left leg 300, right leg 100.
	_, err := eng.ApplyPurchase(ctx, "a", 300, "d")
	require.NoError(t, err)
	_, err = eng.ApplyPurchase(ctx, "a", 100, "c")
	require.NoError(t, err)

	// Poolable volume is the smaller leg: 100 at 10 percent pays 10.
	payout, err := eng.Pair(ctx, "a", "starter")
	require.NoError(t, err)
	assert.Equal(t, int64(10), payout)

	// Matched volume is drained from both legs; the surplus stays.
	left, right, err := eng.LegVolumes(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(200), left)
	assert.Equal(t, int64(0), right)
}

func TestPairWithOneEmptyLegPaysNothing(t *testing.T) {
	ctx := context.Background()
	eng, store := newFamily(t)
	store.PutPackage(commission.Package{ID: "starter", Name: "Starter", Price: 10000, CommissionRate: 10, IsActive: true})

	_, err := eng.ApplyPurchase(ctx, "a", 300, "d")
	require.NoError(t, err)

	payout, err := eng.Pair(ctx, "a", "starter")
	require.NoError(t, err)
	assert.Zero(t, payout)

	// The unmatched leg is untouched.
	left, right, err := eng.LegVolumes(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(300), left)
	assert.Equal(t, int64(0), right)
}

func TestPairRateIsPercent(t *testing.T) {
	ctx := context.Background()
	eng, store := newFamily(t)
	store.PutPackage(commission.Package{ID: "leader", Name: "Leader", Price: 200000, CommissionRate: 12, IsActive: true})

	_, err := eng.ApplyPurchase(ctx, "a", 250, "d")
	require.NoError(t, err)
	_, err = eng.ApplyPurchase(ctx, "a", 400, "c")
	require.NoError(t, err)

	// 250 poolable at 12 percent pays 30, not 3000.
	payout, err := eng.Pair(ctx, "a", "leader")
	require.NoError(t, err)
	assert.Equal(t, int64(30), payout)
}

func TestPairUnknownPackage(t *testing.T) {
	ctx := context.Background()
	eng, _ := newFamily(t)

	_, err := eng.Pair(ctx, "a", "ghost")
	assert.ErrorIs(t, err, commission.ErrPackageNotFound)
}
