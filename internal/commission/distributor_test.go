package commission_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obinnaso/pairline/internal/commission"
	"github.com/obinnaso/pairline/internal/genealogy"
	"github.com/obinnaso/pairline/internal/storage"
)

func TestDistributePaysPairedAncestor(t *testing.T) {
	ctx := context.Background()
	eng, store := newFamily(t)
	store.PutPackage(commission.Package{ID: "starter", Name: "Starter", Price: 10000, CommissionRate: 10, IsActive: true})
	store.PutMember(genealogy.Member{ID: "a", Username: "a", Status: "active", ActivePackageID: "starter"})
	store.PutWallet(commission.Wallet{ID: "w-a", MemberID: "a", Type: commission.WalletCommission})

	// First purchase lands on a's right leg only; nothing pairs yet.
	results, err := eng.Distribute(ctx, "c", 100, "starter")
	require.NoError(t, err)
	assert.Empty(t, results)

	left, right, err := eng.LegVolumes(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(0), left)
	assert.Equal(t, int64(100), right)

	// The second purchase fills the left leg and triggers a payout.
	results, err = eng.Distribute(ctx, "d", 100, "starter")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a", results[0].MemberID)
	assert.Equal(t, int64(10), results[0].Amount)
	assert.Equal(t, "d", results[0].FromMemberID)
	assert.Equal(t, int64(100), results[0].PackageAmount)
	assert.Equal(t, genealogy.PositionLeft, results[0].Leg)

	wallet, err := store.GetWallet(ctx, "a", commission.WalletCommission)
	require.NoError(t, err)
	assert.Equal(t, int64(10), wallet.Balance)

	txs := store.Transactions()
	require.Len(t, txs, 1)
	assert.Equal(t, commission.TxCommission, txs[0].Type)
	assert.Equal(t, commission.WalletCommission, txs[0].WalletType)
	assert.Equal(t, "a", txs[0].MemberID)
	assert.Equal(t, int64(10), txs[0].Amount)
	assert.Equal(t, int64(0), txs[0].BalanceBefore)
	assert.Equal(t, int64(10), txs[0].BalanceAfter)
	assert.Equal(t, "d", txs[0].RelatedMemberID)

	// Both legs were drained by the pairing.
	left, right, err = eng.LegVolumes(ctx, "a")
	require.NoError(t, err)
	assert.Zero(t, left)
	assert.Zero(t, right)
}

func TestDistributeSkipsAncestorsWithoutPackage(t *testing.T) {
	ctx := context.Background()
	eng, _ := newFamily(t)

	// No ancestor has an active package: volume accumulates, nobody is paid.
	results, err := eng.Distribute(ctx, "d", 100, "starter")
	require.NoError(t, err)
	assert.Empty(t, results)

	left, _, err := eng.LegVolumes(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, int64(100), left)

	left, _, err = eng.LegVolumes(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(100), left)
}

func TestDistributeCreditsEveryAncestorOnTheCorrectLeg(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	tree := genealogy.NewEngine(store, nil)
	eng := commission.NewEngine(store, nil)

	// Four-level chain with mixed positions:
	// r -> a (right) -> b (left) -> c (left) -> d (right)
	for _, id := range []string{"r", "a", "b", "c", "d"} {
		store.PutMember(genealogy.Member{ID: id, Username: id, Status: "active"})
	}
	_, err := tree.PlaceRoot(ctx, "r")
	require.NoError(t, err)
	_, err = tree.Place(ctx, "a", "r", genealogy.PositionRight)
	require.NoError(t, err)
	_, err = tree.Place(ctx, "b", "a", genealogy.PositionLeft)
	require.NoError(t, err)
	_, err = tree.Place(ctx, "c", "b", genealogy.PositionLeft)
	require.NoError(t, err)
	_, err = tree.Place(ctx, "d", "c", genealogy.PositionRight)
	require.NoError(t, err)

	results, err := eng.Distribute(ctx, "d", 50, "starter")
	require.NoError(t, err)
	assert.Empty(t, results)

	wantLeg := map[string]genealogy.Position{
		"c": genealogy.PositionRight,
		"b": genealogy.PositionLeft,
		"a": genealogy.PositionLeft,
		"r": genealogy.PositionRight,
	}
	for id, leg := range wantLeg {
		left, right, err := eng.LegVolumes(ctx, id)
		require.NoError(t, err)
		if leg == genealogy.PositionLeft {
			assert.Equal(t, int64(50), left, "left leg of %s", id)
			assert.Zero(t, right, "right leg of %s", id)
		} else {
			assert.Equal(t, int64(50), right, "right leg of %s", id)
			assert.Zero(t, left, "left leg of %s", id)
		}
	}
}

func TestDistributeToleratesMissingWallet(t *testing.T) {
	ctx := context.Background()
	eng, store := newFamily(t)
	store.PutPackage(commission.Package{ID: "starter", Name: "Starter", Price: 10000, CommissionRate: 10, IsActive: true})
	store.PutMember(genealogy.Member{ID: "a", Username: "a", Status: "active", ActivePackageID: "starter"})

	_, err := eng.Distribute(ctx, "c", 100, "starter")
	require.NoError(t, err)

	// The payout step fails on the missing wallet, but the walk and the
	// purchase itself succeed.
	results, err := eng.Distribute(ctx, "d", 100, "starter")
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Empty(t, store.Transactions())
}

func TestDistributeValidation(t *testing.T) {
	ctx := context.Background()
	eng, store := newFamily(t)

	_, err := eng.Distribute(ctx, "d", 0, "starter")
	assert.ErrorIs(t, err, commission.ErrInvalidAmount)

	_, err = eng.Distribute(ctx, "ghost", 100, "starter")
	assert.ErrorIs(t, err, genealogy.ErrMemberNotFound)

	store.PutMember(genealogy.Member{ID: "unplaced", Username: "unplaced", Status: "active"})
	_, err = eng.Distribute(ctx, "unplaced", 100, "starter")
	assert.ErrorIs(t, err, genealogy.ErrNodeNotFound)
}

func TestDistributeConcurrentPurchasesConserveVolume(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	tree := genealogy.NewEngine(store, nil)
	eng := commission.NewEngine(store, nil)

	for _, id := range []string{"a", "b", "d"} {
		store.PutMember(genealogy.Member{ID: id, Username: id, Status: "active"})
	}
	_, err := tree.PlaceRoot(ctx, "a")
	require.NoError(t, err)
	_, err = tree.Place(ctx, "b", "a", genealogy.PositionLeft)
	require.NoError(t, err)
	_, err = tree.Place(ctx, "d", "b", genealogy.PositionLeft)
	require.NoError(t, err)

	// No ancestor holds a package, so the accumulated volume is never
	// drained and must equal the sum of all purchases exactly.
	const n = 10
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = eng.Distribute(ctx, "d", 50, "starter")
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	left, right, err := eng.LegVolumes(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, int64(n*50), left)
	assert.Zero(t, right)

	left, right, err = eng.LegVolumes(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(n*50), left)
	assert.Zero(t, right)
}
