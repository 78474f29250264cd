package storage

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obinnaso/pairline/internal/commission"
	"github.com/obinnaso/pairline/internal/genealogy"
)

func TestClaimChildIsExclusive(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.CreateNode(ctx, genealogy.TreeNode{MemberID: "root", Position: genealogy.PositionRoot}))

	require.NoError(t, m.ClaimChild(ctx, "root", genealogy.PositionLeft, "a"))
	err := m.ClaimChild(ctx, "root", genealogy.PositionLeft, "b")
	assert.ErrorIs(t, err, genealogy.ErrPositionOccupied)

	node, err := m.GetNode(ctx, "root")
	require.NoError(t, err)
	assert.Equal(t, "a", node.LeftChildID)

	err = m.ClaimChild(ctx, "ghost", genealogy.PositionLeft, "a")
	assert.ErrorIs(t, err, genealogy.ErrNodeNotFound)
}

func TestUpdateNodeIsAtomic(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.CreateNode(ctx, genealogy.TreeNode{MemberID: "n", Position: genealogy.PositionRoot}))

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = m.UpdateNode(ctx, "n", func(node *genealogy.TreeNode) error {
				node.LeftLegVolume += 1
				return nil
			})
		}()
	}
	wg.Wait()

	node, err := m.GetNode(ctx, "n")
	require.NoError(t, err)
	assert.Equal(t, int64(n), node.LeftLegVolume)
}

func TestUpdateWalletRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.PutWallet(commission.Wallet{ID: "w", MemberID: "a", Type: commission.WalletMain, Balance: 100})

	_, err := m.UpdateWallet(ctx, "a", commission.WalletMain, func(w *commission.Wallet) error {
		w.Balance = 0
		return assert.AnError
	})
	require.Error(t, err)

	w, err := m.GetWallet(ctx, "a", commission.WalletMain)
	require.NoError(t, err)
	assert.Equal(t, int64(100), w.Balance)
}
