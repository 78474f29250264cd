package genealogy_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obinnaso/pairline/internal/genealogy"
	"github.com/obinnaso/pairline/internal/storage"
)

// buildFamily places a three-level tree:
//
//	a
//	├── b (left)
//	│   └── d (left)
//	└── c (right)
func buildFamily(t *testing.T) (*genealogy.Engine, *storage.Memory) {
	t.Helper()
	ctx := context.Background()
	eng, store := newTestEngine()
	for _, id := range []string{"a", "b", "c", "d"} {
		addMember(store, id)
	}
	_, err := eng.PlaceRoot(ctx, "a")
	require.NoError(t, err)
	_, err = eng.Place(ctx, "b", "a", genealogy.PositionLeft)
	require.NoError(t, err)
	_, err = eng.Place(ctx, "c", "a", genealogy.PositionRight)
	require.NoError(t, err)
	_, err = eng.Place(ctx, "d", "b", genealogy.PositionLeft)
	require.NoError(t, err)
	return eng, store
}

func TestUpline(t *testing.T) {
	ctx := context.Background()
	eng, _ := buildFamily(t)

	upline, err := eng.Upline(ctx, "d")
	require.NoError(t, err)
	require.Len(t, upline, 2)
	assert.Equal(t, "b", upline[0].ID)
	assert.Equal(t, "a", upline[1].ID)
	assert.Equal(t, genealogy.PositionRoot, upline[1].Position)

	// The root has no ancestors.
	upline, err = eng.Upline(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, upline)

	_, err = eng.Upline(ctx, "ghost")
	assert.ErrorIs(t, err, genealogy.ErrMemberNotFound)
}

func TestDownline(t *testing.T) {
	ctx := context.Background()
	eng, _ := buildFamily(t)

	// Unlimited depth, breadth-first, member details attached.
	downline, err := eng.Downline(ctx, "a", 0)
	require.NoError(t, err)
	require.Len(t, downline, 3)
	assert.Equal(t, "b", downline[0].MemberID)
	assert.Equal(t, "c", downline[1].MemberID)
	assert.Equal(t, "d", downline[2].MemberID)
	require.NotNil(t, downline[0].Member)
	assert.Equal(t, "b", downline[0].Member.Username)

	// Depth limit cuts the walk below the first level.
	downline, err = eng.Downline(ctx, "a", 1)
	require.NoError(t, err)
	require.Len(t, downline, 2)
	assert.Equal(t, "b", downline[0].MemberID)
	assert.Equal(t, "c", downline[1].MemberID)
}

func TestTreeIncludesSelf(t *testing.T) {
	ctx := context.Background()
	eng, _ := buildFamily(t)

	tree, err := eng.Tree(ctx, "b", 0)
	require.NoError(t, err)
	require.Len(t, tree, 2)
	assert.Equal(t, "b", tree[0].MemberID)
	assert.Equal(t, "d", tree[1].MemberID)
}

func TestInSubtree(t *testing.T) {
	ctx := context.Background()
	eng, _ := buildFamily(t)

	in, err := eng.InSubtree(ctx, "b", "d")
	require.NoError(t, err)
	assert.True(t, in)

	in, err = eng.InSubtree(ctx, "c", "d")
	require.NoError(t, err)
	assert.False(t, in)

	in, err = eng.InSubtree(ctx, "b", "b")
	require.NoError(t, err)
	assert.True(t, in)

	// An absent child slot contains nothing.
	in, err = eng.InSubtree(ctx, "", "d")
	require.NoError(t, err)
	assert.False(t, in)
}
