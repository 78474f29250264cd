package commission

import (
	"context"
	"math"

	"github.com/obinnaso/pairline/internal/genealogy"
)

// Pair matches the member's leg volumes and returns the resulting
// commission. Poolable volume is the smaller leg; it is deducted from both
// legs once matched, and the payout is poolable * rate / 100 (the rate is
// stored in percent units). A member with volume on only one leg pairs
// nothing: commission 0, no mutation, no error.
//
// The whole read-compute-deduct runs inside one per-record node update, so
// two purchases crediting the same member cannot both pair the same
// volume.
func (e *Engine) Pair(ctx context.Context, memberID, packageID string) (int64, error) {
	pkg, err := e.store.GetPackage(ctx, packageID)
	if err != nil {
		return 0, err
	}

	var commission int64
	_, err = e.store.UpdateNode(ctx, memberID, func(n *genealogy.TreeNode) error {
		poolable := n.LeftLegVolume
		if n.RightLegVolume < poolable {
			poolable = n.RightLegVolume
		}
		if poolable <= 0 {
			commission = 0
			return nil
		}

		commission = int64(math.Round(float64(poolable) * pkg.CommissionRate / 100))
		n.LeftLegVolume -= poolable
		n.RightLegVolume -= poolable
		return nil
	})
	if err != nil {
		return 0, err
	}

	return commission, nil
}
