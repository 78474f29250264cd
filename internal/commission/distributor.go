package commission

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/obinnaso/pairline/internal/genealogy"
)

// Distribute walks from the purchaser's tree parent up to the root and,
// for each ancestor, credits leg volume and runs pairing. Ancestors with
// an active package that pair a positive commission get it credited on
// their commission wallet, with a ledger row naming the purchaser.
//
// A failure at one ancestor is logged and skipped; it never aborts the
// walk for the ancestors above it. The returned list holds every payout
// actually made and may be empty.
func (e *Engine) Distribute(ctx context.Context, purchaserID string, packageAmount int64, packageID string) ([]CommissionResult, error) {
	if packageAmount <= 0 {
		return nil, ErrInvalidAmount
	}
	if _, err := e.store.GetMember(ctx, purchaserID); err != nil {
		return nil, err
	}
	purchaseNode, err := e.store.GetNode(ctx, purchaserID)
	if err != nil {
		return nil, err
	}

	results := []CommissionResult{}
	currentID := purchaseNode.SponsorID

	for currentID != "" {
		member, err := e.store.GetMember(ctx, currentID)
		if err != nil {
			break
		}
		node, err := e.store.GetNode(ctx, currentID)
		if err != nil {
			break
		}

		leg, err := e.ApplyPurchase(ctx, currentID, packageAmount, purchaserID)
		if err != nil {
			e.log.Warn("leg volume update failed, skipping ancestor",
				zap.String("ancestor_id", currentID),
				zap.String("purchaser_id", purchaserID),
				zap.Error(err))
			currentID = node.SponsorID
			continue
		}

		if member.ActivePackageID != "" {
			if payout := e.payCommission(ctx, member, purchaserID, packageAmount, leg); payout != nil {
				results = append(results, *payout)
			}
		}

		currentID = node.SponsorID
	}

	return results, nil
}

// payCommission pairs the ancestor's legs and credits any payout. Returns
// nil when nothing was paid (no poolable volume, or a step failed).
func (e *Engine) payCommission(ctx context.Context, member genealogy.Member, purchaserID string, packageAmount int64, leg genealogy.Position) *CommissionResult {
	amount, err := e.Pair(ctx, member.ID, member.ActivePackageID)
	if err != nil {
		e.log.Warn("pairing failed",
			zap.String("member_id", member.ID),
			zap.String("package_id", member.ActivePackageID),
			zap.Error(err))
		return nil
	}
	if amount <= 0 {
		return nil
	}

	wallet, err := e.store.UpdateWallet(ctx, member.ID, WalletCommission, func(w *Wallet) error {
		w.Balance += amount
		return nil
	})
	if err != nil {
		e.log.Warn("commission wallet credit failed",
			zap.String("member_id", member.ID),
			zap.Int64("amount", amount),
			zap.Error(err))
		return nil
	}

	tx := Transaction{
		ID:              uuid.New().String(),
		MemberID:        member.ID,
		WalletType:      WalletCommission,
		Type:            TxCommission,
		Amount:          amount,
		BalanceBefore:   wallet.Balance - amount,
		BalanceAfter:    wallet.Balance,
		Description:     fmt.Sprintf("Binary commission from member %s", purchaserID),
		RelatedMemberID: purchaserID,
		CreatedAt:       time.Now(),
	}
	if err := e.store.AppendTransaction(ctx, tx); err != nil {
		e.log.Warn("commission ledger write failed",
			zap.String("member_id", member.ID),
			zap.String("transaction_id", tx.ID),
			zap.Error(err))
	}

	return &CommissionResult{
		MemberID:      member.ID,
		Amount:        amount,
		FromMemberID:  purchaserID,
		PackageAmount: packageAmount,
		Leg:           leg,
	}
}
