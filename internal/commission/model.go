package commission

import (
	"context"
	"errors"
	"time"

	"github.com/obinnaso/pairline/internal/genealogy"
)

type WalletType string

const (
	WalletMain       WalletType = "main"
	WalletCommission WalletType = "commission"
)

type TxType string

const (
	TxDeposit    TxType = "deposit"
	TxPurchase   TxType = "purchase"
	TxCommission TxType = "commission"
	TxWithdrawal TxType = "withdrawal"
)

var (
	ErrPackageNotFound = errors.New("package not found")
	ErrWalletNotFound  = errors.New("wallet not found")
	ErrInvalidAmount   = errors.New("amount must be positive")
	ErrNotInDownline   = errors.New("purchase member not in downline")
)

// Wallet holds one of a member's two balances, in minor units.
type Wallet struct {
	ID        string     `json:"id"`
	MemberID  string     `json:"member_id"`
	Type      WalletType `json:"type"`
	Balance   int64      `json:"balance"`
	CreatedAt time.Time  `json:"created_at"`
}

// Package is a purchasable membership tier. CommissionRate is kept in
// whole-number percent units and divided by 100 during pairing, matching
// the historical behavior of the platform.
type Package struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Price          int64   `json:"price"`
	CommissionRate float64 `json:"commission_rate"`
	Description    string  `json:"description,omitempty"`
	IsActive       bool    `json:"is_active"`
}

// Transaction is one append-only ledger row auditing a balance mutation.
type Transaction struct {
	ID              string     `json:"id"`
	MemberID        string     `json:"member_id"`
	WalletType      WalletType `json:"wallet_type"`
	Type            TxType     `json:"type"`
	Amount          int64      `json:"amount"`
	BalanceBefore   int64      `json:"balance_before"`
	BalanceAfter    int64      `json:"balance_after"`
	Description     string     `json:"description,omitempty"`
	RelatedMemberID string     `json:"related_member_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// CommissionResult records one payout made during a distribution walk.
type CommissionResult struct {
	MemberID      string             `json:"member_id"`
	Amount        int64              `json:"amount"`
	FromMemberID  string             `json:"from_member_id"`
	PackageAmount int64              `json:"package_amount"`
	Leg           genealogy.Position `json:"leg"`
}

// Store extends the tree store with the ledger operations the commission
// engine needs. UpdateWallet must be atomic per wallet record, same as
// UpdateNode on the tree side.
type Store interface {
	genealogy.Store

	GetPackage(ctx context.Context, id string) (Package, error)
	GetWallet(ctx context.Context, memberID string, wtype WalletType) (Wallet, error)
	UpdateWallet(ctx context.Context, memberID string, wtype WalletType, fn func(*Wallet) error) (Wallet, error)
	AppendTransaction(ctx context.Context, tx Transaction) error
}
