package wallet

import "time"

type Wallet struct {
	ID        string    `json:"id"`
	MemberID  string    `json:"member_id"`
	Type      string    `json:"type"`
	Balance   int64     `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}

// Transaction model for responses
type Transaction struct {
	ID              string    `json:"id"`
	WalletType      string    `json:"wallet_type"`
	Type            string    `json:"type"`
	Amount          int64     `json:"amount"`
	BalanceBefore   int64     `json:"balance_before"`
	BalanceAfter    int64     `json:"balance_after"`
	Description     string    `json:"description,omitempty"`
	RelatedMemberID *string   `json:"related_member_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}
