package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/obinnaso/pairline/internal/commission"
	"github.com/obinnaso/pairline/internal/genealogy"
)

// Postgres implements the engine store interfaces on the shared pgx pool.
// Read-modify-write operations take a row lock (SELECT ... FOR UPDATE)
// inside a transaction, and the child-slot claim is a conditional UPDATE,
// so concurrent purchases and registrations cannot lose updates.
type Postgres struct {
	pool *pgxpool.Pool
}

var _ commission.Store = (*Postgres)(nil)

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// genealogy.Store --------------------------------------------------------

func (s *Postgres) GetMember(ctx context.Context, id string) (genealogy.Member, error) {
	var m genealogy.Member
	var sponsorID, packageID *string
	err := s.pool.QueryRow(ctx,
		`SELECT id, username, status, sponsor_id, active_package_id
		 FROM members WHERE id = $1`, id).
		Scan(&m.ID, &m.Username, &m.Status, &sponsorID, &packageID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return genealogy.Member{}, genealogy.ErrMemberNotFound
		}
		return genealogy.Member{}, fmt.Errorf("get member: %w", err)
	}
	m.SponsorID = strOrEmpty(sponsorID)
	m.ActivePackageID = strOrEmpty(packageID)
	return m, nil
}

func (s *Postgres) GetNode(ctx context.Context, memberID string) (genealogy.TreeNode, error) {
	return scanNode(s.pool.QueryRow(ctx,
		`SELECT member_id, sponsor_id, position, depth, left_child_id, right_child_id,
		        left_leg_volume, right_leg_volume
		 FROM tree_nodes WHERE member_id = $1`, memberID))
}

func scanNode(row pgx.Row) (genealogy.TreeNode, error) {
	var n genealogy.TreeNode
	var sponsorID, leftID, rightID *string
	err := row.Scan(&n.MemberID, &sponsorID, &n.Position, &n.Depth, &leftID, &rightID,
		&n.LeftLegVolume, &n.RightLegVolume)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return genealogy.TreeNode{}, genealogy.ErrNodeNotFound
		}
		return genealogy.TreeNode{}, fmt.Errorf("get tree node: %w", err)
	}
	n.SponsorID = strOrEmpty(sponsorID)
	n.LeftChildID = strOrEmpty(leftID)
	n.RightChildID = strOrEmpty(rightID)
	return n, nil
}

func (s *Postgres) CreateNode(ctx context.Context, node genealogy.TreeNode) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO tree_nodes (member_id, sponsor_id, position, depth,
		                         left_child_id, right_child_id, left_leg_volume, right_leg_volume)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		node.MemberID, nullable(node.SponsorID), node.Position, node.Depth,
		nullable(node.LeftChildID), nullable(node.RightChildID),
		node.LeftLegVolume, node.RightLegVolume,
	)
	if err != nil {
		return fmt.Errorf("insert tree node: %w", err)
	}
	return nil
}

func (s *Postgres) ClaimChild(ctx context.Context, parentID string, pos genealogy.Position, childID string) error {
	column := "left_child_id"
	if pos == genealogy.PositionRight {
		column = "right_child_id"
	}

	// Conditional update: only wins if the slot is still empty.
	ct, err := s.pool.Exec(ctx,
		`UPDATE tree_nodes SET `+column+` = $1 WHERE member_id = $2 AND `+column+` IS NULL`,
		childID, parentID,
	)
	if err != nil {
		return fmt.Errorf("claim child slot: %w", err)
	}
	if ct.RowsAffected() == 0 {
		var exists bool
		_ = s.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM tree_nodes WHERE member_id = $1)`, parentID).Scan(&exists)
		if !exists {
			return genealogy.ErrNodeNotFound
		}
		return genealogy.ErrPositionOccupied
	}
	return nil
}

func (s *Postgres) UpdateNode(ctx context.Context, memberID string, fn func(*genealogy.TreeNode) error) (genealogy.TreeNode, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return genealogy.TreeNode{}, fmt.Errorf("begin node update: %w", err)
	}
	defer tx.Rollback(ctx)

	node, err := scanNode(tx.QueryRow(ctx,
		`SELECT member_id, sponsor_id, position, depth, left_child_id, right_child_id,
		        left_leg_volume, right_leg_volume
		 FROM tree_nodes WHERE member_id = $1 FOR UPDATE`, memberID))
	if err != nil {
		return genealogy.TreeNode{}, err
	}

	if err := fn(&node); err != nil {
		return genealogy.TreeNode{}, err
	}

	_, err = tx.Exec(ctx,
		`UPDATE tree_nodes
		 SET left_child_id = $1, right_child_id = $2, left_leg_volume = $3, right_leg_volume = $4
		 WHERE member_id = $5`,
		nullable(node.LeftChildID), nullable(node.RightChildID),
		node.LeftLegVolume, node.RightLegVolume, memberID,
	)
	if err != nil {
		return genealogy.TreeNode{}, fmt.Errorf("update tree node: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return genealogy.TreeNode{}, fmt.Errorf("commit node update: %w", err)
	}
	return node, nil
}

// commission.Store -------------------------------------------------------

func (s *Postgres) GetPackage(ctx context.Context, id string) (commission.Package, error) {
	var p commission.Package
	var desc *string
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, price, commission_rate, description, is_active
		 FROM packages WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Price, &p.CommissionRate, &desc, &p.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return commission.Package{}, commission.ErrPackageNotFound
		}
		return commission.Package{}, fmt.Errorf("get package: %w", err)
	}
	p.Description = strOrEmpty(desc)
	return p, nil
}

func (s *Postgres) GetWallet(ctx context.Context, memberID string, wtype commission.WalletType) (commission.Wallet, error) {
	var w commission.Wallet
	err := s.pool.QueryRow(ctx,
		`SELECT id, member_id, type, balance, created_at
		 FROM wallets WHERE member_id = $1 AND type = $2`, memberID, wtype).
		Scan(&w.ID, &w.MemberID, &w.Type, &w.Balance, &w.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return commission.Wallet{}, commission.ErrWalletNotFound
		}
		return commission.Wallet{}, fmt.Errorf("get wallet: %w", err)
	}
	return w, nil
}

func (s *Postgres) UpdateWallet(ctx context.Context, memberID string, wtype commission.WalletType, fn func(*commission.Wallet) error) (commission.Wallet, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return commission.Wallet{}, fmt.Errorf("begin wallet update: %w", err)
	}
	defer tx.Rollback(ctx)

	var w commission.Wallet
	err = tx.QueryRow(ctx,
		`SELECT id, member_id, type, balance, created_at
		 FROM wallets WHERE member_id = $1 AND type = $2 FOR UPDATE`, memberID, wtype).
		Scan(&w.ID, &w.MemberID, &w.Type, &w.Balance, &w.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return commission.Wallet{}, commission.ErrWalletNotFound
		}
		return commission.Wallet{}, fmt.Errorf("lock wallet: %w", err)
	}

	if err := fn(&w); err != nil {
		return commission.Wallet{}, err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE wallets SET balance = $1 WHERE id = $2`, w.Balance, w.ID); err != nil {
		return commission.Wallet{}, fmt.Errorf("update wallet balance: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return commission.Wallet{}, fmt.Errorf("commit wallet update: %w", err)
	}
	return w, nil
}

func (s *Postgres) AppendTransaction(ctx context.Context, t commission.Transaction) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO transactions (id, member_id, wallet_type, type, amount,
		                           balance_before, balance_after, description, related_member_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		t.ID, t.MemberID, t.WalletType, t.Type, t.Amount,
		t.BalanceBefore, t.BalanceAfter, nullable(t.Description), nullable(t.RelatedMemberID), t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append transaction: %w", err)
	}
	return nil
}
