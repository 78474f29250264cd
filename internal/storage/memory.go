package storage

import (
	"context"
	"sync"

	"github.com/obinnaso/pairline/internal/commission"
	"github.com/obinnaso/pairline/internal/genealogy"
)

// Memory is a thread-safe in-memory implementation of the engine store
// interfaces. It backs the package tests and keeps the same per-record
// atomicity guarantees as the Postgres store, via a single mutex.
type Memory struct {
	mu           sync.Mutex
	members      map[string]genealogy.Member
	nodes        map[string]genealogy.TreeNode
	packages     map[string]commission.Package
	wallets      map[string]commission.Wallet // keyed memberID/type
	transactions []commission.Transaction
}

var _ commission.Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		members:  make(map[string]genealogy.Member),
		nodes:    make(map[string]genealogy.TreeNode),
		packages: make(map[string]commission.Package),
		wallets:  make(map[string]commission.Wallet),
	}
}

func walletKey(memberID string, wtype commission.WalletType) string {
	return memberID + "/" + string(wtype)
}

// PutMember seeds or replaces a member record.
func (m *Memory) PutMember(member genealogy.Member) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.members[member.ID] = member
}

// PutPackage seeds or replaces a package record.
func (m *Memory) PutPackage(pkg commission.Package) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.packages[pkg.ID] = pkg
}

// PutWallet seeds or replaces a wallet record.
func (m *Memory) PutWallet(w commission.Wallet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wallets[walletKey(w.MemberID, w.Type)] = w
}

// Transactions returns a copy of the ledger, oldest first.
func (m *Memory) Transactions() []commission.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]commission.Transaction, len(m.transactions))
	copy(out, m.transactions)
	return out
}

// genealogy.Store --------------------------------------------------------

func (m *Memory) GetMember(_ context.Context, id string) (genealogy.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	member, ok := m.members[id]
	if !ok {
		return genealogy.Member{}, genealogy.ErrMemberNotFound
	}
	return member, nil
}

func (m *Memory) GetNode(_ context.Context, memberID string) (genealogy.TreeNode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	node, ok := m.nodes[memberID]
	if !ok {
		return genealogy.TreeNode{}, genealogy.ErrNodeNotFound
	}
	return node, nil
}

func (m *Memory) CreateNode(_ context.Context, node genealogy.TreeNode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.nodes[node.MemberID]; exists {
		return genealogy.ErrAlreadyPlaced
	}
	m.nodes[node.MemberID] = node
	return nil
}

func (m *Memory) ClaimChild(_ context.Context, parentID string, pos genealogy.Position, childID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	parent, ok := m.nodes[parentID]
	if !ok {
		return genealogy.ErrNodeNotFound
	}
	switch pos {
	case genealogy.PositionLeft:
		if parent.LeftChildID != "" {
			return genealogy.ErrPositionOccupied
		}
		parent.LeftChildID = childID
	case genealogy.PositionRight:
		if parent.RightChildID != "" {
			return genealogy.ErrPositionOccupied
		}
		parent.RightChildID = childID
	default:
		return genealogy.ErrPositionOccupied
	}
	m.nodes[parentID] = parent
	return nil
}

func (m *Memory) UpdateNode(_ context.Context, memberID string, fn func(*genealogy.TreeNode) error) (genealogy.TreeNode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	node, ok := m.nodes[memberID]
	if !ok {
		return genealogy.TreeNode{}, genealogy.ErrNodeNotFound
	}
	if err := fn(&node); err != nil {
		return genealogy.TreeNode{}, err
	}
	m.nodes[memberID] = node
	return node, nil
}

// commission.Store -------------------------------------------------------

func (m *Memory) GetPackage(_ context.Context, id string) (commission.Package, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pkg, ok := m.packages[id]
	if !ok {
		return commission.Package{}, commission.ErrPackageNotFound
	}
	return pkg, nil
}

func (m *Memory) GetWallet(_ context.Context, memberID string, wtype commission.WalletType) (commission.Wallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.wallets[walletKey(memberID, wtype)]
	if !ok {
		return commission.Wallet{}, commission.ErrWalletNotFound
	}
	return w, nil
}

func (m *Memory) UpdateWallet(_ context.Context, memberID string, wtype commission.WalletType, fn func(*commission.Wallet) error) (commission.Wallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.wallets[walletKey(memberID, wtype)]
	if !ok {
		return commission.Wallet{}, commission.ErrWalletNotFound
	}
	if err := fn(&w); err != nil {
		return commission.Wallet{}, err
	}
	m.wallets[walletKey(memberID, wtype)] = w
	return w, nil
}

func (m *Memory) AppendTransaction(_ context.Context, tx commission.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions = append(m.transactions, tx)
	return nil
}
