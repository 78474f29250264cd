package db

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
)

var Conn *pgxpool.Pool

// Init connects to Postgres
func Init() {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
	)

	var err error
	Conn, err = pgxpool.New(context.Background(), dsn)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v\n", err)
	}

	if err = Conn.Ping(context.Background()); err != nil {
		log.Fatalf("Unable to ping database: %v\n", err)
	}

	log.Println("Connected to Postgres successfully")

	// Ensure core tables exist, in dependency order
	ensureMembersTable()
	ensurePackagesTable()
	ensureWalletsTable()
	ensureTransactionsTable()
	ensureTreeNodesTable()
}

// ensureMembersTable creates the members table if it doesn't exist
func ensureMembersTable() {
	ctx := context.Background()
	var exists bool
	_ = Conn.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM information_schema.tables
            WHERE table_schema = 'public' AND table_name = 'members'
        )`).Scan(&exists)
	if exists {
		return
	}
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS members (
            id UUID PRIMARY KEY,
            username TEXT NOT NULL UNIQUE,
            email TEXT UNIQUE,
            password TEXT NOT NULL,
            status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active','inactive','suspended')),
            role TEXT NOT NULL DEFAULT 'member' CHECK (role IN ('member','admin')),
            sponsor_id UUID NULL REFERENCES members(id),
            active_package_id UUID NULL,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
        CREATE INDEX IF NOT EXISTS idx_members_sponsor ON members(sponsor_id);
    `)
	if err != nil {
		log.Printf("failed to create members table: %v", err)
	}
}

// ensurePackagesTable creates the packages table if it doesn't exist.
// commission_rate is stored in whole-number percent units; the pairing
// engine divides by 100 when converting pooled volume to a payout.
func ensurePackagesTable() {
	ctx := context.Background()
	var exists bool
	_ = Conn.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM information_schema.tables
            WHERE table_schema = 'public' AND table_name = 'packages'
        )`).Scan(&exists)
	if exists {
		return
	}
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS packages (
            id UUID PRIMARY KEY,
            name TEXT NOT NULL UNIQUE,
            price BIGINT NOT NULL CHECK (price > 0),
            commission_rate DOUBLE PRECISION NOT NULL CHECK (commission_rate >= 0),
            description TEXT,
            is_active BOOLEAN NOT NULL DEFAULT TRUE
        )
    `)
	if err != nil {
		log.Printf("failed to create packages table: %v", err)
	}
}

// ensureWalletsTable creates the wallets table if it doesn't exist.
// Every member owns exactly two wallets: 'main' and 'commission'.
func ensureWalletsTable() {
	ctx := context.Background()
	var exists bool
	_ = Conn.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM information_schema.tables
            WHERE table_schema = 'public' AND table_name = 'wallets'
        )`).Scan(&exists)
	if exists {
		return
	}
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS wallets (
            id UUID PRIMARY KEY,
            member_id UUID NOT NULL REFERENCES members(id) ON DELETE CASCADE,
            type TEXT NOT NULL CHECK (type IN ('main','commission')),
            balance BIGINT NOT NULL DEFAULT 0 CHECK (balance >= 0),
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            UNIQUE (member_id, type)
        )
    `)
	if err != nil {
		log.Printf("failed to create wallets table: %v", err)
	}
}

// ensureTransactionsTable creates the append-only ledger table if it doesn't exist
func ensureTransactionsTable() {
	ctx := context.Background()
	var exists bool
	_ = Conn.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM information_schema.tables
            WHERE table_schema = 'public' AND table_name = 'transactions'
        )`).Scan(&exists)
	if exists {
		return
	}
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS transactions (
            id UUID PRIMARY KEY,
            member_id UUID NOT NULL REFERENCES members(id) ON DELETE CASCADE,
            wallet_type TEXT NOT NULL CHECK (wallet_type IN ('main','commission')),
            type TEXT NOT NULL CHECK (type IN ('deposit','purchase','commission','withdrawal')),
            amount BIGINT NOT NULL CHECK (amount > 0),
            balance_before BIGINT NOT NULL,
            balance_after BIGINT NOT NULL,
            description TEXT,
            related_member_id UUID NULL REFERENCES members(id),
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
        CREATE INDEX IF NOT EXISTS idx_transactions_member_created ON transactions(member_id, created_at);
        CREATE INDEX IF NOT EXISTS idx_transactions_member_type ON transactions(member_id, type);
    `)
	if err != nil {
		log.Printf("failed to create transactions table: %v", err)
	}
}

// ensureTreeNodesTable creates the genealogy tree table if it doesn't exist.
// sponsor_id here is the tree parent, which can differ from the recruiting
// sponsor on members once spillover placement kicks in.
func ensureTreeNodesTable() {
	ctx := context.Background()
	var exists bool
	_ = Conn.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM information_schema.tables
            WHERE table_schema = 'public' AND table_name = 'tree_nodes'
        )`).Scan(&exists)
	if exists {
		return
	}
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS tree_nodes (
            member_id UUID PRIMARY KEY REFERENCES members(id) ON DELETE CASCADE,
            sponsor_id UUID NULL REFERENCES tree_nodes(member_id),
            position TEXT NOT NULL CHECK (position IN ('root','left','right')),
            depth INTEGER NOT NULL CHECK (depth >= 0),
            left_child_id UUID NULL REFERENCES tree_nodes(member_id),
            right_child_id UUID NULL REFERENCES tree_nodes(member_id),
            left_leg_volume BIGINT NOT NULL DEFAULT 0 CHECK (left_leg_volume >= 0),
            right_leg_volume BIGINT NOT NULL DEFAULT 0 CHECK (right_leg_volume >= 0),
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            UNIQUE (sponsor_id, position)
        );
        CREATE INDEX IF NOT EXISTS idx_tree_nodes_sponsor ON tree_nodes(sponsor_id);
    `)
	if err != nil {
		log.Printf("failed to create tree_nodes table: %v", err)
	}
}
