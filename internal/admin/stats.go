package admin

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/obinnaso/pairline/internal/db"
)

// GET /admin/stats
func Stats(c echo.Context) error {
	ctx := context.Background()

	var members, placed, packages, transactions int
	var commissionsPaid int64

	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM members`).Scan(&members)
	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM tree_nodes`).Scan(&placed)
	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM packages WHERE is_active`).Scan(&packages)
	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&transactions)
	_ = db.Conn.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE type = 'commission'`).Scan(&commissionsPaid)

	return c.JSON(http.StatusOK, echo.Map{
		"members":          members,
		"placed_members":   placed,
		"active_packages":  packages,
		"transactions":     transactions,
		"commissions_paid": commissionsPaid,
	})
}
