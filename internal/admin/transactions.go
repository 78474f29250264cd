package admin

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/obinnaso/pairline/internal/db"
)

type AdminTransaction struct {
	ID              string    `json:"id"`
	MemberID        string    `json:"member_id"`
	WalletType      string    `json:"wallet_type"`
	Type            string    `json:"type"`
	Amount          int64     `json:"amount"`
	BalanceBefore   int64     `json:"balance_before"`
	BalanceAfter    int64     `json:"balance_after"`
	Description     *string   `json:"description"`
	RelatedMemberID *string   `json:"related_member_id"`
	CreatedAt       time.Time `json:"created_at"`
}

// GET /admin/transactions
func ListTransactions(c echo.Context) error {
	query := `SELECT id, member_id, wallet_type, type, amount, balance_before, balance_after, description, related_member_id, created_at
	          FROM transactions`
	args := []interface{}{}

	if txType := c.QueryParam("type"); txType != "" {
		args = append(args, txType)
		query += ` WHERE type = $1`
	}
	query += ` ORDER BY created_at DESC LIMIT 500`

	rows, err := db.Conn.Query(context.Background(), query, args...)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch transactions"})
	}
	defer rows.Close()

	var items []AdminTransaction
	for rows.Next() {
		var t AdminTransaction
		if err := rows.Scan(&t.ID, &t.MemberID, &t.WalletType, &t.Type, &t.Amount, &t.BalanceBefore, &t.BalanceAfter, &t.Description, &t.RelatedMemberID, &t.CreatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to read transaction record"})
		}
		items = append(items, t)
	}
	return c.JSON(http.StatusOK, echo.Map{"transactions": items})
}
