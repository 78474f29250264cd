package wallet

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/obinnaso/pairline/internal/db"
)

// GetTransactions returns the authenticated member's ledger, newest first.
// Optional query filters: wallet_type (main|commission), type
// (deposit|purchase|commission|withdrawal), start and end (RFC 3339).
func GetTransactions(c echo.Context) error {
	uid, ok := c.Get("member_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	query := `SELECT id, wallet_type, type, amount, balance_before, balance_after, description, related_member_id, created_at
	          FROM transactions WHERE member_id = $1`
	args := []interface{}{uid}

	if wtype := c.QueryParam("wallet_type"); wtype != "" {
		if wtype != "main" && wtype != "commission" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid wallet_type"})
		}
		args = append(args, wtype)
		query += ` AND wallet_type = $` + strconv.Itoa(len(args))
	}
	if ttype := c.QueryParam("type"); ttype != "" {
		switch ttype {
		case "deposit", "purchase", "commission", "withdrawal":
		default:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid type"})
		}
		args = append(args, ttype)
		query += ` AND type = $` + strconv.Itoa(len(args))
	}
	if start := c.QueryParam("start"); start != "" {
		ts, err := time.Parse(time.RFC3339, start)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start time"})
		}
		args = append(args, ts)
		query += ` AND created_at >= $` + strconv.Itoa(len(args))
	}
	if end := c.QueryParam("end"); end != "" {
		ts, err := time.Parse(time.RFC3339, end)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end time"})
		}
		args = append(args, ts)
		query += ` AND created_at <= $` + strconv.Itoa(len(args))
	}

	query += ` ORDER BY created_at DESC`

	rows, err := db.Conn.Query(context.Background(), query, args...)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch transactions"})
	}
	defer rows.Close()

	var txs []Transaction
	for rows.Next() {
		var t Transaction
		var desc *string
		if err := rows.Scan(&t.ID, &t.WalletType, &t.Type, &t.Amount, &t.BalanceBefore, &t.BalanceAfter, &desc, &t.RelatedMemberID, &t.CreatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "scan error"})
		}
		if desc != nil {
			t.Description = *desc
		}
		txs = append(txs, t)
	}

	return c.JSON(http.StatusOK, echo.Map{"transactions": txs})
}
