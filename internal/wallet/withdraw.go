package wallet

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/obinnaso/pairline/internal/db"
)

type WithdrawRequest struct {
	Amount int64 `json:"amount" validate:"required,min=1"`
}

// Withdraw debits the authenticated member's commission wallet.
// Commission earnings are the only withdrawable balance.
func Withdraw(c echo.Context) error {
	uid, ok := c.Get("member_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	req := new(WithdrawRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Amount <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "withdrawal amount must be positive"})
	}

	// Optional configured floor, in minor units
	if raw := os.Getenv("MIN_WITHDRAWAL"); raw != "" {
		if minAmount, err := strconv.ParseInt(raw, 10, 64); err == nil && req.Amount < minAmount {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": fmt.Sprintf("withdrawal amount must be at least %d", minAmount),
			})
		}
	}

	ctx := context.Background()

	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not start transaction"})
	}
	defer tx.Rollback(ctx)

	var walletID string
	var balance int64
	err = tx.QueryRow(ctx,
		`SELECT id, balance FROM wallets WHERE member_id = $1 AND type = 'commission' FOR UPDATE`,
		uid).Scan(&walletID, &balance)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "commission wallet not found"})
	}

	if req.Amount > balance {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "insufficient balance for withdrawal"})
	}

	newBalance := balance - req.Amount
	_, err = tx.Exec(ctx, `UPDATE wallets SET balance = $1 WHERE id = $2`, newBalance, walletID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update balance"})
	}

	txID := uuid.New().String()
	_, err = tx.Exec(ctx,
		`INSERT INTO transactions (id, member_id, wallet_type, type, amount, balance_before, balance_after, description, created_at)
		 VALUES ($1, $2, 'commission', 'withdrawal', $3, $4, $5, $6, $7)`,
		txID, uid, req.Amount, balance, newBalance, fmt.Sprintf("Withdrawal of %d", req.Amount), time.Now(),
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not record transaction"})
	}

	if err = tx.Commit(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not finalize withdrawal"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"transaction_id": txID,
		"amount":         req.Amount,
		"balance":        newBalance,
		"message":        "Withdrawal successful",
	})
}
