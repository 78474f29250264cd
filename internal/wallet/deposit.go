package wallet

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/obinnaso/pairline/internal/db"
)

type DepositRequest struct {
	Amount int64 `json:"amount" validate:"required,min=1"`
}

// Deposit credits the authenticated member's main wallet and records the
// ledger row in the same database transaction
func Deposit(c echo.Context) error {
	uid, ok := c.Get("member_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	req := new(DepositRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Amount <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "deposit amount must be positive"})
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
		`SELECT id, balance FROM wallets WHERE member_id = $1 AND type = 'main' FOR UPDATE`,
		uid).Scan(&walletID, &balance)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "main wallet not found"})
	}

	newBalance := balance + req.Amount
	_, err = tx.Exec(ctx, `UPDATE wallets SET balance = $1 WHERE id = $2`, newBalance, walletID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update balance"})
	}

	txID := uuid.New().String()
	_, err = tx.Exec(ctx,
		`INSERT INTO transactions (id, member_id, wallet_type, type, amount, balance_before, balance_after, description, created_at)
		 VALUES ($1, $2, 'main', 'deposit', $3, $4, $5, $6, $7)`,
		txID, uid, req.Amount, balance, newBalance, fmt.Sprintf("Deposit of %d", req.Amount), time.Now(),
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not record transaction"})
	}

	if err = tx.Commit(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not finalize deposit"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"transaction_id": txID,
		"amount":         req.Amount,
		"balance":        newBalance,
		"message":        "Deposit successful",
	})
}
