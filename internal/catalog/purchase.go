package catalog

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/obinnaso/pairline/internal/commission"
	"github.com/obinnaso/pairline/internal/db"
	"github.com/obinnaso/pairline/internal/logging"
)

type purchaseRequest struct {
	PackageID string `json:"package_id"`
}

// Purchase buys a package with the main wallet and upgrades the member's
// active package. Commission distribution runs after the purchase commits
// and never fails the purchase itself.
func Purchase(c echo.Context) error {
	memberID, ok := c.Get("member_id").(string)
	if !ok || memberID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req purchaseRequest
	if err := c.Bind(&req); err != nil || req.PackageID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "package_id is required"})
	}

	ctx := context.Background()

	var pkg Package
	err := db.Conn.QueryRow(ctx,
		`SELECT id, name, price, commission_rate, COALESCE(description, ''), is_active
		 FROM packages WHERE id = $1`, req.PackageID).
		Scan(&pkg.ID, &pkg.Name, &pkg.Price, &pkg.CommissionRate, &pkg.Description, &pkg.IsActive)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "package not found"})
	}
	if !pkg.IsActive {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "package is not available"})
	}

	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start purchase"})
	}
	defer tx.Rollback(ctx)

	var walletID string
	var balance int64
	err = tx.QueryRow(ctx,
		`SELECT id, balance FROM wallets WHERE member_id = $1 AND type = 'main' FOR UPDATE`,
		memberID).Scan(&walletID, &balance)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "wallet not found"})
	}

	if balance < pkg.Price {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "insufficient balance"})
	}

	newBalance := balance - pkg.Price
	_, err = tx.Exec(ctx, `UPDATE wallets SET balance = $1 WHERE id = $2`,
		newBalance, walletID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to debit wallet"})
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO transactions (id, member_id, wallet_type, type, amount, balance_before, balance_after, description)
		 VALUES ($1, $2, 'main', 'purchase', $3, $4, $5, $6)`,
		uuid.New().String(), memberID, pkg.Price, balance, newBalance,
		"Purchase of package "+pkg.Name)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to record purchase"})
	}

	_, err = tx.Exec(ctx, `UPDATE members SET active_package_id = $1 WHERE id = $2`,
		pkg.ID, memberID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to activate package"})
	}

	if err := tx.Commit(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to complete purchase"})
	}

	results, err := commission.Distribute(ctx, memberID, pkg.Price, pkg.ID)
	if err != nil {
		logging.L().Warn("commission distribution failed after purchase",
			zap.String("member_id", memberID),
			zap.String("package_id", pkg.ID),
			zap.Error(err))
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":                 "package purchased",
		"package":                 pkg,
		"balance":                 newBalance,
		"commissions_distributed": len(results),
	})
}
