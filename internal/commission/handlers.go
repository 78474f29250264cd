package commission

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/obinnaso/pairline/internal/db"
	"github.com/obinnaso/pairline/internal/genealogy"
	"github.com/obinnaso/pairline/internal/logging"
)

var eng *Engine

// Init wires the package-level engine used by the HTTP handlers and the
// purchase flow. Call once at startup after the store is ready.
func Init(store Store) {
	eng = NewEngine(store, logging.L())
}

// Distribute exposes the distribution walk to the purchase flow.
func Distribute(ctx context.Context, purchaserID string, packageAmount int64, packageID string) ([]CommissionResult, error) {
	return eng.Distribute(ctx, purchaserID, packageAmount, packageID)
}

// LegVolumesHandler returns the authenticated member's current leg volumes
func LegVolumesHandler(c echo.Context) error {
	uid, ok := c.Get("member_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	left, right, err := eng.LegVolumes(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "member not in tree"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"left_leg_volume":  left,
		"right_leg_volume": right,
	})
}

// HistoryHandler returns the authenticated member's commission payouts,
// newest first
func HistoryHandler(c echo.Context) error {
	uid, ok := c.Get("member_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	rows, err := db.Conn.Query(context.Background(),
		`SELECT id, amount, balance_before, balance_after, description, related_member_id, created_at
		 FROM transactions
		 WHERE member_id = $1 AND type = 'commission'
		 ORDER BY created_at DESC`,
		uid,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch commission history"})
	}
	defer rows.Close()

	type entry struct {
		ID              string    `json:"id"`
		Amount          int64     `json:"amount"`
		BalanceBefore   int64     `json:"balance_before"`
		BalanceAfter    int64     `json:"balance_after"`
		Description     string    `json:"description,omitempty"`
		RelatedMemberID *string   `json:"related_member_id,omitempty"`
		CreatedAt       time.Time `json:"created_at"`
	}

	var history []entry
	for rows.Next() {
		var e entry
		var desc *string
		if err := rows.Scan(&e.ID, &e.Amount, &e.BalanceBefore, &e.BalanceAfter, &desc, &e.RelatedMemberID, &e.CreatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "scan error"})
		}
		if desc != nil {
			e.Description = *desc
		}
		history = append(history, e)
	}

	return c.JSON(http.StatusOK, echo.Map{"history": history})
}

// SummaryHandler returns total commissions earned and current leg volumes
func SummaryHandler(c echo.Context) error {
	uid, ok := c.Get("member_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var totalEarned int64
	var payoutCount int64
	err := db.Conn.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(amount), 0), COUNT(*)
		 FROM transactions
		 WHERE member_id = $1 AND type = 'commission'`,
		uid,
	).Scan(&totalEarned, &payoutCount)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not compute summary"})
	}

	left, right, err := eng.LegVolumes(c.Request().Context(), uid)
	if err != nil && !errors.Is(err, genealogy.ErrNodeNotFound) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load leg volumes"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"total_earned":     totalEarned,
		"payout_count":     payoutCount,
		"left_leg_volume":  left,
		"right_leg_volume": right,
	})
}
