package wallet

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/obinnaso/pairline/internal/db"
)

// Balances returns both of the authenticated member's wallet balances
func Balances(c echo.Context) error {
	uid, ok := c.Get("member_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	rows, err := db.Conn.Query(context.Background(),
		`SELECT type, balance FROM wallets WHERE member_id = $1`, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch wallets"})
	}
	defer rows.Close()

	balances := echo.Map{}
	count := 0
	for rows.Next() {
		var wtype string
		var balance int64
		if err := rows.Scan(&wtype, &balance); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "scan error"})
		}
		balances[wtype] = balance
		count++
	}
	if count != 2 {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "wallets not properly initialized"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"member_id": uid,
		"balances":  balances,
	})
}
