package auth

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/obinnaso/pairline/internal/db"
)

// Me returns the currently authenticated member's profile
func Me(c echo.Context) error {
	uid, ok := c.Get("member_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var (
		id, username, status, role  string
		email, sponsorID, packageID *string
	)
	err := db.Conn.QueryRow(context.Background(),
		`SELECT id, username, email, status, role, sponsor_id, active_package_id
		 FROM members WHERE id = $1`, uid).
		Scan(&id, &username, &email, &status, &role, &sponsorID, &packageID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "member not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"id":                id,
		"username":          username,
		"email":             email,
		"status":            status,
		"role":              role,
		"sponsor_id":        sponsorID,
		"active_package_id": packageID,
	})
}
