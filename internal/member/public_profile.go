package member

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/obinnaso/pairline/internal/db"
)

// GET /members/:id/profile
func GetPublicProfile(c echo.Context) error {
	memberID := c.Param("id")
	if memberID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing member id"})
	}

	var (
		id        string
		username  string
		status    string
		createdAt time.Time
	)

	query := `
		SELECT id, username, status, created_at
		FROM members
		WHERE id = $1
	`

	err := db.Conn.QueryRow(context.Background(), query, memberID).Scan(
		&id,
		&username,
		&status,
		&createdAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "member not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch member"})
	}

	profile := echo.Map{
		"id":         id,
		"username":   username,
		"status":     status,
		"created_at": createdAt.Format(time.RFC3339),
	}

	return c.JSON(http.StatusOK, profile)
}
