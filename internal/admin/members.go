package admin

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/obinnaso/pairline/internal/db"
)

type AdminMember struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	Email           *string   `json:"email"`
	Role            string    `json:"role"`
	Status          string    `json:"status"`
	SponsorID       *string   `json:"sponsor_id"`
	ActivePackageID *string   `json:"active_package_id"`
	CreatedAt       time.Time `json:"created_at"`
}

// GET /admin/members
func ListMembers(c echo.Context) error {
	rows, err := db.Conn.Query(context.Background(),
		`SELECT id, username, email, role, status, sponsor_id, active_package_id, created_at
		 FROM members ORDER BY created_at DESC`,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch members"})
	}
	defer rows.Close()

	var members []AdminMember
	for rows.Next() {
		var m AdminMember
		if err := rows.Scan(&m.ID, &m.Username, &m.Email, &m.Role, &m.Status, &m.SponsorID, &m.ActivePackageID, &m.CreatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to read member record"})
		}
		members = append(members, m)
	}
	return c.JSON(http.StatusOK, echo.Map{"members": members})
}

// POST /admin/members/:id/suspend
func SuspendMember(c echo.Context) error {
	memberID := c.Param("id")
	if memberID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "member id required"})
	}
	_, err := db.Conn.Exec(context.Background(),
		`UPDATE members SET status = 'suspended' WHERE id = $1`, memberID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to suspend member"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "member suspended", "member_id": memberID})
}

// POST /admin/members/:id/activate
func ActivateMember(c echo.Context) error {
	memberID := c.Param("id")
	if memberID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "member id required"})
	}
	_, err := db.Conn.Exec(context.Background(),
		`UPDATE members SET status = 'active' WHERE id = $1`, memberID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to activate member"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "member activated", "member_id": memberID})
}
