package member

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/obinnaso/pairline/internal/db"
)

type UpdateProfileRequest struct {
	Email string `json:"email"`
}

// PATCH /me/profile
func UpdateProfile(c echo.Context) error {
	memberIDVal := c.Get("member_id")
	memberID, ok := memberIDVal.(string)
	if !ok || memberID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or missing token"})
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	query := `
		UPDATE members
		SET email = COALESCE(NULLIF($1, ''), email)
		WHERE id = $2
	`
	_, err := db.Conn.Exec(c.Request().Context(), query, req.Email, memberID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update profile"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "profile updated successfully",
	})
}
