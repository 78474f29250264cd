package admin

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/obinnaso/pairline/internal/db"
)

type CreatePackageRequest struct {
	Name           string  `json:"name"`
	Price          int64   `json:"price"`
	CommissionRate float64 `json:"commission_rate"`
	Description    string  `json:"description"`
}

// POST /admin/packages
func CreatePackage(c echo.Context) error {
	var req CreatePackageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if req.Price <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price must be positive"})
	}
	if req.CommissionRate < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "commission_rate cannot be negative"})
	}

	id := uuid.New().String()
	_, err := db.Conn.Exec(context.Background(),
		`INSERT INTO packages (id, name, price, commission_rate, description, is_active)
		 VALUES ($1, $2, $3, $4, NULLIF($5, ''), TRUE)`,
		id, req.Name, req.Price, req.CommissionRate, req.Description)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "package name already exists"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "package created", "package_id": id})
}

// POST /admin/packages/:id/deactivate
func DeactivatePackage(c echo.Context) error {
	packageID := c.Param("id")
	if packageID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "package id required"})
	}
	_, err := db.Conn.Exec(context.Background(),
		`UPDATE packages SET is_active = FALSE WHERE id = $1`, packageID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to deactivate package"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "package deactivated", "package_id": packageID})
}

// POST /admin/packages/:id/activate
func ActivatePackage(c echo.Context) error {
	packageID := c.Param("id")
	if packageID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "package id required"})
	}
	_, err := db.Conn.Exec(context.Background(),
		`UPDATE packages SET is_active = TRUE WHERE id = $1`, packageID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to activate package"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "package activated", "package_id": packageID})
}
