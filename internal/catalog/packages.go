package catalog

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/obinnaso/pairline/internal/db"
)

// ListPackages returns all active packages, cheapest first.
func ListPackages(c echo.Context) error {
	rows, err := db.Conn.Query(context.Background(),
		`SELECT id, name, price, commission_rate, COALESCE(description, ''), is_active
		 FROM packages WHERE is_active = true ORDER BY price ASC`)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load packages"})
	}
	defer rows.Close()

	packages := []Package{}
	for rows.Next() {
		var p Package
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.CommissionRate, &p.Description, &p.IsActive); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to read package"})
		}
		packages = append(packages, p)
	}

	return c.JSON(http.StatusOK, echo.Map{"packages": packages})
}

// ActivePackage returns the caller's currently active package, if any.
func ActivePackage(c echo.Context) error {
	memberID, ok := c.Get("member_id").(string)
	if !ok || memberID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var p Package
	err := db.Conn.QueryRow(context.Background(),
		`SELECT p.id, p.name, p.price, p.commission_rate, COALESCE(p.description, ''), p.is_active
		 FROM members m JOIN packages p ON p.id = m.active_package_id
		 WHERE m.id = $1`, memberID).
		Scan(&p.ID, &p.Name, &p.Price, &p.CommissionRate, &p.Description, &p.IsActive)
	if err != nil {
		return c.JSON(http.StatusOK, echo.Map{"package": nil})
	}

	return c.JSON(http.StatusOK, echo.Map{"package": p})
}
