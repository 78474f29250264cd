package genealogy

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/obinnaso/pairline/internal/logging"
)

var eng *Engine

// Init wires the package-level engine used by the HTTP handlers and the
// registration flow. Call once at startup after the store is ready.
func Init(store Store) {
	eng = NewEngine(store, logging.L())
}

// Place exposes tree placement to the registration flow.
func Place(ctx context.Context, memberID, sponsorID string, explicit Position) (TreeNode, error) {
	return eng.Place(ctx, memberID, sponsorID, explicit)
}

// PlaceRoot places the first member (no sponsor) as the tree root.
func PlaceRoot(ctx context.Context, memberID string) (TreeNode, error) {
	return eng.PlaceRoot(ctx, memberID)
}

// TreeHandler returns the authenticated member's subtree with member info
func TreeHandler(c echo.Context) error {
	uid, ok := c.Get("member_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	depth := 0
	if raw := c.QueryParam("depth"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid depth"})
		}
		depth = parsed
	}

	tree, err := eng.Tree(c.Request().Context(), uid, depth)
	if err != nil {
		return treeQueryError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"tree": tree})
}

// DownlineHandler returns all descendants of the authenticated member
func DownlineHandler(c echo.Context) error {
	uid, ok := c.Get("member_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	depth := 0
	if raw := c.QueryParam("depth"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid depth"})
		}
		depth = parsed
	}

	downline, err := eng.Downline(c.Request().Context(), uid, depth)
	if err != nil {
		return treeQueryError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"downline": downline})
}

// UplineHandler returns the ancestors of the authenticated member up to the root
func UplineHandler(c echo.Context) error {
	uid, ok := c.Get("member_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	upline, err := eng.Upline(c.Request().Context(), uid)
	if err != nil {
		return treeQueryError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"upline": upline})
}

func treeQueryError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, ErrMemberNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "member not found"})
	case errors.Is(err, ErrNodeNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "member not in tree"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load genealogy"})
	}
}
