package auth

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/obinnaso/pairline/internal/db"
	"github.com/obinnaso/pairline/internal/genealogy"
)

type SignupRequest struct {
	Username  string `json:"username" validate:"required,min=3"`
	Password  string `json:"password" validate:"required,min=6"`
	SponsorID string `json:"sponsor_id,omitempty"`
	Position  string `json:"position,omitempty"` // optional: left or right under the sponsor
}

type SignupResponse struct {
	Token    string `json:"token"`
	MemberID string `json:"member_id"`
}

// ===== Signup =====
// Registers a member, opens both wallets, and places the member in the
// genealogy tree (direct slot or spillover). The first member may sign up
// without a sponsor and becomes the tree root.
func Signup(c echo.Context) error {
	req := new(SignupRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if len(req.Username) < 3 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username must be at least 3 characters"})
	}
	if strings.TrimSpace(req.Password) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password cannot be empty"})
	}
	if len(req.Password) < 6 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 6 characters"})
	}

	var explicit genealogy.Position
	switch req.Position {
	case "":
	case "left":
		explicit = genealogy.PositionLeft
	case "right":
		explicit = genealogy.PositionRight
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "position must be left or right"})
	}

	conn := db.Conn
	ctx := context.Background()

	// Validate the sponsor before creating anything. Registering without a
	// sponsor is only allowed while the tree has no root.
	if req.SponsorID == "" {
		var rootExists bool
		if err := conn.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM tree_nodes WHERE sponsor_id IS NULL)`).Scan(&rootExists); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error"})
		}
		if rootExists {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "sponsor_id is required"})
		}
	}
	if req.SponsorID != "" {
		var sponsorExists bool
		if err := conn.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM members WHERE id = $1)`, req.SponsorID).Scan(&sponsorExists); err != nil || !sponsorExists {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "sponsor not found"})
		}
		var sponsorPlaced bool
		if err := conn.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM tree_nodes WHERE member_id = $1)`, req.SponsorID).Scan(&sponsorPlaced); err != nil || !sponsorPlaced {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "sponsor not in genealogy tree"})
		}
	}

	// Hash password
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error"})
	}

	tx, err := conn.Begin(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db transaction error"})
	}
	defer tx.Rollback(ctx)

	var memberID string
	err = tx.QueryRow(ctx, `
		INSERT INTO members (id, username, password, status, role, sponsor_id)
		VALUES ($1, $2, $3, 'active', 'member', $4)
		RETURNING id
	`, uuid.New().String(), req.Username, string(hashed), nullableID(req.SponsorID)).Scan(&memberID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username already exists"})
	}

	// Open both wallets with zero balance
	now := time.Now()
	for _, wtype := range []string{"main", "commission"} {
		_, err = tx.Exec(ctx, `
			INSERT INTO wallets (id, member_id, type, balance, created_at)
			VALUES ($1, $2, $3, 0, $4)
		`, uuid.New().String(), memberID, wtype, now)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "wallet creation failed"})
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transaction failed"})
	}

	// Place in the genealogy tree
	if req.SponsorID == "" {
		_, err = genealogy.PlaceRoot(ctx, memberID)
	} else {
		_, err = genealogy.Place(ctx, memberID, req.SponsorID, explicit)
	}
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	// JWT with member_id
	claims := jwt.MapClaims{
		"member_id": memberID,
		"role":      "member",
		"exp":       time.Now().Add(72 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token generation failed"})
	}

	return c.JSON(http.StatusOK, SignupResponse{Token: signed, MemberID: memberID})
}

func nullableID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}
