package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/obinnaso/pairline/internal/admin"
	"github.com/obinnaso/pairline/internal/auth"
	"github.com/obinnaso/pairline/internal/catalog"
	"github.com/obinnaso/pairline/internal/commission"
	"github.com/obinnaso/pairline/internal/db"
	"github.com/obinnaso/pairline/internal/genealogy"
	"github.com/obinnaso/pairline/internal/logging"
	"github.com/obinnaso/pairline/internal/member"
	mware "github.com/obinnaso/pairline/internal/middleware"
	"github.com/obinnaso/pairline/internal/storage"
	"github.com/obinnaso/pairline/internal/wallet"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	logging.InitLogger(os.Getenv("APP_ENV") == "production")

	// Initialize database connection
	db.Init()

	// Engines share the Postgres-backed store
	store := storage.NewPostgres(db.Conn)
	genealogy.Init(store)
	commission.Init(store)

	e := echo.New()

	// Basic middleware
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())

	// Health and root routes
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok", "service": "pairline"})
	})
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/ready", func(c echo.Context) error {
		if db.Conn == nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "not_ready", "error": "db not initialized"})
		}
		if err := db.Conn.Ping(context.Background()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "not_ready", "error": "db unreachable"})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ready"})
	})

	// Public routes
	// Auth routes with per-IP rate limiting to protect signup/login from abuse
	authGroup := e.Group("/auth")
	authGroup.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(20)))
	authGroup.POST("/signup", auth.Signup)
	authGroup.POST("/login", auth.Login)

	e.GET("/members/:id/profile", member.GetPublicProfile)
	e.GET("/packages", catalog.ListPackages)

	// Protected routes
	api := e.Group("")
	api.Use(mware.JWTMiddleware)

	api.GET("/auth/me", auth.Me)
	api.PATCH("/me/profile", member.UpdateProfile)

	api.GET("/wallet/balances", wallet.Balances)
	api.GET("/wallet/transactions", wallet.GetTransactions)
	api.POST("/wallet/deposit", wallet.Deposit)
	api.POST("/wallet/withdraw", wallet.Withdraw)

	api.GET("/packages/active", catalog.ActivePackage)
	api.POST("/packages/purchase", catalog.Purchase)

	api.GET("/genealogy/tree", genealogy.TreeHandler)
	api.GET("/genealogy/downline", genealogy.DownlineHandler)
	api.GET("/genealogy/upline", genealogy.UplineHandler)

	api.GET("/commissions/leg-volumes", commission.LegVolumesHandler)
	api.GET("/commissions/history", commission.HistoryHandler)
	api.GET("/commissions/summary", commission.SummaryHandler)

	// Admin routes
	adminGroup := e.Group("/admin")
	adminGroup.Use(mware.JWTMiddleware)
	adminGroup.Use(mware.AdminGuard)

	adminGroup.GET("/stats", admin.Stats)
	adminGroup.GET("/members", admin.ListMembers)
	adminGroup.POST("/members/:id/suspend", admin.SuspendMember)
	adminGroup.POST("/members/:id/activate", admin.ActivateMember)
	adminGroup.GET("/transactions", admin.ListTransactions)
	adminGroup.POST("/packages", admin.CreatePackage)
	adminGroup.POST("/packages/:id/deactivate", admin.DeactivatePackage)
	adminGroup.POST("/packages/:id/activate", admin.ActivatePackage)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := e.Start(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
