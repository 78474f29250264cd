package main

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/obinnaso/pairline/internal/db"
)

type seedPackage struct {
	Name           string
	Price          int64
	CommissionRate float64
	Description    string
}

var seedPackages = []seedPackage{
	{"Starter", 10000, 10, "Entry tier"},
	{"Builder", 50000, 10, "Mid tier"},
	{"Leader", 200000, 12, "Top tier"},
}

func main() {
	_ = godotenv.Load()

	// Initialize DB from environment variables
	db.Init()

	ctx := context.Background()
	created := 0
	for _, p := range seedPackages {
		var exists bool
		if err := db.Conn.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM packages WHERE name = $1)`, p.Name).Scan(&exists); err != nil {
			log.Fatalf("failed to check package %s: %v", p.Name, err)
		}
		if exists {
			continue
		}
		_, err := db.Conn.Exec(ctx, `
			INSERT INTO packages (id, name, price, commission_rate, description, is_active)
			VALUES ($1, $2, $3, $4, $5, TRUE)
		`, uuid.New().String(), p.Name, p.Price, p.CommissionRate, p.Description)
		if err != nil {
			log.Fatalf("failed to insert package %s: %v", p.Name, err)
		}
		created++
	}

	fmt.Printf("Seeded %d package(s).\n", created)
}
