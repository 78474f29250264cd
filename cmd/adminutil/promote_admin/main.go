package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/obinnaso/pairline/internal/db"
)

func main() {
	username := flag.String("username", "", "Username of the member to promote to admin")
	flag.Parse()

	if *username == "" {
		log.Fatalf("usage: go run cmd/adminutil/promote_admin/main.go -username alice")
	}

	_ = godotenv.Load()

	// Initialize DB from environment variables
	db.Init()

	ct, err := db.Conn.Exec(context.Background(),
		`UPDATE members SET role = 'admin' WHERE username = $1`, *username)
	if err != nil {
		log.Fatalf("failed to promote member to admin: %v", err)
	}

	if ct.RowsAffected() == 0 {
		log.Fatalf("no member found with username: %s", *username)
	}

	fmt.Printf("Member %s promoted to admin.\n", *username)
}
