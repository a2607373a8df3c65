package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/oksasatya/employee-management-api/config"
	pginfra "github.com/oksasatya/employee-management-api/internal/infrastructure/postgres"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := pginfra.SeedEmployees(ctx, db, pginfra.DemoEmployees)
	if err != nil {
		log.Fatalf("failed to seed employees: %v", err)
	}
	fmt.Printf("seeded %d of %d demo employees\n", n, len(pginfra.DemoEmployees))
}
