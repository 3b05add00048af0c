package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/oakmont-pd/patrol-roster/backend/internal/config"
	"github.com/oakmont-pd/patrol-roster/backend/internal/repository"
	"github.com/oakmont-pd/patrol-roster/backend/internal/roster"
	"github.com/oakmont-pd/patrol-roster/backend/internal/seed"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	flag.IntVar(&op, "op", 0, "operation to run (1: seed beats and patrol cars, 2: seed officers, 3: seed officers and sample shifts, 4: everything)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found", "error", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open does not dial; ping to verify the DSN before seeding
	if err := dbpool.PingContext(ctx); err != nil {
		slog.Error("failed to connect to the database", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, dbpool)
	rosterSvc := roster.NewService(repo)

	switch op {
	case 0:
		slog.Error("no operation given")
	case 1:
		seed.SeedDirectory(repo)
	case 2:
		seed.SeedOfficers(repo, cfg.Seed.OfficerPassword)
	case 3:
		officerIDs := seed.SeedOfficers(repo, cfg.Seed.OfficerPassword)
		seed.SeedShifts(rosterSvc, officerIDs)
	case 4:
		seed.SeedDirectory(repo)
		officerIDs := seed.SeedOfficers(repo, cfg.Seed.OfficerPassword)
		seed.SeedShifts(rosterSvc, officerIDs)
	default:
		slog.Error("unknown operation", "op", op)
	}
}
