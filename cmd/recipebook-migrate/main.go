// Package main is the entry point for the recipebook database migration tool.
// It applies the embedded schema migrations for SQLite and PostgreSQL.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"

	"github.com/prn-tf/recipebook/internal/config"
	"github.com/prn-tf/recipebook/internal/logging"
	"github.com/prn-tf/recipebook/internal/repository/sqlstore"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version":
		fmt.Printf("recipebook migration tool\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Build Time: %s\n", BuildTime)
		fmt.Printf("Git Commit: %s\n", GitCommit)

	case "up", "status", "current":
		if err := runDB(command, os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "recipebook-migrate %s: %v\n", command, err)
			os.Exit(1)
		}

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runDB(command string, args []string) error {
	fs := flag.NewFlagSet(command, flag.ExitOnError)
	configPath := fs.String("config", "", "path to the configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	logger, closer, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := sqlstore.Open(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	switch command {
	case "up":
		return up(ctx, db, logger)
	case "status":
		return status(ctx, db)
	default:
		v, err := db.Version(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Current version: %d\n", v)
		return nil
	}
}

func up(ctx context.Context, db *sqlstore.DB, logger zerolog.Logger) error {
	applied, err := db.Migrate(ctx)
	if err != nil {
		return err
	}
	v, err := db.Version(ctx)
	if err != nil {
		return err
	}
	logger.Info().Int("applied", applied).Int("version", v).Str("driver", db.Driver()).Msg("migrations complete")
	return nil
}

func status(ctx context.Context, db *sqlstore.DB) error {
	migrations, err := db.Status(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "VERSION\tNAME\tAPPLIED AT")
	for _, m := range migrations {
		applied := "pending"
		if !m.AppliedAt.IsZero() {
			applied = m.AppliedAt.Format(time.RFC3339)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\n", m.Version, m.Name, applied)
	}
	return w.Flush()
}

func printUsage() {
	fmt.Println(`recipebook migration tool

Usage:
  recipebook-migrate <command> [-config path]

Commands:
  up          Apply all pending migrations
  status      List migrations and when they were applied
  current     Print the current schema version
  version     Print version information
  help        Show this help message

Environment Variables:
  RECIPEBOOK_DATABASE_DRIVER   sqlite or postgres
  RECIPEBOOK_DATABASE_PATH     SQLite database file
  RECIPEBOOK_DATABASE_HOST     PostgreSQL host

Examples:
  recipebook-migrate up -config ./configs/config.yaml
  recipebook-migrate status
  recipebook-migrate current`)
}
