// Package main is the entry point for the recipebook admin CLI.
// It installs reference data and creates administrator accounts.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/prn-tf/recipebook/internal/config"
	"github.com/prn-tf/recipebook/internal/logging"
	"github.com/prn-tf/recipebook/internal/pkg/crypto"
	"github.com/prn-tf/recipebook/internal/pkg/password"
	"github.com/prn-tf/recipebook/internal/repository/sqlstore"
	"github.com/prn-tf/recipebook/internal/seed"
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

	var err error
	switch command {
	case "version":
		fmt.Printf("recipebook admin CLI\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Build Time: %s\n", BuildTime)
		fmt.Printf("Git Commit: %s\n", GitCommit)

	case "seed":
		err = runSeed(os.Args[2:])

	case "create-admin":
		err = runCreateAdmin(os.Args[2:])

	case "gen-secret":
		var secret string
		if secret, err = crypto.GenerateTokenSecret(); err == nil {
			fmt.Println(secret)
		}

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "recipebook-admin %s: %v\n", command, err)
		os.Exit(1)
	}
}

func runSeed(args []string) error {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	configPath := fs.String("config", "", "path to the configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	env, err := open(*configPath)
	if err != nil {
		return err
	}
	defer env.close()

	created, err := seed.Reference(env.ctx, env.store, env.logger)
	if err != nil {
		return err
	}
	fmt.Printf("Reference data ready (%d rows created)\n", created)
	return nil
}

func runCreateAdmin(args []string) error {
	fs := flag.NewFlagSet("create-admin", flag.ExitOnError)
	configPath := fs.String("config", "", "path to the configuration file")
	in := seed.AdminInput{}
	fs.StringVar(&in.Name, "name", "", "display name")
	fs.StringVar(&in.Username, "username", "", "login name")
	fs.StringVar(&in.Email, "email", "", "email address")
	fs.StringVar(&in.AccountName, "account", "", "account to create or join")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if in.Name == "" || in.Username == "" || in.Email == "" || in.AccountName == "" {
		return errors.New("-name, -username, -email and -account are required")
	}

	in.Password = os.Getenv("RECIPEBOOK_ADMIN_PASSWORD")
	generated := in.Password == ""
	if generated {
		var err error
		if in.Password, err = crypto.GeneratePassword(20); err != nil {
			return err
		}
	}

	env, err := open(*configPath)
	if err != nil {
		return err
	}
	defer env.close()

	if _, err := seed.Reference(env.ctx, env.store, env.logger); err != nil {
		return err
	}
	user, err := seed.Admin(env.ctx, env.store, password.NewHasherFromConfig(env.cfg.Auth), in, env.logger)
	if err != nil {
		return err
	}
	fmt.Printf("Administrator %q created (id %d)\n", user.Username(), user.ID())
	if generated {
		fmt.Printf("Generated password: %s\n", in.Password)
	}
	return nil
}

// environment holds the resources shared by the database commands.
type environment struct {
	ctx    context.Context
	cancel context.CancelFunc
	cfg    *config.Config
	store  *sqlstore.Store
	logger zerolog.Logger
	closer func()
}

func open(configPath string) (*environment, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger, logCloser, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	db, err := sqlstore.Open(ctx, cfg.Database, logger)
	if err != nil {
		cancel()
		_ = logCloser.Close()
		return nil, err
	}
	if _, err := db.Migrate(ctx); err != nil {
		cancel()
		_ = db.Close()
		_ = logCloser.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	store := sqlstore.NewStore(db)
	return &environment{
		ctx:    ctx,
		cancel: cancel,
		cfg:    cfg,
		store:  store,
		logger: logger,
		closer: func() { _ = store.Close(); _ = logCloser.Close() },
	}, nil
}

func (e *environment) close() {
	e.cancel()
	e.closer()
}

func printUsage() {
	fmt.Println(`recipebook admin CLI

Usage:
  recipebook-admin <command> [arguments]

Commands:
  seed           Install the default roles, difficulties, category and ingredient types
  create-admin   Create an approved administrator (password from RECIPEBOOK_ADMIN_PASSWORD, generated when unset)
  gen-secret     Print a random value for auth.token_secret
  version        Print version information
  help           Show this help message

Examples:
  recipebook-admin seed -config ./configs/config.yaml
  RECIPEBOOK_ADMIN_PASSWORD=... recipebook-admin create-admin \
      -name "Ana Souza" -username ana -email ana@example.com -account "Cozinha da Ana"`)
}
