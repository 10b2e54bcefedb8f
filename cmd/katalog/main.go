package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/erazemk/katalog/internal/api"
	"github.com/erazemk/katalog/internal/auth"
	"github.com/erazemk/katalog/internal/config"
	"github.com/erazemk/katalog/internal/db"
	"github.com/erazemk/katalog/internal/logging"
	"github.com/erazemk/katalog/internal/model"
	"github.com/erazemk/katalog/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fs := flag.NewFlagSet("katalog", flag.ContinueOnError)
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "")
	fs.StringVar(&cfg.Addr, "a", cfg.Addr, "")
	fs.StringVar(&cfg.Log.File, "log", cfg.Log.File, "")
	fs.StringVar(&cfg.Log.File, "l", cfg.Log.File, "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: katalog [flags] [init]

Commands:
  init                    create the database and an admin account, then exit
  (none)                  serve the API, initialising the database if missing

Flags:
  -d, -db <path>          SQLite database path (env KATALOG_DB, default katalog.sqlite3)
  -a, -addr <host:port>   listen address (env KATALOG_ADDR, default :8080)
  -l, -log <path>         also write logs to this file (env LOG_FILE)
  -h, -help               show this help and exit

Other settings: KATALOG_JWT_SECRET, KATALOG_ADMIN_EMAIL, KATALOG_ADMIN_USERNAME,
KATALOG_MAX_IMAGE_BYTES, LOG_LEVEL, LOG_ENCODING. A .env file is read if present.
`)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(1)
	}

	cmd := fs.Arg(0)
	if fs.NArg() > 1 || (cmd != "" && cmd != "init") {
		fmt.Fprintf(os.Stderr, "unexpected argument: %s\n", fs.Arg(fs.NArg()-1))
		fs.Usage()
		os.Exit(1)
	}

	log, closeLog, err := logging.New(logging.Options{
		Level:    cfg.Log.Level,
		Encoding: cfg.Log.Encoding,
		File:     cfg.Log.File,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	if cmd == "init" {
		if err := runInit(cfg); err != nil {
			log.Error("init failed", zap.Error(err))
			closeLog()
			os.Exit(1)
		}
		return
	}

	if err := serve(cfg, log); err != nil {
		log.Error("server error", zap.Error(err))
		closeLog()
		os.Exit(1)
	}
}

// runInit creates a fresh database with an admin account. It refuses to
// touch an existing database file.
func runInit(cfg *config.Config) error {
	if _, err := os.Stat(cfg.DBPath); err == nil {
		return fmt.Errorf("database %s already exists", cfg.DBPath)
	}

	database, password, err := initDatabase(cfg)
	if err != nil {
		return err
	}
	database.Close()

	printInitResult(cfg, password)
	return nil
}

func serve(cfg *config.Config, log *zap.Logger) error {
	if _, err := os.Stat(cfg.DBPath); errors.Is(err, os.ErrNotExist) {
		database, password, err := initDatabase(cfg)
		if err != nil {
			return fmt.Errorf("initialising database: %w", err)
		}
		database.Close()

		printInitResult(cfg, password)
		fmt.Println()
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		return err
	}
	log.Info("database ready", zap.String("path", cfg.DBPath))

	jwtSecret := cfg.JWTSecret
	if jwtSecret == "" {
		jwtSecret, err = store.GetJWTSecret(context.Background(), database)
		if err != nil {
			return err
		}
	}

	router := api.NewRouter(database, api.Options{
		JWTSecret:     jwtSecret,
		MaxImageBytes: cfg.MaxImageBytes,
		Log:           log,
	})

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.LoggingMiddleware(log.Named("http"))(router),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		log.Info("shutdown signal received", zap.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	log.Info("server started", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	log.Info("server stopped, closing database")
	return nil
}

// initDatabase creates a new database, applies the schema and creates the
// admin account with a generated password. The file is removed on failure.
func initDatabase(cfg *config.Config) (*sqlx.DB, string, error) {
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, "", fmt.Errorf("opening database: %w", err)
	}

	fail := func(err error) (*sqlx.DB, string, error) {
		database.Close()
		os.Remove(cfg.DBPath)
		return nil, "", err
	}

	if err := db.Migrate(database); err != nil {
		return fail(err)
	}

	password, err := auth.GeneratePassword(16)
	if err != nil {
		return fail(fmt.Errorf("generating password: %w", err))
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return fail(err)
	}

	_, err = store.CreateUser(context.Background(), database, cfg.AdminUsername, cfg.AdminEmail, hash, model.RoleAdmin)
	if err != nil {
		return fail(fmt.Errorf("creating admin user: %w", err))
	}

	return database, password, nil
}

func printInitResult(cfg *config.Config, password string) {
	fmt.Printf("Database created: %s\n", cfg.DBPath)
	fmt.Println()
	fmt.Println("Admin account created:")
	fmt.Printf("  Email:    %s\n", cfg.AdminEmail)
	fmt.Printf("  Password: %s\n", password)
	fmt.Println()
	fmt.Println("Save this password. It cannot be recovered.")
}
