// Online School API - role-based student and course records service.
//
// This is the main entry point for the Online School API server. It wires
// together configuration, the SQLite identity store, the credential
// provider chain, token issuance, and the HTTP API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/bogdandanielioan/online-school-api/migrations"

	"github.com/bogdandanielioan/online-school-api/internal/api"
	"github.com/bogdandanielioan/online-school-api/internal/audit"
	"github.com/bogdandanielioan/online-school-api/internal/auth"
	"github.com/bogdandanielioan/online-school-api/internal/infrastructure/config"
	"github.com/bogdandanielioan/online-school-api/internal/infrastructure/database"
	"github.com/bogdandanielioan/online-school-api/internal/infrastructure/logging"
	"github.com/bogdandanielioan/online-school-api/internal/records"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main so that
// failures map onto exit codes in exactly one place.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Online School API",
		"version", version,
		"commit", commit,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)

	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	identities := auth.NewIdentityStore(db.DB)

	// Seed a first administrator when the identity tables are empty and
	// the bootstrap table is off. The generated password is logged once.
	if !cfg.Auth.Bootstrap.Enabled {
		if _, seedErr := auth.SeedAdmin(ctx, identities, log.Logger); seedErr != nil {
			return fmt.Errorf("seeding admin account: %w", seedErr)
		}
	}

	// Credential providers are consulted in order: student records first,
	// then staff, then the optional static bootstrap table.
	authLog := log.With("component", "auth")
	authenticator := auth.NewAuthenticator(authLog.Logger,
		auth.NewStudentProvider(identities),
		auth.NewStaffProvider(identities),
		auth.NewStaticProvider(
			cfg.Auth.Bootstrap.Enabled,
			bootstrapAccounts(cfg.Auth.Bootstrap.Accounts),
			authLog.Logger,
		),
	)

	resolver := auth.NewResolver(func() map[string][]string {
		return cfg.Auth.Permissions
	}, authLog.Logger)

	issuer, err := auth.NewIssuer(auth.IssuerConfig{
		Secret:          cfg.Security.JWT.Secret,
		Issuer:          cfg.Security.JWT.Issuer,
		Audience:        cfg.Security.JWT.Audience,
		LifetimeMinutes: cfg.Security.JWT.LifetimeMinutes,
	}, resolver)
	if err != nil {
		return fmt.Errorf("creating token issuer: %w", err)
	}

	server, err := api.New(api.Deps{
		Config:        cfg.API,
		Logger:        log.With("component", "api"),
		Authenticator: authenticator,
		Issuer:        issuer,
		Identities:    identities,
		Courses:       records.NewCourseRepository(db.DB),
		Audit:         audit.NewSQLiteRepository(db.DB),
		Version:       version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	log.Info("API server listening",
		"host", cfg.API.Host,
		"port", cfg.API.Port,
	)

	<-ctx.Done()
	log.Info("shutdown signal received")

	if err := server.Close(); err != nil {
		log.Error("error shutting down API server", "error", err)
	}

	log.Info("shutdown complete")
	return nil
}

// bootstrapAccounts converts configured bootstrap accounts to the auth
// package's representation.
func bootstrapAccounts(accounts []config.BootstrapAccountConfig) []auth.BootstrapAccount {
	out := make([]auth.BootstrapAccount, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, auth.BootstrapAccount{
			Username:    a.Username,
			Password:    a.Password,
			Role:        string(auth.NormalizeRole(a.Role)),
			DisplayName: a.DisplayName,
		})
	}
	return out
}

// getConfigPath returns the configuration file path from the environment
// or the default location.
func getConfigPath() string {
	if path := os.Getenv("ONLINESCHOOL_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
