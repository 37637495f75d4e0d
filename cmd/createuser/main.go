package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fatura/backend/internal/domain/identity"
	"github.com/fatura/backend/internal/infrastructure/config"
	"github.com/fatura/backend/internal/infrastructure/logger"
	"github.com/fatura/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

// Creates a back-office user directly in the database. Used to bootstrap the
// first login, since there is no self-service signup.
func main() {
	var (
		email    string
		name     string
		password string
	)
	flag.StringVar(&email, "email", "", "User email (required)")
	flag.StringVar(&name, "name", "", "User display name (required)")
	flag.StringVar(&password, "password", "", "Initial password (required, min 8 chars)")
	flag.Parse()

	if email == "" || name == "" || password == "" {
		fmt.Fprintln(os.Stderr, "Usage: createuser -email <email> -name <name> -password <password>")
		os.Exit(1)
	}

	log, err := logger.New(logger.DefaultConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	user, err := identity.NewUser(email, name, password)
	if err != nil {
		log.Fatal("Invalid user data", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userRepo := persistence.NewGormUserRepository(db.DB)
	if err := userRepo.Save(ctx, user); err != nil {
		log.Fatal("Failed to create user", zap.Error(err))
	}

	log.Info("User created",
		zap.String("id", user.ID.String()),
		zap.String("email", user.Email),
	)
}
