package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/devang9890/resume/adapters/persistence"
	"github.com/devang9890/resume/internal/config"
	"github.com/devang9890/resume/internal/domain/user"
	"github.com/devang9890/resume/pkg/auth"
	"github.com/devang9890/resume/pkg/logger"
)

func main() {
	fmt.Println("adding user into database...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}

	name := os.Getenv("SEED_NAME")
	email := user.NormalizeEmail(os.Getenv("SEED_EMAIL"))
	password := os.Getenv("SEED_PASSWORD")
	if err := user.ValidateRegistration(name, email, password); err != nil {
		log.Fatalf("invalid seed user: %v", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("cannot hash password: %v", err)
	}

	pool, err := persistence.NewPostgresPool(cfg, logger.NewNopLogger())
	if err != nil {
		log.Fatalf("cannot connect DB: %v", err)
	}
	defer pool.Close()

	err = persistence.NewPostgresUserRepo(pool).Create(context.Background(), &user.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	})
	if errors.Is(err, user.ErrEmailTaken) {
		fmt.Printf("user '%s' already exists, nothing to do\n", email)
		return
	}
	if err != nil {
		log.Fatalf("cannot add user: %v", err)
	}

	fmt.Printf("added user '%s' successfully!\n", email)
}
