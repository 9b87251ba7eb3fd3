package main

import (
	"errors"
	"flag"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"

	"github.com/devang9890/resume/internal/config"
	"github.com/devang9890/resume/pkg/logger"
)

func main() {
	source := flag.String("source", "file://migrations", "migration source URL")
	down := flag.Bool("down", false, "roll back one migration instead of applying all")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		panic("cannot load config: " + err.Error())
	}
	appLogger := logger.NewZapLogger(cfg.App.Env, "resume-migrate")
	defer appLogger.Sync()

	m, err := migrate.New(*source, cfg.DB.DSN)
	if err != nil {
		appLogger.Fatal("cannot open migrations", err)
	}
	defer m.Close()

	if *down {
		err = m.Steps(-1)
	} else {
		err = m.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		appLogger.Fatal("migration failed", err)
	}

	version, dirty, _ := m.Version()
	appLogger.Info("Migrations applied", zap.Uint("version", version), zap.Bool("dirty", dirty))
}
