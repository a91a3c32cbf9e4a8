package main

import (
	"context"
	"database/sql"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/tourhub-uz/tourhub/migrations"
	"github.com/tourhub-uz/tourhub/pkg/configuration"
)

func main() {
	conf := configuration.Use()
	logger := conf.Logger()

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	db, err := sql.Open("pgx", conf.Database.ConnectionString())
	if err != nil {
		logger.WithError(err).Fatal("failed to open database")
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		logger.WithError(err).Fatal("failed to set goose dialect")
	}

	if err := goose.RunContext(context.Background(), command, db, ".", os.Args[2:]...); err != nil {
		logger.WithError(err).WithField("command", command).Fatal("migration failed")
	}
	logger.WithField("command", command).Info("migration complete")
}
