package main

import (
	"github.com/Vathanak-H/ScholarAward/internal/config"
	"github.com/Vathanak-H/ScholarAward/internal/database"
	"github.com/Vathanak-H/ScholarAward/internal/env"
	"github.com/Vathanak-H/ScholarAward/internal/model"
	"go.uber.org/zap"
)

func init() {
	env.LoadEnv(".env")
}

func main() {
	logger := zap.Must(zap.NewDevelopment()).Sugar()
	defer logger.Sync()
	cfg := config.GetConfig()

	logger.Infof("Database configuration: %+v", cfg.DB)

	db, err := database.ConnectReturnGormDB(cfg.DB)
	if err != nil {
		logger.Panic(err)
	}

	migrateErr := db.AutoMigrate(
		&model.User{},
		&model.Batch{},
		&model.Category{},
		&model.Item{},
		&model.RubricEntry{},
		&model.Application{},
		&model.MaterialEntry{},
		&model.Attachment{},
		&model.Announcement{},
	)
	if migrateErr != nil {
		logger.Panic(migrateErr)
	}

	logger.Info("Migration complete")
}
