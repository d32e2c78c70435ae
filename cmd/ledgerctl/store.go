package main

import (
	"contractpay/internal/config"
	"contractpay/internal/repositories"

	"gorm.io/gorm"
)

// withStore opens the configured store, runs fn and closes the store.
func withStore(fn func(cfg *config.Config, db *gorm.DB) error) error {
	config.LoadEnv()
	cfg := config.Load()

	db, err := repositories.Open(cfg.Database)
	if err != nil {
		return err
	}
	defer repositories.Close(db)

	return fn(cfg, db)
}
