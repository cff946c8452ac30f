package seeds

import (
	_ "embed"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	dicts "labtrack_backend/internals/seeds/dicts"
	users "labtrack_backend/internals/seeds/users/auth"
)

//go:embed data/data_users.json
var usersJSON []byte

//go:embed data/data_dicts.json
var dictsJSON []byte

// RunAllSeeds: data awal untuk dev / staging (SEED_ON_START=true)
func RunAllSeeds(db *gorm.DB, log *zap.Logger) error {
	//* Dictionaries
	dictSeed, err := dicts.ParseDicts(dictsJSON)
	if err != nil {
		return err
	}
	if err := dicts.SeedDicts(db, dictSeed, log); err != nil {
		return err
	}

	//* User
	userSeed, err := users.ParseUsers(usersJSON)
	if err != nil {
		return err
	}
	n, err := users.SeedUsers(db, userSeed, log)
	if err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	log.Info("seeding selesai", zap.Int("users_inserted", n))
	return nil
}
