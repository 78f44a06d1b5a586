package db

import (
	"fmt"
	"log"

	"github.com/jinzhu/gorm"
	"gopkg.in/gormigrate.v1"
)

type MigrationContext struct {
	Driver string
}

func (db *DB) Migrate(ctx MigrationContext) error {
	options := &gormigrate.Options{
		TableName:      "migrations",
		IDColumnName:   "id",
		IDColumnSize:   255,
		UseTransaction: false,
	}

	// $ date '+%Y%m%d%H%M'
	migrations := []*gormigrate.Migration{
		construct(ctx, "202410190900", migrateInitSchema),
		construct(ctx, "202410221530", migrateGenrePositions),
		construct(ctx, "202411031210", migrateNameUDecIndexes),
	}

	return gormigrate.
		New(db.DB, options, migrations).
		Migrate()
}

func construct(ctx MigrationContext, id string, f func(*gorm.DB, MigrationContext) error) *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: id,
		Migrate: func(db *gorm.DB) error {
			tx := db.Begin()
			defer tx.Commit()
			if err := f(tx, ctx); err != nil {
				return fmt.Errorf("%q: %w", id, err)
			}
			log.Printf("migration '%s' finished", id)
			return nil
		},
		Rollback: func(*gorm.DB) error {
			return nil
		},
	}
}

func migrateInitSchema(tx *gorm.DB, _ MigrationContext) error {
	return tx.AutoMigrate(
		Venue{},
		Artist{},
		Show{},
		Genre{},
		Setting{},
	).
		Error
}

func migrateGenrePositions(tx *gorm.DB, _ MigrationContext) error {
	return tx.AutoMigrate(
		VenueGenre{},
		ArtistGenre{},
	).
		Error
}

func migrateNameUDecIndexes(tx *gorm.DB, _ MigrationContext) error {
	step := tx.Model(Venue{}).AddIndex("idx_venues_name_u_dec", "name_u_dec")
	if err := step.Error; err != nil {
		return fmt.Errorf("step venues: %w", err)
	}
	step = tx.Model(Artist{}).AddIndex("idx_artists_name_u_dec", "name_u_dec")
	if err := step.Error; err != nil {
		return fmt.Errorf("step artists: %w", err)
	}
	return nil
}
