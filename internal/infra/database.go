package infra

import (
	"fmt"

	"opmina/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies any idempotent SQL patches that GORM
// cannot express (partial indexes, etc.).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations applies AutoMigrate plus schema patches. Also used by the
// integration tests against a throwaway container.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Cancha{},
		&model.Pesaje{},
		&model.ItemAlmacen{},
		&model.MovimientoCancha{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
// Each statement is guarded so re-running on an already-patched DB is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// Partial index backing the reconcile sweep: ingreso pesajes without a
		// warehouse lot. The WHERE mirrors ListSinItemAlmacen exactly.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_pesajes_sin_item') THEN
		    CREATE INDEX idx_pesajes_sin_item
		        ON pesajes (created_at)
		        WHERE tipo_operacion = 'ingreso' AND item_almacen_id IS NULL;
		  END IF;
		END $$`,
		// One lot per pesaje, enforced at the schema level too.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_items_almacen_pesaje') THEN
		    CREATE UNIQUE INDEX idx_items_almacen_pesaje
		        ON items_almacen (pesaje_id)
		        WHERE pesaje_id IS NOT NULL;
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("schema patch: %w", err)
		}
	}
	return nil
}
