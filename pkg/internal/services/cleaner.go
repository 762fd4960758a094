package services

import (
	"time"

	"github.com/flatfinder/flatfinder/pkg/internal/database"
	"github.com/rs/zerolog/log"
)

// DoAutoDatabaseCleanup hard-deletes soft-deleted rows past the retention
// window and sweeps messages whose flat is gone.
func DoAutoDatabaseCleanup() {
	deadline := time.Now().Add(-60 * time.Minute)
	log.Debug().Time("deadline", deadline).Msg("Now cleaning up entire database...")

	var count int64
	for _, model := range database.AutoMaintainRange {
		tx := database.C.Unscoped().Delete(model, "deleted_at IS NOT NULL AND deleted_at <= ?", deadline)
		if tx.Error != nil {
			log.Error().Err(tx.Error).Msg("An error occurred when running database cleanup...")
		}
		count += tx.RowsAffected
	}

	tx := database.C.Unscoped().
		Exec("DELETE FROM messages WHERE flat_id NOT IN (SELECT id FROM flats)")
	if tx.Error != nil {
		log.Error().Err(tx.Error).Msg("An error occurred when sweeping orphan messages...")
	}
	count += tx.RowsAffected

	log.Debug().Int64("affected", count).Msg("Clean up entire database accomplished.")
}
