package database

import (
	"fmt"

	"peerreview-backend/models"

	"gorm.io/gorm"
)

// Migrate applies (idempotent) schema migrations:
// - AutoMigrate (tables/columns)
// - The live-uniqueness index: at most one PENDING/ACCEPTED request per
//   (company, requester, receiver) triple. This makes the dedup invariant a
//   storage guarantee rather than a check-then-insert in the engine.
// - Supporting indexes for the requester/receiver query paths.
func Migrate() error {
	return DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.AutoMigrate(
			&models.Company{},
			&models.Employee{},
			&models.Request{},
			&models.RequestEvent{},
			&models.IdempotencyKey{},
		); err != nil {
			return fmt.Errorf("automigrate failed: %w", err)
		}

		indexes := []string{
			fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS idx_requests_live_unique
				ON requests (company, requester_id, receiver_id)
				WHERE status IN (%d, %d)`, models.StatusPending, models.StatusAccepted),
			`CREATE INDEX IF NOT EXISTS idx_requests_requester_status ON requests (company, requester_id, status)`,
			`CREATE INDEX IF NOT EXISTS idx_request_events_request ON request_events (request_id, created_at)`,
		}
		for _, stmt := range indexes {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("index migration failed on: %s - %w", stmt, err)
			}
		}

		return nil
	})
}
