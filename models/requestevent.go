package models

import (
	"time"

	"gorm.io/datatypes"
)

// RequestEvent is an append-only audit row recorded for each lifecycle
// transition of a request. Events are best-effort: writing one never
// fails the operation that produced it.
type RequestEvent struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	RequestId string         `json:"request_id" gorm:"not null;index"`
	Action    string         `json:"action" gorm:"type:VARCHAR(20);not null"` // "created" | "accepted" | "rejected" | "cancelled" | "completed"
	ActorId   string         `json:"actor_id" gorm:"not null"`
	Detail    datatypes.JSON `json:"detail" gorm:"type:jsonb"`
	CreatedAt time.Time      `json:"created_at"`
}
