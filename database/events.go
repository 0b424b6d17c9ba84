package database

import (
	"peerreview-backend/models"

	"gorm.io/gorm"
)

// EventStore persists request lifecycle audit events.
type EventStore struct {
	db *gorm.DB
}

func NewEventStore(db *gorm.DB) *EventStore {
	return &EventStore{db: db}
}

func (s *EventStore) Record(event *models.RequestEvent) error {
	return s.db.Create(event).Error
}
