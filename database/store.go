package database

import (
	"errors"

	"peerreview-backend/models"
	"peerreview-backend/review"

	"gorm.io/gorm"
)

// RequestStore is the GORM-backed implementation of the engine's store
// contract. Conditional mutations key the status check into the statement
// itself, so concurrent accept/reject/cancel calls resolve to one winner.
type RequestStore struct {
	db *gorm.DB
}

func NewRequestStore(db *gorm.DB) *RequestStore {
	return &RequestStore{db: db}
}

func (s *RequestStore) FindLive(companyID, requesterID string, receiverIDs []string, statuses []models.RequestStatus) ([]models.Request, error) {
	q := s.db.Where("company = ? AND requester_id = ? AND status IN ?", companyID, requesterID, statuses)
	if receiverIDs != nil {
		q = q.Where("receiver_id IN ?", receiverIDs)
	}
	var requests []models.Request
	if err := q.Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (s *RequestStore) Insert(request *models.Request) error {
	if err := s.db.Create(request).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return review.ErrDuplicateRequest
		}
		return err
	}
	return nil
}

func (s *RequestStore) FindOne(companyID, requesterID, receiverID string, statuses []models.RequestStatus) (*models.Request, error) {
	var request models.Request
	err := s.db.
		Where("company = ? AND requester_id = ? AND receiver_id = ? AND status IN ?",
			companyID, requesterID, receiverID, statuses).
		First(&request).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (s *RequestStore) FindByID(id string) (*models.Request, error) {
	var request models.Request
	err := s.db.Where("id = ?", id).First(&request).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (s *RequestStore) DeletePending(id string) (bool, error) {
	res := s.db.Where("id = ? AND status = ?", id, models.StatusPending).Delete(&models.Request{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (s *RequestStore) UpdateStatusIf(id string, expected, next models.RequestStatus) (bool, error) {
	res := s.db.Model(&models.Request{}).
		Where("id = ? AND status = ?", id, expected).
		Update("status", next)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (s *RequestStore) CompleteAccepted(id, reviewRef string) (bool, error) {
	res := s.db.Model(&models.Request{}).
		Where("id = ? AND status = ?", id, models.StatusAccepted).
		Updates(map[string]interface{}{
			"status":     models.StatusCompleted,
			"review_ref": reviewRef,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (s *RequestStore) ListByReceiver(companyID, receiverID string, statuses []models.RequestStatus) ([]models.Request, error) {
	var requests []models.Request
	err := s.db.
		Where("company = ? AND receiver_id = ? AND status IN ?", companyID, receiverID, statuses).
		Order("time_requested ASC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}
