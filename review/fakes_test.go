package review

import (
	"errors"
	"sync"

	"peerreview-backend/models"

	"github.com/google/uuid"
)

var errBoom = errors.New("persist blew up")

// memStore is an in-memory Store whose insert path enforces the same
// live-uniqueness constraint the database index provides.
type memStore struct {
	mu            sync.Mutex
	rows          map[string]*models.Request
	failReceivers map[string]bool // receivers whose Insert fails
	findLiveErr   error
}

func newMemStore() *memStore {
	return &memStore{
		rows:          make(map[string]*models.Request),
		failReceivers: make(map[string]bool),
	}
}

func statusIn(s models.RequestStatus, set []models.RequestStatus) bool {
	for _, x := range set {
		if x == s {
			return true
		}
	}
	return false
}

func (s *memStore) FindLive(companyID, requesterID string, receiverIDs []string, statuses []models.RequestStatus) ([]models.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findLiveErr != nil {
		return nil, s.findLiveErr
	}
	var wanted map[string]struct{}
	if receiverIDs != nil {
		wanted = make(map[string]struct{}, len(receiverIDs))
		for _, id := range receiverIDs {
			wanted[id] = struct{}{}
		}
	}
	var out []models.Request
	for _, r := range s.rows {
		if r.Company != companyID || r.RequesterId != requesterID || !statusIn(r.Status, statuses) {
			continue
		}
		if wanted != nil {
			if _, ok := wanted[r.ReceiverId]; !ok {
				continue
			}
		}
		out = append(out, *r)
	}
	return out, nil
}

func (s *memStore) Insert(request *models.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failReceivers[request.ReceiverId] {
		return errBoom
	}
	for _, r := range s.rows {
		if r.Company == request.Company &&
			r.RequesterId == request.RequesterId &&
			r.ReceiverId == request.ReceiverId &&
			r.Status.Live() {
			return ErrDuplicateRequest
		}
	}
	request.Id = uuid.NewString()
	cp := *request
	s.rows[request.Id] = &cp
	return nil
}

func (s *memStore) FindOne(companyID, requesterID, receiverID string, statuses []models.RequestStatus) (*models.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rows {
		if r.Company == companyID && r.RequesterId == requesterID && r.ReceiverId == receiverID && statusIn(r.Status, statuses) {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *memStore) FindByID(id string) (*models.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (s *memStore) DeletePending(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[id]
	if !ok || r.Status != models.StatusPending {
		return false, nil
	}
	delete(s.rows, id)
	return true, nil
}

func (s *memStore) UpdateStatusIf(id string, expected, next models.RequestStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[id]
	if !ok || r.Status != expected {
		return false, nil
	}
	r.Status = next
	return true, nil
}

func (s *memStore) CompleteAccepted(id, reviewRef string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[id]
	if !ok || r.Status != models.StatusAccepted {
		return false, nil
	}
	r.Status = models.StatusCompleted
	r.ReviewRef = reviewRef
	return true, nil
}

func (s *memStore) ListByReceiver(companyID, receiverID string, statuses []models.RequestStatus) ([]models.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Request
	for _, r := range s.rows {
		if r.Company == companyID && r.ReceiverId == receiverID && statusIn(r.Status, statuses) {
			out = append(out, *r)
		}
	}
	return out, nil
}

// liveCount reports the number of live rows for a pair; used by the
// uniqueness property tests.
func (s *memStore) liveCount(companyID, requesterID, receiverID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.rows {
		if r.Company == companyID && r.RequesterId == requesterID && r.ReceiverId == receiverID && r.Status.Live() {
			n++
		}
	}
	return n
}

type memDirectory struct {
	employees []models.Employee
	err       error
}

func (d *memDirectory) FindByIDs(companyID string, ids []string, excludeID string) ([]models.Employee, error) {
	if d.err != nil {
		return nil, d.err
	}
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	var out []models.Employee
	for _, e := range d.employees {
		if e.CompanyId != companyID || e.Id == excludeID {
			continue
		}
		if _, ok := wanted[e.Id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

type memEvents struct {
	mu     sync.Mutex
	events []models.RequestEvent
}

func (m *memEvents) Record(event *models.RequestEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, *event)
	return nil
}

func (m *memEvents) actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e.Action)
	}
	return out
}
