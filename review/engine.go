package review

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"peerreview-backend/models"
	"peerreview-backend/utils"

	"gorm.io/datatypes"
)

// Directory resolves requested employee ids against the company directory.
type Directory interface {
	// FindByIDs returns the employees of companyID whose id is in ids,
	// excluding excludeID. Unknown ids are simply absent from the result.
	FindByIDs(companyID string, ids []string, excludeID string) ([]models.Employee, error)
}

// Store is the persistence contract for requests. Insert must reject a second
// live request for the same (company, requester, receiver) triple with
// ErrDuplicateRequest; DeletePending and the conditional updates must perform
// their status check and mutation as a single atomic statement.
type Store interface {
	// FindLive returns this requester's requests in the given statuses,
	// restricted to receiverIDs when non-nil.
	FindLive(companyID, requesterID string, receiverIDs []string, statuses []models.RequestStatus) ([]models.Request, error)
	Insert(request *models.Request) error
	// FindOne returns the unique request for the triple in the given statuses,
	// or nil when none exists.
	FindOne(companyID, requesterID, receiverID string, statuses []models.RequestStatus) (*models.Request, error)
	// FindByID returns the request, or nil when it does not exist.
	FindByID(id string) (*models.Request, error)
	// DeletePending hard-deletes the request only if it is still PENDING.
	DeletePending(id string) (bool, error)
	// UpdateStatusIf moves the request from expected to next, reporting
	// whether the update won.
	UpdateStatusIf(id string, expected, next models.RequestStatus) (bool, error)
	// CompleteAccepted moves ACCEPTED to COMPLETED and records the review
	// reference in the same statement.
	CompleteAccepted(id, reviewRef string) (bool, error)
	// ListByReceiver returns the requests received by receiverID in the given
	// statuses.
	ListByReceiver(companyID, receiverID string, statuses []models.RequestStatus) ([]models.Request, error)
}

// EventRecorder persists lifecycle audit events.
type EventRecorder interface {
	Record(event *models.RequestEvent) error
}

// RequestState is the outward-facing state of one live request.
type RequestState struct {
	ReceiverId string
	Status     models.RequestStatus
}

// SubmitResult reports the per-target outcome of a bulk submission.
// Partial persist failure is data here, not an error: callers retry only
// the Failed subset.
type SubmitResult struct {
	Created    []string // receiver ids persisted by this call
	Duplicates []string // receiver ids that already had a live request
	Unknown    []string // target ids that did not resolve in the directory
	Failed     []string // receiver ids whose persist failed
	States     []RequestState
}

// Partial reports whether some persists failed while others succeeded.
func (r *SubmitResult) Partial() bool {
	return len(r.Failed) > 0
}

// Engine owns the request lifecycle rules: bulk submission with dedup,
// and the accept / reject / cancel / complete transitions.
type Engine struct {
	directory Directory
	store     Store
	events    EventRecorder
	now       func() time.Time
}

func NewEngine(directory Directory, store Store, events EventRecorder) *Engine {
	return &Engine{
		directory: directory,
		store:     store,
		events:    events,
		now:       time.Now,
	}
}

// Submit creates PENDING requests from requesterID to every eligible target.
// Targets that do not resolve in the directory are reported in Unknown;
// targets that already have a live request are reported in Duplicates.
// Per-target persists are independent: one failure does not block the rest.
func (e *Engine) Submit(companyID, requesterID string, targetIDs []string) (*SubmitResult, error) {
	targets := utils.CleanIDSet(targetIDs, requesterID)
	if len(targets) == 0 {
		return nil, ErrNoEligibleTargets
	}

	employees, err := e.directory.FindByIDs(companyID, targets, requesterID)
	if err != nil {
		log.Printf("directory lookup failed: %v", err)
		employees = nil
	}
	if len(employees) == 0 {
		return nil, ErrNoEligibleTargets
	}

	result := &SubmitResult{}

	resolved := make(map[string]struct{}, len(employees))
	receiverIDs := make([]string, 0, len(employees))
	for _, employee := range employees {
		resolved[employee.Id] = struct{}{}
		receiverIDs = append(receiverIDs, employee.Id)
	}
	for _, id := range targets {
		if _, ok := resolved[id]; !ok {
			result.Unknown = append(result.Unknown, id)
		}
	}

	// Dedup read. A failure here degrades to "no live requests found":
	// the store's uniqueness constraint re-checks at insert time, so a
	// false negative only turns into a reported duplicate below.
	existing, err := e.store.FindLive(companyID, requesterID, receiverIDs, models.LiveStatuses)
	if err != nil {
		log.Printf("live request lookup failed, deferring to insert constraint: %v", err)
		existing = nil
	}
	live := make(map[string]struct{}, len(existing))
	for _, request := range existing {
		live[request.ReceiverId] = struct{}{}
	}

	newTargets := make([]string, 0, len(receiverIDs))
	for _, id := range receiverIDs {
		if _, dup := live[id]; dup {
			result.Duplicates = append(result.Duplicates, id)
			continue
		}
		newTargets = append(newTargets, id)
	}
	if len(newTargets) == 0 {
		return nil, ErrAllDuplicate
	}

	for _, receiverID := range newTargets {
		request := &models.Request{
			Company:       companyID,
			RequesterId:   requesterID,
			ReceiverId:    receiverID,
			Status:        models.StatusPending,
			TimeRequested: e.now(),
		}
		if err := e.store.Insert(request); err != nil {
			if errors.Is(err, ErrDuplicateRequest) {
				// Lost a race with a concurrent submission; same outcome
				// as a pre-detected duplicate.
				result.Duplicates = append(result.Duplicates, receiverID)
				continue
			}
			log.Printf("could not persist request for receiver %s: %v", receiverID, err)
			result.Failed = append(result.Failed, receiverID)
			continue
		}
		result.Created = append(result.Created, receiverID)
		result.States = append(result.States, RequestState{ReceiverId: receiverID, Status: request.Status})
		e.record(request.Id, "created", requesterID, map[string]any{"receiver": receiverID})
	}

	if len(result.Created) == 0 && len(result.Failed) == 0 {
		// Every insert lost its race.
		return nil, ErrAllDuplicate
	}
	return result, nil
}

// LiveRequests returns the caller's outstanding requests, using the same
// liveness predicate as Submit's dedup query.
func (e *Engine) LiveRequests(companyID, requesterID string) ([]RequestState, error) {
	requests, err := e.store.FindLive(companyID, requesterID, nil, models.LiveStatuses)
	if err != nil {
		return nil, fmt.Errorf("live request lookup: %w", err)
	}
	states := make([]RequestState, 0, len(requests))
	for _, request := range requests {
		states = append(states, RequestState{ReceiverId: request.ReceiverId, Status: request.Status})
	}
	return states, nil
}

// Cancel withdraws the caller's still-PENDING request to receiverID.
// The row is hard-deleted, freeing the uniqueness slot immediately.
// Accepted requests cannot be withdrawn by the requester.
func (e *Engine) Cancel(companyID, requesterID, receiverID string) error {
	request, err := e.store.FindOne(companyID, requesterID, receiverID, models.LiveStatuses)
	if err != nil {
		return fmt.Errorf("request lookup: %w", err)
	}
	if request == nil {
		return ErrNotFound
	}
	if request.Status == models.StatusAccepted {
		return ErrAlreadyAccepted
	}

	ok, err := e.store.DeletePending(request.Id)
	if err != nil {
		return fmt.Errorf("request delete: %w", err)
	}
	if !ok {
		// Raced against the receiver; reclassify from the current row.
		current, err := e.store.FindByID(request.Id)
		if err == nil && current != nil && current.Status == models.StatusAccepted {
			return ErrAlreadyAccepted
		}
		return ErrNotFound
	}
	e.record(request.Id, "cancelled", requesterID, map[string]any{"receiver": receiverID})
	return nil
}

// Accept moves a PENDING request addressed to receiverID to ACCEPTED.
// Accepting an already-accepted or terminal request fails.
func (e *Engine) Accept(companyID, receiverID, requestID string) (*models.Request, error) {
	request, err := e.loadForReceiver(companyID, receiverID, requestID)
	if err != nil {
		return nil, err
	}

	ok, err := e.store.UpdateStatusIf(request.Id, models.StatusPending, models.StatusAccepted)
	if err != nil {
		return nil, fmt.Errorf("status update: %w", err)
	}
	if !ok {
		current, err := e.store.FindByID(request.Id)
		if err != nil || current == nil {
			return nil, ErrNotFound
		}
		return nil, ErrNotPending
	}
	request.Status = models.StatusAccepted
	e.record(request.Id, "accepted", receiverID, map[string]any{"requester": request.RequesterId})
	return request, nil
}

// Reject moves a PENDING or ACCEPTED request addressed to receiverID to
// REJECTED, freeing the uniqueness slot for the pair. The conditional update
// is keyed on the observed status; one retry covers losing a pending->accepted
// race, where rejection is still legal.
func (e *Engine) Reject(companyID, receiverID, requestID string) (*models.Request, error) {
	for attempt := 0; attempt < 2; attempt++ {
		request, err := e.loadForReceiver(companyID, receiverID, requestID)
		if err != nil {
			return nil, err
		}
		if !request.Status.Live() {
			return nil, ErrNotFound
		}

		ok, err := e.store.UpdateStatusIf(request.Id, request.Status, models.StatusRejected)
		if err != nil {
			return nil, fmt.Errorf("status update: %w", err)
		}
		if ok {
			request.Status = models.StatusRejected
			e.record(request.Id, "rejected", receiverID, map[string]any{"requester": request.RequesterId})
			return request, nil
		}
	}
	return nil, ErrNotFound
}

// Complete moves an ACCEPTED request to COMPLETED, recording an opaque
// reference to the written review.
func (e *Engine) Complete(companyID, receiverID, requestID, reviewRef string) (*models.Request, error) {
	request, err := e.loadForReceiver(companyID, receiverID, requestID)
	if err != nil {
		return nil, err
	}

	ok, err := e.store.CompleteAccepted(request.Id, reviewRef)
	if err != nil {
		return nil, fmt.Errorf("status update: %w", err)
	}
	if !ok {
		current, err := e.store.FindByID(request.Id)
		if err != nil || current == nil {
			return nil, ErrNotFound
		}
		return nil, ErrNotAccepted
	}
	request.Status = models.StatusCompleted
	request.ReviewRef = reviewRef
	e.record(request.Id, "completed", receiverID, map[string]any{"requester": request.RequesterId, "reviewRef": reviewRef})
	return request, nil
}

// Inbox returns the live requests received by receiverID.
func (e *Engine) Inbox(companyID, receiverID string) ([]models.Request, error) {
	requests, err := e.store.ListByReceiver(companyID, receiverID, models.LiveStatuses)
	if err != nil {
		return nil, fmt.Errorf("inbox lookup: %w", err)
	}
	return requests, nil
}

func (e *Engine) loadForReceiver(companyID, receiverID, requestID string) (*models.Request, error) {
	request, err := e.store.FindByID(requestID)
	if err != nil {
		return nil, fmt.Errorf("request lookup: %w", err)
	}
	if request == nil || request.Company != companyID || request.ReceiverId != receiverID {
		return nil, ErrNotFound
	}
	return request, nil
}

func (e *Engine) record(requestID, action, actorID string, detail map[string]any) {
	if e.events == nil {
		return
	}
	payload, _ := json.Marshal(detail)
	event := &models.RequestEvent{
		RequestId: requestID,
		Action:    action,
		ActorId:   actorID,
		Detail:    datatypes.JSON(payload),
	}
	if err := e.events.Record(event); err != nil {
		log.Printf("request event not recorded (%s on %s): %v", action, requestID, err)
	}
}
