package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequestStatus is the lifecycle state of a review request.
//
// Legal transitions:
//
//	PENDING  -> ACCEPTED -> COMPLETED
//	PENDING  -> REJECTED
//	ACCEPTED -> REJECTED
//
// REJECTED and COMPLETED are terminal. A request never returns to PENDING.
type RequestStatus int

const (
	StatusPending RequestStatus = iota
	StatusAccepted
	StatusRejected
	StatusCompleted
)

var statusNames = map[RequestStatus]string{
	StatusPending:   "PENDING",
	StatusAccepted:  "ACCEPTED",
	StatusRejected:  "REJECTED",
	StatusCompleted: "COMPLETED",
}

func (s RequestStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// Live reports whether the request still occupies the uniqueness slot
// for its (requester, receiver) pair.
func (s RequestStatus) Live() bool {
	return s == StatusPending || s == StatusAccepted
}

// LiveStatuses is the status set used for every dedup/liveness query.
var LiveStatuses = []RequestStatus{StatusPending, StatusAccepted}

var legalTransitions = map[RequestStatus][]RequestStatus{
	StatusPending:  {StatusAccepted, StatusRejected},
	StatusAccepted: {StatusCompleted, StatusRejected},
}

// CanTransition reports whether moving from to next is a legal lifecycle step.
func (s RequestStatus) CanTransition(next RequestStatus) bool {
	for _, t := range legalTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Request is a peer-review ask from one employee to another.
// Company, requester and receiver never change after creation; only
// status (and the review reference, on completion) are mutable.
type Request struct {
	Id            string        `json:"id" gorm:"primaryKey"`
	Company       string        `json:"-" gorm:"not null;index:idx_requests_company_receiver"`
	RequesterId   string        `json:"requester_id" gorm:"not null;index"`
	ReceiverId    string        `json:"receiver_id" gorm:"not null;index:idx_requests_company_receiver"`
	Status        RequestStatus `json:"status" gorm:"not null;default:0"`
	TimeRequested time.Time     `json:"time_requested" gorm:"not null"`
	ReviewRef     string        `json:"review_ref,omitempty"`
}

func (request *Request) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	request.Id = uuid.NewString()
	return
}
