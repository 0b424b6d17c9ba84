package review

import "errors"

var (
	// ErrNoEligibleTargets means no requested target resolved to an employee
	// of the caller's company.
	ErrNoEligibleTargets = errors.New("none of the requested employees are available")

	// ErrAllDuplicate means every resolved target already has a live request
	// from this requester.
	ErrAllDuplicate = errors.New("requests already pending for the selected employees")

	// ErrNotFound means the request does not exist, belongs to someone else,
	// or is already terminal.
	ErrNotFound = errors.New("request does not exist or has already been completed")

	// ErrAlreadyAccepted means a cancel was attempted on an accepted request.
	// Accepted requests are immutable by the requester.
	ErrAlreadyAccepted = errors.New("request has already been accepted")

	// ErrNotPending means an accept was attempted on a request that already
	// left PENDING.
	ErrNotPending = errors.New("request is no longer pending")

	// ErrNotAccepted means a complete was attempted on a request that is not
	// currently ACCEPTED.
	ErrNotAccepted = errors.New("request has not been accepted")

	// ErrDuplicateRequest is returned by Store.Insert when the live-uniqueness
	// constraint rejects a second request for the same pair.
	ErrDuplicateRequest = errors.New("a live request for this pair already exists")
)
