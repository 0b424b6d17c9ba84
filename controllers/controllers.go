package controllers

import (
	"peerreview-backend/models"
	"peerreview-backend/review"
)

// DirectoryLister serves the company directory screen.
type DirectoryLister interface {
	ListCompany(companyID, excludeID string) ([]models.Employee, error)
}

var (
	engine    *review.Engine
	directory DirectoryLister
)

// Init wires the lifecycle engine and directory used by the handlers.
// Called once from main; tests inject fakes here.
func Init(e *review.Engine, d DirectoryLister) {
	engine = e
	directory = d
}
