package database

import (
	"peerreview-backend/models"

	"gorm.io/gorm"
)

// EmployeeDirectory resolves employee ids within a single company.
type EmployeeDirectory struct {
	db *gorm.DB
}

func NewEmployeeDirectory(db *gorm.DB) *EmployeeDirectory {
	return &EmployeeDirectory{db: db}
}

// FindByIDs returns the employees of companyID whose id is in ids, excluding
// excludeID. Ids from other companies or unknown ids are simply not returned.
func (d *EmployeeDirectory) FindByIDs(companyID string, ids []string, excludeID string) ([]models.Employee, error) {
	var employees []models.Employee
	err := d.db.
		Where("company_id = ? AND id IN ? AND id <> ?", companyID, ids, excludeID).
		Find(&employees).Error
	if err != nil {
		return nil, err
	}
	return employees, nil
}

// ListCompany returns every employee of companyID except excludeID,
// for the directory screen.
func (d *EmployeeDirectory) ListCompany(companyID, excludeID string) ([]models.Employee, error) {
	var employees []models.Employee
	err := d.db.
		Where("company_id = ? AND id <> ?", companyID, excludeID).
		Order("last_name ASC, first_name ASC").
		Find(&employees).Error
	if err != nil {
		return nil, err
	}
	return employees, nil
}
