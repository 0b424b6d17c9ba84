package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Company struct {
	Id          string `json:"id" gorm:"primaryKey"`
	CompanyName string `json:"company_name" gorm:"not null;unique"`
}

func (company *Company) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	company.Id = uuid.NewString()
	return
}
