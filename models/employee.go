package models

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Employee is both a directory entry and the authentication principal.
type Employee struct {
	Id        string  `json:"id" gorm:"primaryKey"`
	CompanyId string  `json:"-" gorm:"not null;index"`
	Company   Company `json:"-" gorm:"foreignKey:CompanyId;references:Id"`
	FirstName string  `json:"first_name" gorm:"not null"`
	LastName  string  `json:"last_name" gorm:"not null"`
	Title     string  `json:"title"`
	Email     string  `json:"email" gorm:"unique;not null"`
	Password  []byte  `json:"-" gorm:"not null"`
}

func (employee *Employee) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	employee.Id = uuid.NewString()
	return
}

func (employee *Employee) SetPassword(password string) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(password), 12)
	employee.Password = hashedPassword
}

func (employee *Employee) ComparePassword(password string) error {
	return bcrypt.CompareHashAndPassword(employee.Password, []byte(password))
}
