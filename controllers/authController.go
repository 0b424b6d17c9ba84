package controllers

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"peerreview-backend/database"
	"peerreview-backend/middlewares"
	"peerreview-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type RegisterInput struct {
	CompanyName     string `json:"company_name" validate:"required"`
	FirstName       string `json:"first_name" validate:"required"`
	LastName        string `json:"last_name" validate:"required"`
	Title           string `json:"title"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
}

// Register creates an employee, joining the named company or creating it
// if it does not exist yet.
func Register(c *fiber.Ctx) error {
	var input RegisterInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	if input.Password != input.PasswordConfirm {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"message": "passwords do not match",
		})
	}

	var mailExist models.Employee
	err := database.DB.Where("email = ?", input.Email).First(&mailExist).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		c.Status(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"message": "Registration failed due to internal error",
		})
	}
	if err == nil {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"message": "email already exists",
		})
	}

	tx := database.DB.Begin()

	companyName := strings.TrimSpace(input.CompanyName)
	var company models.Company
	err = tx.Where("company_name = ?", companyName).First(&company).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		company = models.Company{CompanyName: companyName}
		if err := tx.Create(&company).Error; err != nil {
			tx.Rollback()
			c.Status(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"message": "Could not create company",
				"error":   err.Error(),
			})
		}
	} else if err != nil {
		tx.Rollback()
		c.Status(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"message": "Registration failed due to internal error",
			"error":   err.Error(),
		})
	}

	employee := models.Employee{
		CompanyId: company.Id,
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Title:     strings.TrimSpace(input.Title),
		Email:     input.Email,
	}
	employee.SetPassword(input.Password)
	if err := tx.Create(&employee).Error; err != nil {
		tx.Rollback()
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"message": "Could not create employee",
			"error":   err.Error(),
		})
	}

	tx.Commit()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"employee": employee,
		"company":  company,
	})
}

func Login(c *fiber.Ctx) error {
	var data map[string]string
	if err := c.BodyParser(&data); err != nil {
		return err
	}

	if _, err := mail.ParseAddress(data["email"]); err != nil {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"message": "Invalid email format",
		})
	}

	var employee models.Employee
	if err := database.DB.Where("email = ?", data["email"]).First(&employee).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.Status(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"message": "Invalid credentials",
			})
		}
		c.Status(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"message": "Login failed due to internal error",
		})
	}

	if err := employee.ComparePassword(data["password"]); err != nil {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"message": "Invalid credentials",
		})
	}

	token, err := middlewares.GenerateJWT(employee.Id, employee.CompanyId)
	if err != nil {
		c.Status(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"message": "Could not issue token",
		})
	}

	return c.JSON(fiber.Map{
		"token": token,
		"employee": fiber.Map{
			"id":    employee.Id,
			"name":  employee.FirstName + " " + employee.LastName,
			"email": employee.Email,
		},
	})
}

func Logout(c *fiber.Ctx) error {
	cookie := fiber.Cookie{
		Name:     "jwt",
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	}
	c.Cookie(&cookie)
	return c.JSON(fiber.Map{
		"message": "success",
	})
}
