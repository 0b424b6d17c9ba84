package controllers

import (
	"peerreview-backend/database"
	"peerreview-backend/models"

	"github.com/gofiber/fiber/v2"
)

// GetCompanies lists every registered company (public; used by the signup screen).
func GetCompanies(c *fiber.Ctx) error {
	var companies []models.Company
	if err := database.DB.Order("company_name ASC").Find(&companies).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not list companies")
	}

	out := make([]fiber.Map, 0, len(companies))
	for _, company := range companies {
		out = append(out, fiber.Map{
			"companyId":   company.Id,
			"companyName": company.CompanyName,
		})
	}
	return c.JSON(fiber.Map{"companies": out})
}

// GetEmployees returns the caller's company directory, minus the caller.
func GetEmployees(c *fiber.Ctx) error {
	companyID := c.Locals("companyID").(string)
	employeeID := c.Locals("employeeID").(string)

	employees, err := directory.ListCompany(companyID, employeeID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not list employees")
	}
	return c.JSON(fiber.Map{"employees": employees})
}
