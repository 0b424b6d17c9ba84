package controllers

import (
	"errors"

	"peerreview-backend/middlewares"
	"peerreview-backend/models"
	"peerreview-backend/review"

	"github.com/gofiber/fiber/v2"
)

type RespondInput struct {
	RequestId string `json:"requestId" validate:"required"`
}

type CompleteInput struct {
	RequestId string `json:"requestId" validate:"required"`
	ReviewRef string `json:"reviewRef" validate:"required"`
}

func requestJSON(request *models.Request) fiber.Map {
	return fiber.Map{
		"requestId":  request.Id,
		"requester":  request.RequesterId,
		"status":     int(request.Status),
		"statusName": request.Status.String(),
	}
}

// Inbox lists the live requests addressed to the caller.
func Inbox(c *fiber.Ctx) error {
	companyID := c.Locals("companyID").(string)
	employeeID := c.Locals("employeeID").(string)

	requests, err := engine.Inbox(companyID, employeeID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not list received requests")
	}

	out := make([]fiber.Map, 0, len(requests))
	for i := range requests {
		entry := requestJSON(&requests[i])
		entry["timeRequested"] = requests[i].TimeRequested
		out = append(out, entry)
	}
	return c.JSON(fiber.Map{"requests": out})
}

// AcceptRequest moves a pending request addressed to the caller to accepted.
// A second accept fails rather than silently succeeding.
func AcceptRequest(c *fiber.Ctx) error {
	companyID := c.Locals("companyID").(string)
	employeeID := c.Locals("employeeID").(string)

	var input RespondInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	request, err := engine.Accept(companyID, employeeID, input.RequestId)
	if errors.Is(err, review.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Request does not exist or is no longer active.",
		})
	}
	if errors.Is(err, review.ErrNotPending) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Request is no longer pending.",
		})
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not accept request")
	}
	return c.JSON(fiber.Map{
		"message": "Accepted Request!",
		"request": requestJSON(request),
	})
}

// RejectRequest declines a pending or accepted request addressed to the
// caller, freeing the pair for a fresh request.
func RejectRequest(c *fiber.Ctx) error {
	companyID := c.Locals("companyID").(string)
	employeeID := c.Locals("employeeID").(string)

	var input RespondInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	request, err := engine.Reject(companyID, employeeID, input.RequestId)
	if errors.Is(err, review.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Request does not exist or is no longer active.",
		})
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not reject request")
	}
	return c.JSON(fiber.Map{
		"message": "Rejected Request.",
		"request": requestJSON(request),
	})
}

// CompleteRequest finishes an accepted request, recording a reference to the
// written review.
func CompleteRequest(c *fiber.Ctx) error {
	companyID := c.Locals("companyID").(string)
	employeeID := c.Locals("employeeID").(string)

	var input CompleteInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	request, err := engine.Complete(companyID, employeeID, input.RequestId, input.ReviewRef)
	if errors.Is(err, review.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Request does not exist or is no longer active.",
		})
	}
	if errors.Is(err, review.ErrNotAccepted) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Request has not been accepted.",
		})
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not complete request")
	}
	return c.JSON(fiber.Map{
		"message": "Completed Request!",
		"request": requestJSON(request),
	})
}
