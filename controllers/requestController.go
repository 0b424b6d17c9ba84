package controllers

import (
	"errors"
	"fmt"

	"peerreview-backend/middlewares"
	"peerreview-backend/review"

	"github.com/gofiber/fiber/v2"
)

type SubmitInput struct {
	Users []string `json:"users"`
}

type CancelInput struct {
	RequestedEmployee string `json:"requestedEmployee" validate:"required"`
}

func requestStates(states []review.RequestState) []fiber.Map {
	out := make([]fiber.Map, 0, len(states))
	for _, state := range states {
		out = append(out, fiber.Map{
			"userObjId":  state.ReceiverId,
			"status":     int(state.Status),
			"statusName": state.Status.String(),
		})
	}
	return out
}

// RequestUsers submits review requests to a set of colleagues in one call.
// Duplicates are skipped, unknown ids are reported, and a partial persist
// failure still returns the subset that succeeded so the caller can retry
// only the rest.
func RequestUsers(c *fiber.Ctx) error {
	companyID := c.Locals("companyID").(string)
	employeeID := c.Locals("employeeID").(string)

	var input SubmitInput
	if err := c.BodyParser(&input); err != nil || input.Users == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid body",
		})
	}

	result, err := engine.Submit(companyID, employeeID, input.Users)
	if errors.Is(err, review.ErrNoEligibleTargets) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "The employees that you requested aren't currently available",
		})
	}
	if errors.Is(err, review.ErrAllDuplicate) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "You already have requests pending for the selected user(s)",
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Unable to submit your requests at this time, please try again",
		})
	}

	if result.Partial() {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"savedRequests":  result.Created,
			"requestStates":  requestStates(result.States),
			"unknownTargets": result.Unknown,
			"message":        "Unable to process all requests, please try again with the remaining users in a moment",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"savedRequests":  result.Created,
		"requestStates":  requestStates(result.States),
		"unknownTargets": result.Unknown,
		"message":        fmt.Sprintf("Sent requests to %d other user(s)", len(result.Created)),
	})
}

// RequestStates lists the caller's outstanding (pending or accepted) requests.
func RequestStates(c *fiber.Ctx) error {
	companyID := c.Locals("companyID").(string)
	employeeID := c.Locals("employeeID").(string)

	states, err := engine.LiveRequests(companyID, employeeID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not list requests")
	}
	return c.JSON(fiber.Map{"requestStates": requestStates(states)})
}

// CancelRequest withdraws a still-pending request. Accepted requests cannot
// be withdrawn by the requester.
func CancelRequest(c *fiber.Ctx) error {
	companyID := c.Locals("companyID").(string)
	employeeID := c.Locals("employeeID").(string)

	var input CancelInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	err := engine.Cancel(companyID, employeeID, input.RequestedEmployee)
	if errors.Is(err, review.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Could not cancel. The request either does not exist, or has already been completed. You may send a new request.",
		})
	}
	if errors.Is(err, review.ErrAlreadyAccepted) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Could not cancel. This request has already been accepted.",
		})
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not cancel request")
	}
	return c.JSON(fiber.Map{
		"message": "Cancelled Request!",
	})
}
