package handlers

import (
	"errors"
	"strconv"

	"digiwallet/internal/middleware"
	"digiwallet/internal/services/user"
	"digiwallet/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	users user.Service
}

func NewUserHandler(users user.Service) *UserHandler {
	return &UserHandler{users: users}
}

// Me returns the authenticated user's profile.
func (h *UserHandler) Me(c *fiber.Ctx) error {
	profile, err := h.users.Me(c.Context(), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return response.NotFound(c, "user not found")
		}
		return response.ServerError(c, "failed to load profile")
	}
	return response.Success(c, "Profile retrieved", profile)
}

type setPinRequest struct {
	Pin string `json:"pin"`
}

func (h *UserHandler) SetPin(c *fiber.Ctx) error {
	var req setPinRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	if err := h.users.SetPin(c.Context(), middleware.UserID(c), req.Pin); err != nil {
		return pinError(c, err)
	}
	return response.Success(c, "Pin set", nil)
}

type changePinRequest struct {
	CurrentPin string `json:"currentPin"`
	NewPin     string `json:"newPin"`
}

func (h *UserHandler) ChangePin(c *fiber.Ctx) error {
	var req changePinRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	if err := h.users.ChangePin(c.Context(), middleware.UserID(c), req.CurrentPin, req.NewPin); err != nil {
		return pinError(c, err)
	}
	return response.Success(c, "Pin changed", nil)
}

// List pages through all users. Admin surface.
func (h *UserHandler) List(c *fiber.Ctx) error {
	profiles, meta, err := h.users.List(c.Context(), parseListQuery(c))
	if err != nil {
		return response.ServerError(c, "failed to list users")
	}
	return response.Paginated(c, "Users retrieved", profiles, meta)
}

// Get returns a single user's profile. Admin surface.
func (h *UserHandler) Get(c *fiber.Ctx) error {
	userID, err := strconv.ParseUint(c.Params("userId"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "invalid user id")
	}

	profile, err := h.users.Get(c.Context(), uint(userID))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return response.NotFound(c, "user not found")
		}
		return response.ServerError(c, "failed to load profile")
	}
	return response.Success(c, "Profile retrieved", profile)
}

type setActiveRequest struct {
	State string `json:"state"`
}

// SetActive blocks or unblocks an account. Admin surface.
func (h *UserHandler) SetActive(c *fiber.Ctx) error {
	userID, err := strconv.ParseUint(c.Params("userId"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "invalid user id")
	}

	var req setActiveRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	profile, err := h.users.SetActive(c.Context(), uint(userID), req.State)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrInvalidActiveState),
			errors.Is(err, user.ErrCannotBlockAdmin):
			return response.BadRequest(c, err.Error())
		case errors.Is(err, user.ErrUserNotFound):
			return response.NotFound(c, err.Error())
		default:
			return response.ServerError(c, "failed to update account state")
		}
	}
	return response.Success(c, "Account state updated", profile)
}

func pinError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, user.ErrPinTooShort),
		errors.Is(err, user.ErrPinAlreadySet),
		errors.Is(err, user.ErrPinNotSet):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, user.ErrPinMismatch):
		return response.Unauthorized(c, err.Error())
	case errors.Is(err, user.ErrUserNotFound):
		return response.NotFound(c, err.Error())
	default:
		return response.ServerError(c, "pin update failed")
	}
}
