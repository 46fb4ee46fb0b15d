package handlers

import (
	"errors"

	"digiwallet/internal/middleware"
	"digiwallet/internal/services/auth"
	"digiwallet/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	auth auth.Service
}

func NewAuthHandler(authService auth.Service) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register creates an unverified account. The wallet is opened later,
// when the email is verified.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req auth.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	user, err := h.auth.Register(c.Context(), req)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			return response.Error(c, fiber.StatusConflict, err.Error())
		}
		return response.BadRequest(c, err.Error())
	}
	return response.Created(c, "Account created, verification required", fiber.Map{
		"id":    user.ID,
		"email": user.Email,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	user, tokens, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			return response.Unauthorized(c, err.Error())
		case errors.Is(err, auth.ErrNotVerified),
			errors.Is(err, auth.ErrAccountBlocked):
			return response.Error(c, fiber.StatusForbidden, err.Error())
		default:
			return response.ServerError(c, "login failed")
		}
	}
	return response.Success(c, "Login successful", fiber.Map{
		"user":   user,
		"tokens": tokens,
	})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ChangePassword replaces the authenticated user's password.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var req changePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	err := h.auth.ChangePassword(c.Context(), middleware.UserID(c), req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrPasswordTooShort):
			return response.BadRequest(c, err.Error())
		case errors.Is(err, auth.ErrInvalidCredentials):
			return response.Unauthorized(c, err.Error())
		default:
			return response.ServerError(c, "password change failed")
		}
	}
	return response.Success(c, "Password changed", nil)
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req refreshRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	tokens, err := h.auth.Refresh(c.Context(), req.RefreshToken)
	if err != nil {
		return response.Unauthorized(c, "invalid or expired token")
	}
	return response.Success(c, "Tokens refreshed", tokens)
}
