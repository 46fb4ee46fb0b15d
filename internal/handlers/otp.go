package handlers

import (
	"errors"

	"digiwallet/internal/services/otp"
	"digiwallet/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type OTPHandler struct {
	otp otp.Service
}

func NewOTPHandler(otpService otp.Service) *OTPHandler {
	return &OTPHandler{otp: otpService}
}

type sendCodeRequest struct {
	Email string `json:"email"`
}

func (h *OTPHandler) Send(c *fiber.Ctx) error {
	var req sendCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	if req.Email == "" {
		return response.BadRequest(c, "email is required")
	}

	if err := h.otp.SendCode(c.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, otp.ErrUserNotFound):
			return response.NotFound(c, err.Error())
		case errors.Is(err, otp.ErrAlreadyVerified):
			return response.BadRequest(c, err.Error())
		default:
			return response.ServerError(c, "failed to send verification code")
		}
	}
	return response.Success(c, "Verification code sent", nil)
}

type verifyCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func (h *OTPHandler) Verify(c *fiber.Ctx) error {
	var req verifyCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	if req.Email == "" || req.Code == "" {
		return response.BadRequest(c, "email and code are required")
	}

	wallet, err := h.otp.VerifyCode(c.Context(), req.Email, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, otp.ErrUserNotFound):
			return response.NotFound(c, err.Error())
		case errors.Is(err, otp.ErrCodeExpired), errors.Is(err, otp.ErrCodeMismatch),
			errors.Is(err, otp.ErrAlreadyVerified):
			return response.BadRequest(c, err.Error())
		default:
			return response.ServerError(c, "verification failed")
		}
	}
	return response.Success(c, "Account verified", wallet)
}
