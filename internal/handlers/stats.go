package handlers

import (
	"digiwallet/internal/services/stats"
	"digiwallet/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type StatsHandler struct {
	stats stats.Service
}

func NewStatsHandler(statsService stats.Service) *StatsHandler {
	return &StatsHandler{stats: statsService}
}

func (h *StatsHandler) Users(c *fiber.Ctx) error {
	out, err := h.stats.UserStats(c.Context())
	if err != nil {
		return response.ServerError(c, "failed to load user stats")
	}
	return response.Success(c, "User stats retrieved", out)
}

func (h *StatsHandler) Transactions(c *fiber.Ctx) error {
	out, err := h.stats.TransactionStats(c.Context())
	if err != nil {
		return response.ServerError(c, "failed to load transaction stats")
	}
	return response.Success(c, "Transaction stats retrieved", out)
}
