package handlers

import (
	"errors"

	"digiwallet/internal/middleware"
	"digiwallet/internal/models"
	"digiwallet/internal/services/transfer"
	"digiwallet/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type TransactionHandler struct {
	transfers transfer.Service
}

func NewTransactionHandler(transfers transfer.Service) *TransactionHandler {
	return &TransactionHandler{transfers: transfers}
}

type createTransactionRequest struct {
	WalletNumber    string  `json:"walletNumber"`
	Amount          float64 `json:"amount"`
	TransactionType string  `json:"transactionType"`
	Reference       string  `json:"reference"`
	Pin             string  `json:"pin"`
}

// Create executes a transfer on behalf of the authenticated user.
func (h *TransactionHandler) Create(c *fiber.Ctx) error {
	var req createTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	if req.WalletNumber == "" {
		return response.BadRequest(c, "walletNumber is required")
	}
	if req.TransactionType == "" {
		return response.BadRequest(c, "transactionType is required")
	}
	if len(req.Pin) < 5 {
		return response.BadRequest(c, "pin must be at least 5 characters")
	}

	result, err := h.transfers.Execute(c.Context(), transfer.Request{
		ActorUserID:  middleware.UserID(c),
		WalletNumber: req.WalletNumber,
		Amount:       req.Amount,
		Type:         models.TransactionType(req.TransactionType),
		Pin:          req.Pin,
		Reference:    req.Reference,
	})
	if err != nil {
		return transferError(c, err)
	}

	return response.Created(c, result.Message, fiber.Map{
		"transactionId": result.TransactionID,
	})
}

// List pages through the full ledger. Admin surface.
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	records, meta, err := h.transfers.ListTransactions(c.Context(), parseListQuery(c))
	if err != nil {
		return response.ServerError(c, "failed to list transactions")
	}
	return response.Paginated(c, "Transactions retrieved", records, meta)
}

// ListMine pages through the authenticated user's own ledger records.
func (h *TransactionHandler) ListMine(c *fiber.Ctx) error {
	records, meta, err := h.transfers.ListMyTransactions(c.Context(), middleware.UserID(c), parseListQuery(c))
	if err != nil {
		if errors.Is(err, transfer.ErrWalletNotFound) {
			return response.NotFound(c, "wallet not found")
		}
		return response.ServerError(c, "failed to list transactions")
	}
	return response.Paginated(c, "Transactions retrieved", records, meta)
}

// Get returns a single ledger record by its public transaction ID.
// Admin surface.
func (h *TransactionHandler) Get(c *fiber.Ctx) error {
	record, err := h.transfers.GetTransaction(c.Context(), c.Params("transactionId"))
	if err != nil {
		return response.NotFound(c, "transaction not found")
	}
	return response.Success(c, "Transaction retrieved", record)
}

// transferError maps engine error kinds to HTTP statuses.
func transferError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, transfer.ErrInvalidAmount),
		errors.Is(err, transfer.ErrInvalidTransactionType),
		errors.Is(err, transfer.ErrInvalidWalletPairing),
		errors.Is(err, transfer.ErrInsufficientFunds):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, transfer.ErrPinNotSet),
		errors.Is(err, transfer.ErrInvalidCredential):
		return response.Unauthorized(c, err.Error())
	case errors.Is(err, transfer.ErrWalletNotFound):
		return response.NotFound(c, err.Error())
	default:
		return response.ServerError(c, "transaction failed")
	}
}
