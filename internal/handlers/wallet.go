package handlers

import (
	"errors"
	"strconv"

	"digiwallet/internal/middleware"
	"digiwallet/internal/models"
	"digiwallet/internal/services/wallet"
	"digiwallet/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type WalletHandler struct {
	wallets wallet.Service
}

func NewWalletHandler(wallets wallet.Service) *WalletHandler {
	return &WalletHandler{wallets: wallets}
}

// GetMine returns the authenticated user's wallet.
func (h *WalletHandler) GetMine(c *fiber.Ctx) error {
	w, err := h.wallets.GetMyWallet(c.Context(), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, wallet.ErrWalletNotFound) {
			return response.NotFound(c, "wallet not found")
		}
		return response.ServerError(c, "failed to load wallet")
	}
	return response.Success(c, "Wallet retrieved", w)
}

// GetByNumber resolves a wallet by its public number. Used to confirm a
// recipient before sending money.
func (h *WalletHandler) GetByNumber(c *fiber.Ctx) error {
	w, err := h.wallets.GetByWalletNumber(c.Context(), c.Params("walletNumber"))
	if err != nil {
		if errors.Is(err, wallet.ErrWalletNotFound) {
			return response.NotFound(c, "wallet not found")
		}
		return response.ServerError(c, "failed to load wallet")
	}
	// Expose only what a sender needs to confirm the recipient.
	return response.Success(c, "Wallet retrieved", fiber.Map{
		"wallet_number": w.WalletNumber,
		"wallet_type":   w.WalletType,
		"wallet_status": w.WalletStatus,
	})
}

// List pages through all wallets. Admin surface.
func (h *WalletHandler) List(c *fiber.Ctx) error {
	wallets, meta, err := h.wallets.List(c.Context(), parseListQuery(c))
	if err != nil {
		return response.ServerError(c, "failed to list wallets")
	}
	return response.Paginated(c, "Wallets retrieved", wallets, meta)
}

type updateWalletStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus activates or suspends a wallet. Admin surface.
func (h *WalletHandler) UpdateStatus(c *fiber.Ctx) error {
	walletID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "invalid wallet id")
	}

	var req updateWalletStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	status := models.WalletStatus(req.Status)
	if status != models.WalletStatusActive && status != models.WalletStatusSuspended {
		return response.BadRequest(c, "status must be ACTIVE or SUSPENDED")
	}

	w, err := h.wallets.UpdateStatus(c.Context(), uint(walletID), status)
	if err != nil {
		return walletError(c, err)
	}
	return response.Success(c, "Wallet status updated", w)
}

// Promote retypes a USER wallet to MERCHANT and grants the owner the
// AGENT role. Admin surface.
func (h *WalletHandler) Promote(c *fiber.Ctx) error {
	walletID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "invalid wallet id")
	}

	w, err := h.wallets.PromoteToMerchant(c.Context(), uint(walletID))
	if err != nil {
		return walletError(c, err)
	}
	return response.Success(c, "Wallet promoted to merchant", w)
}

func walletError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, wallet.ErrWalletNotFound):
		return response.NotFound(c, err.Error())
	case errors.Is(err, wallet.ErrAlreadyMerchant),
		errors.Is(err, wallet.ErrAdminWalletImmutable):
		return response.BadRequest(c, err.Error())
	default:
		return response.ServerError(c, "wallet update failed")
	}
}
