package handlers

import (
	"dealtokens/internal/models"
	"dealtokens/internal/services/balance"
	"dealtokens/internal/services/walletlink"
	"dealtokens/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// WalletHandler exposes balance reads and wallet link management.
type WalletHandler struct {
	balances balance.Service
	links    walletlink.Service
}

func NewWalletHandler(balances balance.Service, links walletlink.Service) *WalletHandler {
	return &WalletHandler{balances: balances, links: links}
}

// extractUserClaims is a helper to pull validated claims from the context.
func extractUserClaims(c *fiber.Ctx) (*models.UserClaims, error) {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok || claims == nil {
		return nil, fiber.ErrUnauthorized
	}
	return claims, nil
}

// GetBalance handles GET /api/balance.
func (h *WalletHandler) GetBalance(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	bal, err := h.balances.GetBalance(c.Context(), claims.AccountID)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{
		"account_id": claims.AccountID,
		"balance":    bal,
	})
}

// Challenge handles POST /api/wallet/challenge.
func (h *WalletHandler) Challenge(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	challenge, err := h.links.IssueChallenge(c.Context(), claims.AccountID)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"challenge": challenge})
}

// Connect handles POST /api/wallet/connect.
func (h *WalletHandler) Connect(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var req struct {
		Address   string `json:"address"`
		Signature string `json:"signature"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if req.Address == "" || req.Signature == "" {
		return utils.BadRequest(c, "address and signature are required")
	}

	link, err := h.links.Connect(c.Context(), claims.AccountID, req.Address, req.Signature)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{
		"linked": true,
		"link":   link,
	})
}

// Disconnect handles POST /api/wallet/disconnect.
func (h *WalletHandler) Disconnect(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var req struct {
		Address string `json:"address"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	if _, err := h.links.Disconnect(c.Context(), claims.AccountID, req.Address); err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"linked": false})
}
