package handlers

import (
	"dealtokens/internal/services/transaction"
	"dealtokens/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// TransactionHandler exposes the transaction processor's operations.
type TransactionHandler struct {
	service transaction.Service
}

func NewTransactionHandler(service transaction.Service) *TransactionHandler {
	return &TransactionHandler{service: service}
}

// Transfer handles POST /api/transfer.
func (h *TransactionHandler) Transfer(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var req struct {
		ToAccountID uint            `json:"to_account_id"`
		Amount      decimal.Decimal `json:"amount"`
		Reason      string          `json:"reason"`
		Type        string          `json:"type"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if req.Type == "" {
		req.Type = "REFERRAL_BONUS"
	}

	tx, err := h.service.Transfer(c.Context(), claims.AccountID, req.ToAccountID, req.Amount, req.Reason, req.Type)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{
		"transaction_id": tx.Reference,
		"status":         tx.Status,
		"balance_after":  tx.BalanceAfter,
	})
}

// ChargeUsage handles POST /api/usage/charge: deducts the fee for one AI
// service invocation.
func (h *TransactionHandler) ChargeUsage(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var req struct {
		ServiceType string `json:"service_type"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if req.ServiceType == "" {
		return utils.BadRequest(c, "service_type is required")
	}

	tx, err := h.service.DeductServiceFee(c.Context(), claims.AccountID, req.ServiceType)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{
		"transaction_id": tx.Reference,
		"balance_after":  tx.BalanceAfter,
	})
}

// ClaimSignupBonus handles POST /api/bonus.
func (h *TransactionHandler) ClaimSignupBonus(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	tx, err := h.service.GrantSignupBonus(c.Context(), claims.AccountID)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{
		"transaction_id": tx.Reference,
		"balance_after":  tx.BalanceAfter,
	})
}

// History handles GET /api/transactions.
func (h *TransactionHandler) History(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	limit := c.QueryInt("limit", transaction.DefaultHistoryLimit)
	offset := c.QueryInt("offset", 0)

	entries, err := h.service.History(c.Context(), claims.AccountID, limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"transactions": entries})
}

// Status handles GET /api/transactions/:reference/status.
func (h *TransactionHandler) Status(c *fiber.Ctx) error {
	status, err := h.service.GetStatus(c.Context(), c.Params("reference"))
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"status": status})
}

// ExternalTransfer handles POST /api/wallet/transfer: an on-chain transfer
// from the caller's linked wallet.
func (h *TransactionHandler) ExternalTransfer(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var req struct {
		ToAddress string          `json:"to_address"`
		Amount    decimal.Decimal `json:"amount"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	tx, err := h.service.TransferExternal(c.Context(), claims.AccountID, req.ToAddress, req.Amount)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{
		"transaction_id": tx.Reference,
		"status":         tx.Status,
	})
}

// DistributeReward handles POST /api/admin/rewards.
func (h *TransactionHandler) DistributeReward(c *fiber.Ctx) error {
	var req struct {
		AccountID  uint            `json:"account_id"`
		RewardType string          `json:"reward_type"`
		Amount     decimal.Decimal `json:"amount"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	tx, err := h.service.DistributeReward(c.Context(), req.AccountID, req.RewardType, req.Amount)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{
		"transaction_id": tx.Reference,
		"balance_after":  tx.BalanceAfter,
	})
}

// CreditPurchase handles POST /api/admin/purchases, called by the order
// pipeline once a token purchase settles.
func (h *TransactionHandler) CreditPurchase(c *fiber.Ctx) error {
	var req struct {
		AccountID uint            `json:"account_id"`
		Amount    decimal.Decimal `json:"amount"`
		OrderRef  string          `json:"order_ref"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	tx, err := h.service.CreditPurchase(c.Context(), req.AccountID, req.Amount, req.OrderRef)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{
		"transaction_id": tx.Reference,
		"balance_after":  tx.BalanceAfter,
	})
}

// RedeemCode handles POST /api/admin/redemptions, called by the deal app
// after it validates a redemption code.
func (h *TransactionHandler) RedeemCode(c *fiber.Ctx) error {
	var req struct {
		AccountID uint            `json:"account_id"`
		Amount    decimal.Decimal `json:"amount"`
		Code      string          `json:"code"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	tx, err := h.service.RedeemCode(c.Context(), req.AccountID, req.Amount, req.Code)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{
		"transaction_id": tx.Reference,
		"balance_after":  tx.BalanceAfter,
	})
}

// ConfirmExternal handles POST /api/admin/confirmations: the callback the
// chain gateway invokes once an on-chain transfer settles or fails.
func (h *TransactionHandler) ConfirmExternal(c *fiber.Ctx) error {
	var req struct {
		Reference string `json:"reference"`
		Success   bool   `json:"success"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	tx, err := h.service.ConfirmExternal(c.Context(), req.Reference, req.Success)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{
		"transaction_id": tx.Reference,
		"status":         tx.Status,
	})
}
