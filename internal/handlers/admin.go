package handlers

import (
	"time"

	"dealtokens/internal/models"
	"dealtokens/internal/repositories"
	"dealtokens/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// AdminHandler exposes operational endpoints: ledger audits and pricing
// management.
type AdminHandler struct {
	ledger repositories.LedgerRepository
	prices repositories.PricingRepository
}

func NewAdminHandler(ledger repositories.LedgerRepository, prices repositories.PricingRepository) *AdminHandler {
	return &AdminHandler{ledger: ledger, prices: prices}
}

// AuditAccount handles GET /api/admin/accounts/:id/audit. It replays the
// account's completed transaction log and compares it to the stored
// balance.
func (h *AdminHandler) AuditAccount(c *fiber.Ctx) error {
	accountID, err := c.ParamsInt("id")
	if err != nil || accountID <= 0 {
		return utils.BadRequest(c, "invalid account id")
	}

	acct, err := h.ledger.GetOrCreate(c.Context(), uint(accountID))
	if err != nil {
		return respondError(c, err)
	}
	replayed, err := h.ledger.ReplayBalance(c.Context(), uint(accountID))
	if err != nil {
		return respondError(c, err)
	}

	return utils.Success(c, fiber.Map{
		"account_id":       acct.ID,
		"stored_balance":   acct.Balance,
		"replayed_balance": replayed,
		"consistent":       acct.Balance.Equal(replayed),
	})
}

// CreatePrice handles POST /api/admin/prices.
func (h *AdminHandler) CreatePrice(c *fiber.Ctx) error {
	var req struct {
		ServiceType   string          `json:"service_type"`
		Fee           decimal.Decimal `json:"fee"`
		EffectiveFrom *time.Time      `json:"effective_from"`
		EffectiveTo   *time.Time      `json:"effective_to"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if req.ServiceType == "" || !req.Fee.IsPositive() {
		return utils.BadRequest(c, "service_type and a positive fee are required")
	}

	from := time.Now().UTC()
	if req.EffectiveFrom != nil {
		from = req.EffectiveFrom.UTC()
	}
	price := &models.ServicePrice{
		ServiceType:   req.ServiceType,
		Fee:           req.Fee,
		EffectiveFrom: from,
		EffectiveTo:   req.EffectiveTo,
	}
	if err := h.prices.Create(c.Context(), price); err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"price": price})
}
