package handlers

import (
	"errors"

	apperrors "dealtokens/internal/errors"
	"dealtokens/internal/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// respondError maps a domain error to its HTTP status. Unknown errors are
// logged and reported as a generic 500 so internals never leak.
func respondError(c *fiber.Ctx, err error) error {
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) {
		zap.L().Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
		return utils.InternalError(c, "internal error")
	}

	status := fiber.StatusBadRequest
	switch domainErr {
	case apperrors.ErrRateLimited:
		status = fiber.StatusTooManyRequests
	case apperrors.ErrAccountNotFound, apperrors.ErrTransactionNotFound,
		apperrors.ErrWalletNotFound, apperrors.ErrPriceNotFound:
		status = fiber.StatusNotFound
	case apperrors.ErrWalletAlreadyLinked, apperrors.ErrBonusAlreadyGranted:
		status = fiber.StatusConflict
	case apperrors.ErrInvalidSignature:
		status = fiber.StatusUnauthorized
	case apperrors.ErrGatewayUnavailable:
		status = fiber.StatusBadGateway
	}

	return utils.Respond(c, status, fiber.Map{
		"error": domainErr.Message,
		"code":  domainErr.Code,
	})
}
