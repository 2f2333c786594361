package errors

var (
	ErrInsufficientBalance = &DomainError{
		Code:    "INSUFFICIENT_BALANCE",
		Message: "insufficient token balance",
	}
	ErrInvalidAmount = &DomainError{
		Code:    "INVALID_AMOUNT",
		Message: "amount must be positive with at most six fractional digits",
	}
	ErrInvalidOperation = &DomainError{
		Code:    "INVALID_OPERATION",
		Message: "invalid ledger operation",
	}
	ErrAccountNotFound = &DomainError{
		Code:    "ACCOUNT_NOT_FOUND",
		Message: "account not found",
	}
	ErrRateLimited = &DomainError{
		Code:    "RATE_LIMITED",
		Message: "operation rate limit exceeded",
	}
	ErrTransactionNotFound = &DomainError{
		Code:    "TRANSACTION_NOT_FOUND",
		Message: "transaction not found",
	}
	ErrTransactionFailed = &DomainError{
		Code:    "TRANSACTION_FAILED",
		Message: "transaction failed",
	}
	ErrPriceNotFound = &DomainError{
		Code:    "PRICE_NOT_FOUND",
		Message: "no pricing row covers this service type",
	}
	ErrBonusAlreadyGranted = &DomainError{
		Code:    "BONUS_ALREADY_GRANTED",
		Message: "signup bonus already granted for this account",
	}
)
