package errors

var (
	ErrWalletAlreadyLinked = &DomainError{
		Code:    "WALLET_ALREADY_LINKED",
		Message: "wallet address is already linked",
	}
	ErrWalletNotFound = &DomainError{
		Code:    "WALLET_NOT_FOUND",
		Message: "no active wallet link for this account",
	}
	ErrWalletLinked = &DomainError{
		Code:    "WALLET_LINKED",
		Message: "account balance authority is external while a wallet is linked",
	}
	ErrInvalidAddress = &DomainError{
		Code:    "INVALID_ADDRESS",
		Message: "malformed wallet address for the target network",
	}
	ErrInvalidSignature = &DomainError{
		Code:    "INVALID_SIGNATURE",
		Message: "signature does not prove control of the address",
	}
	ErrChallengeExpired = &DomainError{
		Code:    "CHALLENGE_EXPIRED",
		Message: "no pending link challenge for this account",
	}
	ErrGatewayUnavailable = &DomainError{
		Code:    "GATEWAY_UNAVAILABLE",
		Message: "blockchain gateway unavailable",
	}
)
