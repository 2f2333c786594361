package walletlink

import (
	"regexp"
	"strings"

	apperrors "dealtokens/internal/errors"
)

// Supported networks.
const (
	NetworkEthereum = "ethereum"
	NetworkPolygon  = "polygon"
)

var evmAddressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// validateAddress checks address syntax for the target network. Both
// supported networks are EVM chains with 20-byte hex addresses.
func validateAddress(network, address string) error {
	switch network {
	case NetworkEthereum, NetworkPolygon:
		if !evmAddressPattern.MatchString(address) {
			return apperrors.ErrInvalidAddress
		}
		return nil
	default:
		return apperrors.ErrInvalidAddress
	}
}

// normalizeAddress canonicalizes an address for storage and uniqueness
// comparison.
func normalizeAddress(address string) string {
	return strings.ToLower(address)
}
