package transaction

// AmountScale is the fixed-point scale for all token amounts. Amounts with
// more fractional digits are rejected, not rounded.
const AmountScale = 6

// External transfers are audit-only rows; they carry their own type so the
// replay path can tell them from internal value movement.
const TypeExternalTransfer = "EXTERNAL_TRANSFER"

// transferTypes are the transaction types callers may pass to Transfer.
var transferTypes = map[string]bool{
	"PURCHASE":         true,
	"AI_USAGE":         true,
	"SIGNUP_BONUS":     true,
	"REFERRAL_BONUS":   true,
	"ADMIN_ADJUSTMENT": true,
	"REDEMPTION_CODE":  true,
	"REFUND":           true,
	"REWARD":           true,
}

// History paging bounds.
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)
