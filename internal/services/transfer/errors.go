package transfer

import "errors"

// Engine errors. Every failure Execute can return wraps exactly one of
// these kinds; the HTTP layer maps them onto status codes.
var (
	ErrInvalidAmount          = errors.New("amount below minimum transfer threshold")
	ErrWalletNotFound         = errors.New("wallet not found")
	ErrPinNotSet              = errors.New("transaction pin is not set")
	ErrInvalidCredential      = errors.New("invalid transaction pin")
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrInvalidWalletPairing   = errors.New("wallet types do not match the transaction type")
	ErrInsufficientFunds      = errors.New("insufficient funds")
	ErrAtomicUnitAborted      = errors.New("transfer aborted")
)

var kinds = []error{
	ErrInvalidAmount,
	ErrWalletNotFound,
	ErrPinNotSet,
	ErrInvalidCredential,
	ErrInvalidTransactionType,
	ErrInvalidWalletPairing,
	ErrInsufficientFunds,
}

// isKind reports whether err already carries one of the engine's error
// kinds, as opposed to an infrastructure failure of the atomic unit.
func isKind(err error) bool {
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
