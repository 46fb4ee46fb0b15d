package wallet

import "errors"

var (
	// ErrWalletNotFound is returned when no wallet matches the lookup.
	ErrWalletNotFound = errors.New("wallet not found")

	// ErrAlreadyMerchant is returned when promoting a wallet that is
	// already a merchant wallet.
	ErrAlreadyMerchant = errors.New("wallet is already a merchant wallet")

	// ErrAdminWalletImmutable is returned for attempts to retype or
	// suspend the platform admin wallet.
	ErrAdminWalletImmutable = errors.New("admin wallet cannot be modified")
)
