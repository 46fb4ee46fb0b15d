package transfer

import (
	"context"
	"errors"

	"digiwallet/internal/models"
	"digiwallet/internal/repositories"
	"digiwallet/internal/services/fee"
)

// transferEnv carries one transfer's resolved state through its
// mutation plan.
type transferEnv struct {
	amount      float64
	fees        fee.Breakdown
	from        *models.Wallet
	to          *models.Wallet
	adminWallet uint
}

// mutationPlan applies one transaction type's balance effects inside
// the atomic unit. Plans return engine error kinds; anything else
// aborts the unit as an infrastructure failure.
type mutationPlan func(ctx context.Context, tx repositories.Store, env *transferEnv) error

// rule binds a transaction type to its required wallet pairing and its
// balance effects. This table is the single source of truth for the
// per-type transfer semantics.
type rule struct {
	sourceType models.WalletType
	destType   models.WalletType
	apply      mutationPlan
}

var rules = map[models.TransactionType]rule{
	models.TransactionTypeSendMoney: {
		sourceType: models.WalletTypeUser,
		destType:   models.WalletTypeUser,
		apply:      applySendMoney,
	},
	models.TransactionTypeCashIn: {
		sourceType: models.WalletTypeMerchant,
		destType:   models.WalletTypeUser,
		apply:      applyCashIn,
	},
	models.TransactionTypeCashOut: {
		sourceType: models.WalletTypeUser,
		destType:   models.WalletTypeMerchant,
		apply:      applyCashOut,
	},
	models.TransactionTypeAdminCredit: {
		sourceType: models.WalletTypeAdmin,
		destType:   models.WalletTypeMerchant,
		apply:      applyAdminCredit,
	},
}

// applySendMoney debits the sender amount+fee, credits the receiver the
// amount and routes the admin cut to the fee-sink wallet.
func applySendMoney(ctx context.Context, tx repositories.Store, env *transferEnv) error {
	debit := env.amount + env.fees.Fee
	if env.from.Balance < debit {
		return ErrInsufficientFunds
	}
	if err := increment(ctx, tx, env.from.ID, -debit); err != nil {
		return err
	}
	if err := increment(ctx, tx, env.to.ID, env.amount); err != nil {
		return err
	}
	return increment(ctx, tx, env.adminWallet, env.fees.AdminCut)
}

// applyCashIn moves the amount from the merchant wallet to the user
// wallet, fee free.
func applyCashIn(ctx context.Context, tx repositories.Store, env *transferEnv) error {
	if env.from.Balance < env.amount {
		return ErrInsufficientFunds
	}
	if err := increment(ctx, tx, env.from.ID, -env.amount); err != nil {
		return err
	}
	return increment(ctx, tx, env.to.ID, env.amount)
}

// applyCashOut debits the user amount+fee, credits the merchant the
// amount plus its agent cut and routes the admin cut to the fee sink.
// The funds check constrains the destination (merchant) wallet, not
// the debited source wallet. Intentional, see DESIGN.md.
func applyCashOut(ctx context.Context, tx repositories.Store, env *transferEnv) error {
	if env.to.Balance < env.amount+env.fees.Fee {
		return ErrInsufficientFunds
	}
	if err := increment(ctx, tx, env.from.ID, -(env.amount + env.fees.Fee)); err != nil {
		return err
	}
	if err := increment(ctx, tx, env.to.ID, env.fees.AgentCut+env.amount); err != nil {
		return err
	}
	return increment(ctx, tx, env.adminWallet, env.fees.AdminCut)
}

// applyAdminCredit credits the merchant wallet from the admin wallet.
// No funds check: the admin wallet is the system's money source here.
func applyAdminCredit(ctx context.Context, tx repositories.Store, env *transferEnv) error {
	return increment(ctx, tx, env.to.ID, env.amount)
}

// increment applies a balance delta, translating repository errors into
// engine kinds. The repository's conditional update is the authoritative
// non-negativity check; the plans' pre-checks only fail fast.
func increment(ctx context.Context, tx repositories.Store, walletID uint, delta float64) error {
	if delta == 0 {
		return nil
	}
	err := tx.Wallets().IncrementBalance(ctx, walletID, delta)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrInsufficientFunds):
		return ErrInsufficientFunds
	case errors.Is(err, repositories.ErrWalletNotFound):
		return ErrWalletNotFound
	default:
		return err
	}
}
