// Package transfer implements the transfer engine: it validates one
// transfer request, computes the fee split, and applies every balance
// mutation plus the ledger append as a single atomic unit. Concurrent
// Execute calls are safe, including ones touching the same wallets; the
// wallet repository's conditional balance update keeps balances
// non-negative even when the engine's own reads are stale.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"log"

	"digiwallet/internal/models"
	"digiwallet/internal/repositories"
	"digiwallet/internal/services/fee"
	"digiwallet/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

type service struct {
	store repositories.Store
	fees  *fee.Calculator
	cache CacheInvalidator
	cfg   Config
}

// NewService creates the transfer engine. cache may be nil.
func NewService(store repositories.Store, calc *fee.Calculator, cache CacheInvalidator, cfg Config) Service {
	if store == nil {
		panic("store is required")
	}
	if calc == nil {
		panic("fee calculator is required")
	}
	if cfg.MinAmount == 0 {
		cfg.MinAmount = MinTransferAmount
	}
	return &service{
		store: store,
		fees:  calc,
		cache: cache,
		cfg:   cfg,
	}
}

// Execute runs one transfer. The validation sequence is fixed and
// fail-fast; each condition maps to a distinct error kind. All reads
// needed for validation happen inside the same atomic unit as the
// mutations, so an abort at any point leaves no trace.
func (s *service) Execute(ctx context.Context, req Request) (*Result, error) {
	if req.Amount < s.cfg.MinAmount {
		return nil, ErrInvalidAmount
	}

	// Generated up front so the id exists even if the unit aborts; a
	// failed transfer never persists it.
	txnID, err := utils.GenerateTransactionID()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAtomicUnitAborted, err)
	}

	var env transferEnv
	err = s.store.Atomically(ctx, func(tx repositories.Store) error {
		to, err := tx.Wallets().GetByWalletNumber(ctx, req.WalletNumber)
		if err != nil {
			return walletLookupError(err)
		}
		from, err := tx.Wallets().GetByUserID(ctx, req.ActorUserID)
		if err != nil {
			return walletLookupError(err)
		}

		actor, err := tx.Users().GetByID(ctx, req.ActorUserID)
		if err != nil {
			return fmt.Errorf("failed to load actor: %w", err)
		}
		if actor.Pin == "" {
			return ErrPinNotSet
		}
		if bcrypt.CompareHashAndPassword([]byte(actor.Pin), []byte(req.Pin)) != nil {
			return ErrInvalidCredential
		}

		fees, err := s.fees.Calculate(req.Amount, req.Type)
		if err != nil {
			return ErrInvalidTransactionType
		}

		rule, ok := rules[req.Type]
		if !ok {
			return ErrInvalidTransactionType
		}
		if from.WalletType != rule.sourceType || to.WalletType != rule.destType {
			return ErrInvalidWalletPairing
		}

		env = transferEnv{
			amount:      req.Amount,
			fees:        fees,
			from:        from,
			to:          to,
			adminWallet: s.cfg.AdminWalletID,
		}
		if err := rule.apply(ctx, tx, &env); err != nil {
			return err
		}

		record := &models.Transaction{
			TransactionID:     txnID,
			TransactionType:   req.Type,
			Status:            models.TransactionStatusSuccess,
			TransactionAmount: req.Amount,
			TransactionFee:    fees.Fee,
			NetAmount:         fees.NetAmount,
			Reference:         req.Reference,
			FromWalletID:      from.ID,
			ToWalletID:        to.ID,
			FromUserID:        from.UserID,
			ToUserID:          to.UserID,
		}
		return tx.Ledger().Append(ctx, record)
	})
	if err != nil {
		if isKind(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrAtomicUnitAborted, err)
	}

	s.invalidate(ctx, env.from.UserID, env.to.UserID)

	return &Result{
		TransactionID: txnID,
		Message:       fmt.Sprintf("Transaction successful: %s of %.2f to %s", req.Type, req.Amount, req.WalletNumber),
	}, nil
}

func (s *service) GetTransaction(ctx context.Context, transactionID string) (*models.Transaction, error) {
	return s.store.Ledger().GetByTransactionID(ctx, transactionID)
}

func (s *service) ListTransactions(ctx context.Context, q repositories.ListQuery) ([]models.Transaction, repositories.Meta, error) {
	return s.store.Ledger().List(ctx, q)
}

// ListMyTransactions lists records touching the caller's own wallet on
// either side.
func (s *service) ListMyTransactions(ctx context.Context, userID uint, q repositories.ListQuery) ([]models.Transaction, repositories.Meta, error) {
	wallet, err := s.store.Wallets().GetByUserID(ctx, userID)
	if err != nil {
		return nil, repositories.Meta{}, walletLookupError(err)
	}
	return s.store.Ledger().ListByWallet(ctx, wallet.ID, q)
}

// invalidate drops cached wallet reads for the touched users. Cache
// errors are logged, never surfaced: the transfer already committed.
func (s *service) invalidate(ctx context.Context, userIDs ...uint) {
	if s.cache == nil {
		return
	}
	for _, id := range userIDs {
		if err := s.cache.InvalidateWallet(ctx, id); err != nil {
			log.Printf("failed to invalidate wallet cache for user %d: %v", id, err)
		}
	}
}

func walletLookupError(err error) error {
	if errors.Is(err, repositories.ErrWalletNotFound) {
		return ErrWalletNotFound
	}
	return err
}
