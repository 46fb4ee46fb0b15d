package transfer

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"digiwallet/internal/models"
	"digiwallet/internal/repositories"
	"digiwallet/internal/services/fee"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// fakeStore is an in-memory Store with real rollback semantics: a
// failed Atomically restores the pre-transaction snapshot.
type fakeStore struct {
	mu      sync.Mutex
	wallets map[uint]*models.Wallet
	users   map[uint]*models.User
	ledger  []models.Transaction
	nextID  uint
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		wallets: map[uint]*models.Wallet{},
		users:   map[uint]*models.User{},
		nextID:  1,
	}
}

func (f *fakeStore) snapshot() (map[uint]*models.Wallet, []models.Transaction) {
	wallets := make(map[uint]*models.Wallet, len(f.wallets))
	for id, w := range f.wallets {
		cp := *w
		wallets[id] = &cp
	}
	ledger := make([]models.Transaction, len(f.ledger))
	copy(ledger, f.ledger)
	return wallets, ledger
}

func (f *fakeStore) Wallets() repositories.WalletRepository { return &fakeWallets{f} }

func (f *fakeStore) Ledger() repositories.TransactionRepository { return &fakeLedger{f} }

func (f *fakeStore) Users() repositories.UserRepository { return &fakeUsers{f} }

func (f *fakeStore) Atomically(_ context.Context, fn func(repositories.Store) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	wallets, ledger := f.snapshot()
	if err := fn(f); err != nil {
		f.wallets, f.ledger = wallets, ledger
		return err
	}
	return nil
}

type fakeWallets struct{ s *fakeStore }

func (r *fakeWallets) CreateWithInitialBalance(_ context.Context, userID uint, walletType models.WalletType, balance float64) (*models.Wallet, error) {
	w := &models.Wallet{
		ID:           r.s.nextID,
		WalletNumber: strings.Repeat("0", 12) + string(rune('0'+r.s.nextID%10)),
		UserID:       userID,
		Balance:      balance,
		WalletType:   walletType,
		WalletStatus: models.WalletStatusActive,
	}
	r.s.nextID++
	r.s.wallets[w.ID] = w
	return w, nil
}

func (r *fakeWallets) GetByID(_ context.Context, id uint) (*models.Wallet, error) {
	if w, ok := r.s.wallets[id]; ok {
		cp := *w
		return &cp, nil
	}
	return nil, repositories.ErrWalletNotFound
}

func (r *fakeWallets) GetByWalletNumber(_ context.Context, number string) (*models.Wallet, error) {
	for _, w := range r.s.wallets {
		if w.WalletNumber == number {
			cp := *w
			return &cp, nil
		}
	}
	return nil, repositories.ErrWalletNotFound
}

func (r *fakeWallets) GetByUserID(_ context.Context, userID uint) (*models.Wallet, error) {
	for _, w := range r.s.wallets {
		if w.UserID == userID {
			cp := *w
			return &cp, nil
		}
	}
	return nil, repositories.ErrWalletNotFound
}

func (r *fakeWallets) GetByType(_ context.Context, walletType models.WalletType) (*models.Wallet, error) {
	for _, w := range r.s.wallets {
		if w.WalletType == walletType {
			cp := *w
			return &cp, nil
		}
	}
	return nil, repositories.ErrWalletNotFound
}

func (r *fakeWallets) IncrementBalance(_ context.Context, walletID uint, delta float64) error {
	w, ok := r.s.wallets[walletID]
	if !ok {
		return repositories.ErrWalletNotFound
	}
	if w.Balance+delta < 0 {
		return repositories.ErrInsufficientFunds
	}
	w.Balance += delta
	return nil
}

func (r *fakeWallets) UpdateStatus(_ context.Context, walletID uint, status models.WalletStatus) error {
	if w, ok := r.s.wallets[walletID]; ok {
		w.WalletStatus = status
		return nil
	}
	return repositories.ErrWalletNotFound
}

func (r *fakeWallets) UpdateType(_ context.Context, walletID uint, walletType models.WalletType) error {
	if w, ok := r.s.wallets[walletID]; ok {
		w.WalletType = walletType
		return nil
	}
	return repositories.ErrWalletNotFound
}

func (r *fakeWallets) List(context.Context, repositories.ListQuery) ([]models.Wallet, repositories.Meta, error) {
	return nil, repositories.Meta{}, nil
}

type fakeLedger struct{ s *fakeStore }

func (r *fakeLedger) Append(_ context.Context, record *models.Transaction) error {
	for _, existing := range r.s.ledger {
		if existing.TransactionID == record.TransactionID {
			return repositories.ErrDuplicateTransaction
		}
	}
	record.ID = r.s.nextID
	r.s.nextID++
	record.CreatedAt = time.Now()
	r.s.ledger = append(r.s.ledger, *record)
	return nil
}

func (r *fakeLedger) GetByTransactionID(_ context.Context, transactionID string) (*models.Transaction, error) {
	for i := range r.s.ledger {
		if r.s.ledger[i].TransactionID == transactionID {
			cp := r.s.ledger[i]
			return &cp, nil
		}
	}
	return nil, repositories.ErrTransactionNotFound
}

func (r *fakeLedger) List(_ context.Context, q repositories.ListQuery) ([]models.Transaction, repositories.Meta, error) {
	out := append([]models.Transaction(nil), r.s.ledger...)
	return out, repositories.Meta{Total: int64(len(out))}, nil
}

func (r *fakeLedger) ListByWallet(_ context.Context, walletID uint, q repositories.ListQuery) ([]models.Transaction, repositories.Meta, error) {
	var out []models.Transaction
	for _, rec := range r.s.ledger {
		if rec.FromWalletID == walletID || rec.ToWalletID == walletID {
			out = append(out, rec)
		}
	}
	return out, repositories.Meta{Total: int64(len(out))}, nil
}

func (r *fakeLedger) CountAll(context.Context) (int64, error) { return int64(len(r.s.ledger)), nil }
func (r *fakeLedger) CountByStatus(context.Context, models.TransactionStatus) (int64, error) {
	return 0, nil
}
func (r *fakeLedger) CountCreatedSince(context.Context, time.Time) (int64, error) { return 0, nil }
func (r *fakeLedger) CountByType(context.Context) (map[models.TransactionType]int64, error) {
	return nil, nil
}

type fakeUsers struct{ s *fakeStore }

func (r *fakeUsers) Create(_ context.Context, user *models.User) error {
	user.ID = r.s.nextID
	r.s.nextID++
	r.s.users[user.ID] = user
	return nil
}

func (r *fakeUsers) GetByID(_ context.Context, id uint) (*models.User, error) {
	if u, ok := r.s.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUsers) GetByEmail(context.Context, string) (*models.User, error) {
	return nil, repositories.ErrUserNotFound
}
func (r *fakeUsers) SetPin(context.Context, uint, string) error { return nil }

func (r *fakeUsers) UpdatePassword(context.Context, uint, string) error { return nil }

func (r *fakeUsers) UpdateRole(context.Context, uint, models.UserRole) error { return nil }

func (r *fakeUsers) SetActive(context.Context, uint, string) error { return nil }

func (r *fakeUsers) MarkVerified(context.Context, uint) error { return nil }

func (r *fakeUsers) List(context.Context, repositories.ListQuery) ([]models.User, repositories.Meta, error) {
	return nil, repositories.Meta{}, nil
}

func (r *fakeUsers) CountAll(context.Context) (int64, error) { return 0, nil }

func (r *fakeUsers) CountByActive(context.Context, string) (int64, error) { return 0, nil }

func (r *fakeUsers) CountCreatedSince(context.Context, time.Time) (int64, error) { return 0, nil }

func (r *fakeUsers) CountByRole(context.Context) (map[models.UserRole]int64, error) {
	return nil, nil
}

// fixture wires a store with the standard cast: two users, a merchant,
// and the admin fee sink. Everyone's PIN is "12345".
type fixture struct {
	store    *fakeStore
	svc      Service
	alice    *models.Wallet // USER, balance 1000
	bob      *models.Wallet // USER, balance 500
	merchant *models.Wallet // MERCHANT, balance 10000
	admin    *models.Wallet // ADMIN, balance 0
}

const testPin = "12345"

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := newFakeStore()
	ctx := context.Background()

	pinHash, err := bcrypt.GenerateFromPassword([]byte(testPin), bcrypt.MinCost)
	require.NoError(t, err)

	addUser := func(email string, role models.UserRole, pin string) *models.User {
		u := &models.User{Email: email, Role: role, Pin: pin}
		require.NoError(t, store.Users().Create(ctx, u))
		return u
	}

	alice := addUser("alice@example.com", models.RoleUser, string(pinHash))
	bob := addUser("bob@example.com", models.RoleUser, string(pinHash))
	agent := addUser("agent@example.com", models.RoleAgent, string(pinHash))
	root := addUser("root@example.com", models.RoleSuperAdmin, string(pinHash))

	aliceW, _ := store.Wallets().CreateWithInitialBalance(ctx, alice.ID, models.WalletTypeUser, 1000)
	bobW, _ := store.Wallets().CreateWithInitialBalance(ctx, bob.ID, models.WalletTypeUser, 500)
	merchantW, _ := store.Wallets().CreateWithInitialBalance(ctx, agent.ID, models.WalletTypeMerchant, 10000)
	adminW, _ := store.Wallets().CreateWithInitialBalance(ctx, root.ID, models.WalletTypeAdmin, 0)

	svc := NewService(store, fee.NewCalculator(), nil, Config{AdminWalletID: adminW.ID})

	return &fixture{
		store:    store,
		svc:      svc,
		alice:    aliceW,
		bob:      bobW,
		merchant: merchantW,
		admin:    adminW,
	}
}

func (f *fixture) balance(id uint) float64 {
	return f.store.wallets[id].Balance
}

func TestExecute_SendMoney(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.Execute(context.Background(), Request{
		ActorUserID:  f.alice.UserID,
		WalletNumber: f.bob.WalletNumber,
		Amount:       100,
		Type:         models.TransactionTypeSendMoney,
		Pin:          testPin,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.TransactionID, "txn_"))
	assert.Contains(t, res.Message, "SEND_MONEY")

	// sender pays amount + flat fee, receiver gets the amount, the
	// admin wallet collects the admin cut
	assert.Equal(t, 895.0, f.balance(f.alice.ID))
	assert.Equal(t, 600.0, f.balance(f.bob.ID))
	assert.Equal(t, 5.0, f.balance(f.admin.ID))

	require.Len(t, f.store.ledger, 1)
	rec := f.store.ledger[0]
	assert.Equal(t, models.TransactionStatusSuccess, rec.Status)
	assert.Equal(t, models.TransactionTypeSendMoney, rec.TransactionType)
	assert.Equal(t, 100.0, rec.TransactionAmount)
	assert.Equal(t, 5.0, rec.TransactionFee)
	assert.Equal(t, 95.0, rec.NetAmount)
	assert.Equal(t, f.alice.ID, rec.FromWalletID)
	assert.Equal(t, f.bob.ID, rec.ToWalletID)
}

func TestExecute_CashOut(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Execute(context.Background(), Request{
		ActorUserID:  f.alice.UserID,
		WalletNumber: f.merchant.WalletNumber,
		Amount:       200,
		Type:         models.TransactionTypeCashOut,
		Pin:          testPin,
	})
	require.NoError(t, err)

	// fee = 200 * 1.85% = 3.7, split 1.85 / 1.85
	assert.InDelta(t, 1000-203.7, f.balance(f.alice.ID), 1e-9)
	assert.InDelta(t, 10000+201.85, f.balance(f.merchant.ID), 1e-9)
	assert.InDelta(t, 1.85, f.balance(f.admin.ID), 1e-9)

	require.Len(t, f.store.ledger, 1)
	assert.Equal(t, 3.7, f.store.ledger[0].TransactionFee)
}

func TestExecute_CashIn(t *testing.T) {
	f := newFixture(t)

	// merchant's owner pushes cash into bob's wallet
	merchantOwner := f.merchant.UserID
	_, err := f.svc.Execute(context.Background(), Request{
		ActorUserID:  merchantOwner,
		WalletNumber: f.bob.WalletNumber,
		Amount:       50,
		Type:         models.TransactionTypeCashIn,
		Pin:          testPin,
	})
	require.NoError(t, err)

	assert.Equal(t, 9950.0, f.balance(f.merchant.ID))
	assert.Equal(t, 550.0, f.balance(f.bob.ID))
	assert.Equal(t, 0.0, f.balance(f.admin.ID))
	require.Len(t, f.store.ledger, 1)
	assert.Equal(t, 0.0, f.store.ledger[0].TransactionFee)
}

func TestExecute_AdminCredit(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Execute(context.Background(), Request{
		ActorUserID:  f.admin.UserID,
		WalletNumber: f.merchant.WalletNumber,
		Amount:       500,
		Type:         models.TransactionTypeAdminCredit,
		Pin:          testPin,
	})
	require.NoError(t, err)

	assert.Equal(t, 10500.0, f.balance(f.merchant.ID))
}

func TestExecute_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		req  func(f *fixture) Request
		want error
	}{
		{
			name: "amount below minimum",
			req: func(f *fixture) Request {
				return Request{ActorUserID: f.alice.UserID, WalletNumber: f.bob.WalletNumber, Amount: 49, Type: models.TransactionTypeSendMoney, Pin: testPin}
			},
			want: ErrInvalidAmount,
		},
		{
			name: "destination wallet unknown",
			req: func(f *fixture) Request {
				return Request{ActorUserID: f.alice.UserID, WalletNumber: "9999999999999", Amount: 100, Type: models.TransactionTypeSendMoney, Pin: testPin}
			},
			want: ErrWalletNotFound,
		},
		{
			name: "actor has no wallet",
			req: func(f *fixture) Request {
				return Request{ActorUserID: 424242, WalletNumber: f.bob.WalletNumber, Amount: 100, Type: models.TransactionTypeSendMoney, Pin: testPin}
			},
			want: ErrWalletNotFound,
		},
		{
			name: "wrong pin",
			req: func(f *fixture) Request {
				return Request{ActorUserID: f.alice.UserID, WalletNumber: f.bob.WalletNumber, Amount: 100, Type: models.TransactionTypeSendMoney, Pin: "00000"}
			},
			want: ErrInvalidCredential,
		},
		{
			name: "unknown transaction type",
			req: func(f *fixture) Request {
				return Request{ActorUserID: f.alice.UserID, WalletNumber: f.bob.WalletNumber, Amount: 100, Type: "REFUND", Pin: testPin}
			},
			want: ErrInvalidTransactionType,
		},
		{
			name: "cash in from a user wallet is rejected",
			req: func(f *fixture) Request {
				return Request{ActorUserID: f.alice.UserID, WalletNumber: f.bob.WalletNumber, Amount: 100, Type: models.TransactionTypeCashIn, Pin: testPin}
			},
			want: ErrInvalidWalletPairing,
		},
		{
			name: "admin credit to a user wallet is rejected",
			req: func(f *fixture) Request {
				return Request{ActorUserID: f.admin.UserID, WalletNumber: f.bob.WalletNumber, Amount: 100, Type: models.TransactionTypeAdminCredit, Pin: testPin}
			},
			want: ErrInvalidWalletPairing,
		},
		{
			name: "insufficient funds",
			req: func(f *fixture) Request {
				return Request{ActorUserID: f.bob.UserID, WalletNumber: f.alice.WalletNumber, Amount: 1000, Type: models.TransactionTypeSendMoney, Pin: testPin}
			},
			want: ErrInsufficientFunds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			before, ledgerBefore := f.store.snapshot()

			_, err := f.svc.Execute(context.Background(), tt.req(f))
			assert.ErrorIs(t, err, tt.want)

			// no wallet balance changed and no ledger row appeared
			after, ledgerAfter := f.store.snapshot()
			assert.Equal(t, len(ledgerBefore), len(ledgerAfter))
			for id, w := range before {
				assert.Equal(t, w.Balance, after[id].Balance, "wallet %d", id)
			}
		})
	}
}

func TestExecute_PinNotSet(t *testing.T) {
	f := newFixture(t)
	f.store.users[f.alice.UserID].Pin = ""

	_, err := f.svc.Execute(context.Background(), Request{
		ActorUserID:  f.alice.UserID,
		WalletNumber: f.bob.WalletNumber,
		Amount:       100,
		Type:         models.TransactionTypeSendMoney,
		Pin:          testPin,
	})
	assert.ErrorIs(t, err, ErrPinNotSet)
	assert.Empty(t, f.store.ledger)
}

func TestExecute_AbortRevertsAppliedMutations(t *testing.T) {
	// The admin wallet reference is broken, so the final admin credit
	// fails after the debit and the receiver credit already applied.
	f := newFixture(t)
	svc := NewService(f.store, fee.NewCalculator(), nil, Config{AdminWalletID: 9999})

	_, err := svc.Execute(context.Background(), Request{
		ActorUserID:  f.alice.UserID,
		WalletNumber: f.bob.WalletNumber,
		Amount:       100,
		Type:         models.TransactionTypeSendMoney,
		Pin:          testPin,
	})
	require.Error(t, err)

	assert.Equal(t, 1000.0, f.balance(f.alice.ID))
	assert.Equal(t, 500.0, f.balance(f.bob.ID))
	assert.Empty(t, f.store.ledger)
}

func TestExecute_CashOutChecksDestinationBalance(t *testing.T) {
	// The funds check constrains the merchant (destination) wallet, not
	// the debited user wallet: observed behavior, kept deliberately.
	f := newFixture(t)
	f.store.wallets[f.merchant.ID].Balance = 100

	_, err := f.svc.Execute(context.Background(), Request{
		ActorUserID:  f.alice.UserID,
		WalletNumber: f.merchant.WalletNumber,
		Amount:       200,
		Type:         models.TransactionTypeCashOut,
		Pin:          testPin,
	})
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, 1000.0, f.balance(f.alice.ID))
}

func TestExecute_ResubmissionIsNotIdempotent(t *testing.T) {
	// Known gap: an identical resubmission is a second independent
	// transfer. This pins the current behavior.
	f := newFixture(t)
	req := Request{
		ActorUserID:  f.alice.UserID,
		WalletNumber: f.bob.WalletNumber,
		Amount:       100,
		Type:         models.TransactionTypeSendMoney,
		Pin:          testPin,
	}

	first, err := f.svc.Execute(context.Background(), req)
	require.NoError(t, err)
	second, err := f.svc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.NotEqual(t, first.TransactionID, second.TransactionID)
	assert.Len(t, f.store.ledger, 2)
	assert.Equal(t, 1000.0-2*105, f.balance(f.alice.ID))
	assert.Equal(t, 500.0+2*100, f.balance(f.bob.ID))
}

func TestExecute_ConcurrentDebitsNeverGoNegative(t *testing.T) {
	f := newFixture(t)

	// 10 concurrent sends of 100 (+5 fee each) from a 1000 balance:
	// exactly 9 can fit, the 10th must fail.
	const attempts = 10
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Execute(context.Background(), Request{
				ActorUserID:  f.alice.UserID,
				WalletNumber: f.bob.WalletNumber,
				Amount:       100,
				Type:         models.TransactionTypeSendMoney,
				Pin:          testPin,
			})
		}(i)
	}
	wg.Wait()

	var succeeded, failed int
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			failed++
			assert.ErrorIs(t, err, ErrInsufficientFunds)
		}
	}

	assert.Equal(t, 9, succeeded)
	assert.Equal(t, 1, failed)
	assert.GreaterOrEqual(t, f.balance(f.alice.ID), 0.0)
	assert.InDelta(t, 1000-9*105, f.balance(f.alice.ID), 1e-9)
	assert.Len(t, f.store.ledger, 9)
}

func TestListMyTransactions(t *testing.T) {
	f := newFixture(t)

	for i := 0; i < 3; i++ {
		_, err := f.svc.Execute(context.Background(), Request{
			ActorUserID:  f.alice.UserID,
			WalletNumber: f.bob.WalletNumber,
			Amount:       100,
			Type:         models.TransactionTypeSendMoney,
			Pin:          testPin,
		})
		require.NoError(t, err)
	}

	records, meta, err := f.svc.ListMyTransactions(context.Background(), f.bob.UserID, repositories.ListQuery{})
	require.NoError(t, err)
	assert.Len(t, records, 3)
	assert.Equal(t, int64(3), meta.Total)

	_, _, err = f.svc.ListMyTransactions(context.Background(), 424242, repositories.ListQuery{})
	assert.ErrorIs(t, err, ErrWalletNotFound)
}
