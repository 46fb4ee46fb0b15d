// Package fee computes transaction fees and their admin/agent split.
// The calculator is a pure function of (amount, transaction type); the
// schedule below is the single source of truth for fee semantics.
package fee

import (
	"errors"

	"digiwallet/internal/models"

	"github.com/shopspring/decimal"
)

// ErrInvalidType is returned for a transaction type outside the schedule.
var ErrInvalidType = errors.New("invalid transaction type")

// Fee schedule constants.
const (
	cashOutFeeRate    = 0.0185 // 1.85% of the amount
	cashOutAdminShare = 0.5    // half of the cash-out fee goes to the admin wallet
	sendMoneyFlatFee  = 5.0    // flat fee per send-money transfer
)

// Breakdown is the result of one fee computation. Each field is rounded
// to 2 decimals independently, not on the final aggregate.
type Breakdown struct {
	Fee       float64
	NetAmount float64
	AdminCut  float64
	AgentCut  float64
}

// Calculator computes fee breakdowns. It carries no state and is safe
// for concurrent use.
type Calculator struct{}

func NewCalculator() *Calculator {
	return &Calculator{}
}

// Calculate returns the fee breakdown for the given amount and type.
func (c *Calculator) Calculate(amount float64, txType models.TransactionType) (Breakdown, error) {
	amt := decimal.NewFromFloat(amount)

	switch txType {
	case models.TransactionTypeCashOut:
		fee := amt.Mul(decimal.NewFromFloat(cashOutFeeRate)).Round(2)
		adminCut := fee.Mul(decimal.NewFromFloat(cashOutAdminShare)).Round(2)
		agentCut := fee.Sub(adminCut).Round(2)
		return Breakdown{
			Fee:       fee.InexactFloat64(),
			NetAmount: amt.Sub(fee).Round(2).InexactFloat64(),
			AdminCut:  adminCut.InexactFloat64(),
			AgentCut:  agentCut.InexactFloat64(),
		}, nil

	case models.TransactionTypeCashIn:
		return Breakdown{NetAmount: amt.Round(2).InexactFloat64()}, nil

	case models.TransactionTypeSendMoney:
		fee := decimal.NewFromFloat(sendMoneyFlatFee)
		return Breakdown{
			Fee:       fee.InexactFloat64(),
			NetAmount: amt.Sub(fee).Round(2).InexactFloat64(),
			AdminCut:  fee.InexactFloat64(),
			AgentCut:  fee.InexactFloat64(),
		}, nil

	case models.TransactionTypeAdminCredit:
		return Breakdown{NetAmount: amt.Round(2).InexactFloat64()}, nil

	default:
		return Breakdown{}, ErrInvalidType
	}
}
