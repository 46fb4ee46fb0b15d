package models

import (
	"time"
)

// TransactionType is the closed set of supported transfer types.
type TransactionType string

const (
	TransactionTypeCashIn      TransactionType = "CASH_IN"
	TransactionTypeCashOut     TransactionType = "CASH_OUT"
	TransactionTypeSendMoney   TransactionType = "SEND_MONEY"
	TransactionTypeAdminCredit TransactionType = "ADMIN_CREDIT"
)

// TransactionStatus is the terminal state of a ledger record.
type TransactionStatus string

const (
	TransactionStatusPending TransactionStatus = "PENDING"
	TransactionStatusSuccess TransactionStatus = "SUCCESS"
	TransactionStatusFailed  TransactionStatus = "FAILED"
)

// Transaction is an immutable ledger record of one completed transfer.
// A row is written only inside the same atomic unit as the balance
// mutations it describes; a failed transfer leaves no row behind.
type Transaction struct {
	ID                uint              `gorm:"primarykey" json:"id"`
	TransactionID     string            `gorm:"uniqueIndex;not null" json:"transaction_id"`
	TransactionType   TransactionType   `gorm:"not null;index" json:"transaction_type"`
	Status            TransactionStatus `gorm:"not null;index" json:"status"`
	TransactionAmount float64           `gorm:"not null" json:"transaction_amount"`
	TransactionFee    float64           `gorm:"default:0" json:"transaction_fee"`
	NetAmount         float64           `json:"net_amount"`
	Reference         string            `json:"reference"`
	FromWalletID      uint              `gorm:"not null;index" json:"from_wallet_id"`
	ToWalletID        uint              `gorm:"not null;index" json:"to_wallet_id"`
	FromUserID        uint              `gorm:"not null" json:"from_user_id"`
	ToUserID          uint              `gorm:"not null" json:"to_user_id"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}
