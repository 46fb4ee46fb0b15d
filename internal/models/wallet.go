package models

import (
	"time"
)

// WalletType classifies a wallet by the role it plays in transfers.
type WalletType string

const (
	WalletTypeUser     WalletType = "USER"
	WalletTypeMerchant WalletType = "MERCHANT"
	WalletTypeAdmin    WalletType = "ADMIN"
)

// WalletStatus is the lifecycle state of a wallet.
type WalletStatus string

const (
	WalletStatusActive    WalletStatus = "ACTIVE"
	WalletStatusSuspended WalletStatus = "SUSPENDED"
)

// Wallet holds one user's balance. Exactly one ADMIN wallet exists
// system-wide and collects the admin share of transaction fees.
// Balance is mutated only through the transfer engine's atomic operations.
type Wallet struct {
	ID           uint         `gorm:"primarykey" json:"id"`
	WalletNumber string       `gorm:"uniqueIndex;not null;size:13" json:"wallet_number"`
	UserID       uint         `gorm:"uniqueIndex;not null" json:"user_id"`
	Balance      float64      `gorm:"not null;default:0;check:balance >= 0" json:"balance"`
	WalletType   WalletType   `gorm:"not null;index" json:"wallet_type"`
	WalletStatus WalletStatus `gorm:"not null;default:'ACTIVE'" json:"wallet_status"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}
