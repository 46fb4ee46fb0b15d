package utils

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

// GenerateWalletNumber returns a random 13-digit wallet number.
// Collision checking is the caller's job; the repository retries on a
// duplicate wallet number at creation time.
func GenerateWalletNumber() (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	b[0] = 0 // keep the value inside uint64 positive range after the modulo
	n := binary.BigEndian.Uint64(b) % 1e13
	return fmt.Sprintf("%013d", n), nil
}

// GenerateTransactionID returns a human-referenceable ledger key of the
// form txn_<16 hex chars>. Uniqueness is enforced by the ledger index.
func GenerateTransactionID() (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "txn_" + hex.EncodeToString(b), nil
}

// GenerateOTP returns a 6-digit one-time passcode.
func GenerateOTP() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	n := binary.BigEndian.Uint32(b) % 1000000
	return fmt.Sprintf("%06d", n), nil
}
