// Package wallet validates and normalizes the wallet address a learner
// connects.
package wallet

import (
	"encoding/hex"
	"strings"
	"time"

	"golang.org/x/crypto/sha3"

	"github.com/finquest/finquest/internal/apperr"
)

const addressHexLen = 40

// Checksum returns the EIP-55 mixed-case form of a 40-hex-digit address
// (without the 0x prefix, any case).
func Checksum(hexAddr string) string {
	lower := strings.ToLower(hexAddr)
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(lower))
	digest := hex.EncodeToString(h.Sum(nil))

	out := []byte(lower)
	for i, c := range out {
		if c >= 'a' && c <= 'f' && digest[i] >= '8' {
			out[i] = c - 'a' + 'A'
		}
	}
	return "0x" + string(out)
}

// Normalize validates addr and returns its checksummed form. An all-lower or
// all-upper address carries no checksum and is accepted as is; a mixed-case
// address must match its EIP-55 checksum.
func Normalize(addr string) (string, error) {
	addr = strings.TrimSpace(addr)
	body, ok := strings.CutPrefix(addr, "0x")
	if !ok {
		body, ok = strings.CutPrefix(addr, "0X")
	}
	if !ok {
		return "", apperr.Validation(apperr.ReasonInvalidAddress, "address must start with 0x")
	}
	if len(body) != addressHexLen {
		return "", apperr.Validation(apperr.ReasonInvalidAddress, "address must have %d hex digits, got %d", addressHexLen, len(body))
	}
	if _, err := hex.DecodeString(body); err != nil {
		return "", apperr.Validation(apperr.ReasonInvalidAddress, "address is not hexadecimal")
	}

	sum := Checksum(body)
	if body != strings.ToLower(body) && body != strings.ToUpper(body) && "0x"+body != sum {
		return "", apperr.Validation(apperr.ReasonInvalidAddress, "address checksum mismatch")
	}
	return sum, nil
}

// Connection is a verified wallet link.
type Connection struct {
	Address     string    `json:"address"`
	TxHash      string    `json:"tx_hash"`
	ConnectedAt time.Time `json:"connected_at"`
}

// Short returns an abbreviated address for display, e.g. 0x5aAe…eAed.
func (c Connection) Short() string {
	if len(c.Address) < 10 {
		return c.Address
	}
	return c.Address[:6] + "…" + c.Address[len(c.Address)-4:]
}
