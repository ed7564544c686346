// Package pricefmt converts between base-unit (wei) integer amounts and the
// human decimal display unit. Conversion lives at the presentation boundary
// only, coordinators never do arithmetic on amounts.
package pricefmt

import (
	"math/big"

	"github.com/shopspring/decimal"
	"golang.org/x/xerrors"
)

const etherDecimals = 18

// ParseEther parses a decimal display-unit string into wei.
// Malformed, non-positive and sub-wei inputs are rejected.
func ParseEther(s string) (*big.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, xerrors.Errorf("malformed amount %q: %w", s, err)
	}
	if !d.IsPositive() {
		return nil, xerrors.Errorf("amount %q is not positive", s)
	}
	shifted := d.Shift(etherDecimals)
	if !shifted.IsInteger() {
		return nil, xerrors.Errorf("amount %q is below the base unit", s)
	}
	return shifted.BigInt(), nil
}

// FormatWei renders a wei amount as a decimal display-unit string
func FormatWei(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	return decimal.NewFromBigInt(wei, -etherDecimals).String()
}
