package domain

import (
	"strings"
)

type ChainId int32

type Address string

const EmptyAddress = Address("0x0000000000000000000000000000000000000000")

func (a Address) ToLower() Address {
	return Address(strings.ToLower(string(a)))
}

func (a Address) ToLowerStr() string {
	return strings.ToLower(string(a))
}

func (a Address) IsEmpty() bool {
	return len(a) == 0 || a == EmptyAddress
}

func (a Address) Equals(b Address) bool {
	return a.ToLowerStr() == b.ToLowerStr()
}

// ItemId is the ledger-assigned marketplace item identifier, 1-based
type ItemId uint64

func (i ItemId) IsZero() bool {
	return i == 0
}

// TradeId is the ledger-assigned trade identifier, 1-based
type TradeId uint64

func (i TradeId) IsZero() bool {
	return i == 0
}

// TokenId is the asset identifier inside the nft contract
type TokenId string

func (i TokenId) String() string {
	return string(i)
}

type TxHash string

func (h TxHash) String() string {
	return string(h)
}
