package catalog

import (
	"math/big"
	"time"

	"github.com/bazaarx/goclient/base/ctx"
	"github.com/bazaarx/goclient/domain"
)

// AuctionListing joins an open auction with its item and resolved metadata
type AuctionListing struct {
	ItemId        domain.ItemId  `json:"itemId"`
	Seller        domain.Address `json:"seller"`
	HighestBid    *big.Int       `json:"highestBid"`
	HighestBidder domain.Address `json:"highestBidder"`
	EndTime       time.Time      `json:"endTime"`
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	Image         string         `json:"image"`
}

// TradeListing is an item flagged listedForTrade, joined with metadata
type TradeListing struct {
	ItemId      domain.ItemId  `json:"itemId"`
	Owner       domain.Address `json:"owner"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Image       string         `json:"image"`
}

// OwnedListing is an item owned by the current actor, joined with metadata
// and the ledger-computed total price (price plus fee)
type OwnedListing struct {
	ItemId      domain.ItemId `json:"itemId"`
	Price       *big.Int      `json:"price"`
	TotalPrice  *big.Int      `json:"totalPrice"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Image       string        `json:"image"`
}

// TradeSide is one half of an ongoing trade
type TradeSide struct {
	ItemId      domain.ItemId  `json:"itemId"`
	Owner       domain.Address `json:"owner"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Image       string         `json:"image"`
}

// OngoingTrade is a not-yet-completed trade joined with both items' metadata
type OngoingTrade struct {
	TradeId           domain.TradeId `json:"tradeId"`
	Item1             TradeSide      `json:"item1"`
	Item2             TradeSide      `json:"item2"`
	Trader1           domain.Address `json:"trader1"`
	Trader2           domain.Address `json:"trader2"`
	ApprovedByTrader1 bool           `json:"approvedByTrader1"`
	ApprovedByTrader2 bool           `json:"approvedByTrader2"`
}

// Snapshot is an immutable point-in-time projection of ledger state joined
// with resolved metadata. Collections preserve ledger enumeration order.
// Never patched in place, rebuilt wholesale by each synchronization pass.
type Snapshot struct {
	TakenAt       time.Time        `json:"takenAt"`
	Auctions      []AuctionListing `json:"auctions"`
	Tradeables    []TradeListing   `json:"tradeables"`
	Owned         []OwnedListing   `json:"owned"`
	OngoingTrades []OngoingTrade   `json:"ongoingTrades"`
}

// UseCase drives full catalog synchronization passes and holds the last
// built snapshot for the presentation layer
type UseCase interface {
	// Synchronize scans the full item and trade range and rebuilds the
	// snapshot. Passes are serialized, a concurrent caller waits then runs
	// its own pass.
	Synchronize(ctx.Ctx) (*Snapshot, error)
	// Snapshot returns the last built snapshot, nil before the first pass
	Snapshot() *Snapshot
	// Loading reports whether a pass is currently in flight
	Loading() bool
}
