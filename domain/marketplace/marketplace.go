package marketplace

import (
	"math/big"
	"time"

	"github.com/bazaarx/goclient/base/ctx"
	"github.com/bazaarx/goclient/domain"
)

// Item is a read-only copy of the ledger's item record.
// Valid for the duration of one synchronization pass, discarded on the next.
type Item struct {
	ItemId         domain.ItemId  `json:"itemId"`
	TokenId        domain.TokenId `json:"tokenId"`
	Seller         domain.Address `json:"seller"`
	Owner          domain.Address `json:"owner"`
	Price          *big.Int       `json:"price"`
	ListedForTrade bool           `json:"listedForTrade"`
}

// Auction is a read-only copy of the ledger's auction record
type Auction struct {
	ItemId        domain.ItemId  `json:"itemId"`
	HighestBid    *big.Int       `json:"highestBid"`
	HighestBidder domain.Address `json:"highestBidder"`
	EndTime       time.Time      `json:"endTime"`
	Ended         bool           `json:"ended"`
}

// IsOpenAt reports whether bids are still being accepted at t
func (a *Auction) IsOpenAt(t time.Time) bool {
	return !a.Ended && a.EndTime.After(t)
}

// Trade is a read-only copy of the ledger's trade record
type Trade struct {
	TradeId           domain.TradeId `json:"tradeId"`
	ItemId1           domain.ItemId  `json:"itemId1"`
	ItemId2           domain.ItemId  `json:"itemId2"`
	Trader1           domain.Address `json:"trader1"`
	Trader2           domain.Address `json:"trader2"`
	ApprovedByTrader1 bool           `json:"approvedByTrader1"`
	ApprovedByTrader2 bool           `json:"approvedByTrader2"`
	Completed         bool           `json:"completed"`
}

// LedgerGateway is the marketplace contract surface consumed by the
// coordinators. Reads return point-in-time copies; writes block until the
// transaction is mined and either return the tx hash or an error. The ledger
// is the sole arbiter of bid ordering, auction time bounds and trade approval
// uniqueness.
type LedgerGateway interface {
	ItemCount(ctx.Ctx) (uint64, error)
	Item(ctx.Ctx, domain.ItemId) (*Item, error)
	Auction(ctx.Ctx, domain.ItemId) (*Auction, error)
	TradeCount(ctx.Ctx) (uint64, error)
	Trade(ctx.Ctx, domain.TradeId) (*Trade, error)
	TotalPrice(ctx.Ctx, domain.ItemId) (*big.Int, error)

	Bid(c ctx.Ctx, itemId domain.ItemId, value *big.Int) (domain.TxHash, error)
	ListItem(c ctx.Ctx, itemId domain.ItemId, price *big.Int) (domain.TxHash, error)
	RelistItem(c ctx.Ctx, itemId domain.ItemId, price *big.Int) (domain.TxHash, error)
	CreateAuction(c ctx.Ctx, itemId domain.ItemId, startingPrice *big.Int, durationSeconds int64) (domain.TxHash, error)
	EndAuction(c ctx.Ctx, itemId domain.ItemId) (domain.TxHash, error)
	CreateTrade(c ctx.Ctx, itemId domain.ItemId) (domain.TxHash, error)
	ProposeTrade(c ctx.Ctx, itemId1, itemId2 domain.ItemId) (domain.TxHash, error)
	ApproveTrade(c ctx.Ctx, tradeId domain.TradeId) (domain.TxHash, error)
}

// NftGateway is the nft contract surface consumed during synchronization
type NftGateway interface {
	TokenURI(ctx.Ctx, domain.TokenId) (string, error)
}
