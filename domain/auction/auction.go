package auction

import (
	"github.com/bazaarx/goclient/base/ctx"
	"github.com/bazaarx/goclient/domain"
)

// BidDraft is the uncommitted bid amount for one pending bid,
// expressed in the human decimal unit
type BidDraft struct {
	Amount string `json:"amount"`
}

// StartDraft is the uncommitted input for starting an auction
type StartDraft struct {
	StartingPrice   string `json:"startingPrice"`
	DurationSeconds int64  `json:"durationSeconds"`
}

// UseCase validates and submits auction operations. Drafts are scoped to one
// pending user action per item and cleared on successful submission. A failed
// submission leaves both the draft and the cached snapshot untouched.
type UseCase interface {
	SetBidDraft(itemId domain.ItemId, draft BidDraft)
	BidDraft(itemId domain.ItemId) (BidDraft, bool)
	// PlaceBid submits the drafted bid, carrying the amount as the attached
	// value. The ledger arbitrates against the current highest bid.
	PlaceBid(c ctx.Ctx, itemId domain.ItemId) (domain.TxHash, error)

	SetStartDraft(itemId domain.ItemId, draft StartDraft)
	StartDraft(itemId domain.ItemId) (StartDraft, bool)
	// StartAuction opens the auction with the drafted starting price and duration
	StartAuction(c ctx.Ctx, itemId domain.ItemId) (domain.TxHash, error)

	// EndAuction may be requested at any time, the ledger enforces the time bound
	EndAuction(c ctx.Ctx, itemId domain.ItemId) (domain.TxHash, error)
}
