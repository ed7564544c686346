package listing

import (
	"github.com/bazaarx/goclient/base/ctx"
	"github.com/bazaarx/goclient/domain"
)

// PriceDraft is the uncommitted asking price for one pending listing,
// expressed in the human decimal unit
type PriceDraft struct {
	Price string `json:"price"`
}

// UseCase validates and submits listing price changes for items the current
// actor owns. Ownership itself is enforced by the ledger, a mismatch surfaces
// as a request failure. ListItem and RelistItem are kept as distinct ledger
// operations.
type UseCase interface {
	SetPriceDraft(itemId domain.ItemId, draft PriceDraft)
	PriceDraft(itemId domain.ItemId) (PriceDraft, bool)

	ListItem(c ctx.Ctx, itemId domain.ItemId) (domain.TxHash, error)
	RelistItem(c ctx.Ctx, itemId domain.ItemId) (domain.TxHash, error)

	// ListForTrade flips the item's listedForTrade flag on the ledger
	ListForTrade(c ctx.Ctx, itemId domain.ItemId) (domain.TxHash, error)
}
