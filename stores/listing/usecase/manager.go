package usecase

import (
	"math/big"
	"sync"

	bCtx "github.com/bazaarx/goclient/base/ctx"
	"github.com/bazaarx/goclient/base/log"
	"github.com/bazaarx/goclient/base/pricefmt"
	"github.com/bazaarx/goclient/domain"
	"github.com/bazaarx/goclient/domain/catalog"
	"github.com/bazaarx/goclient/domain/listing"
	"github.com/bazaarx/goclient/domain/marketplace"
)

type ListingUseCaseCfg struct {
	Gateway marketplace.LedgerGateway
	Catalog catalog.UseCase
}

type impl struct {
	gateway marketplace.LedgerGateway
	catalog catalog.UseCase

	mu     sync.Mutex
	drafts map[domain.ItemId]listing.PriceDraft
}

func New(cfg *ListingUseCaseCfg) listing.UseCase {
	return &impl{
		gateway: cfg.Gateway,
		catalog: cfg.Catalog,
		drafts:  make(map[domain.ItemId]listing.PriceDraft),
	}
}

func (im *impl) SetPriceDraft(itemId domain.ItemId, draft listing.PriceDraft) {
	im.mu.Lock()
	defer im.mu.Unlock()
	im.drafts[itemId] = draft
}

func (im *impl) PriceDraft(itemId domain.ItemId) (listing.PriceDraft, bool) {
	im.mu.Lock()
	defer im.mu.Unlock()
	draft, ok := im.drafts[itemId]
	return draft, ok
}

func (im *impl) ListItem(c bCtx.Ctx, itemId domain.ItemId) (domain.TxHash, error) {
	return im.submitPrice(c, itemId, "listItem", im.gateway.ListItem)
}

func (im *impl) RelistItem(c bCtx.Ctx, itemId domain.ItemId) (domain.TxHash, error) {
	return im.submitPrice(c, itemId, "relistItem", im.gateway.RelistItem)
}

// ListForTrade flips the item's listedForTrade flag on the ledger
func (im *impl) ListForTrade(c bCtx.Ctx, itemId domain.ItemId) (domain.TxHash, error) {
	if itemId.IsZero() {
		return "", domain.ErrMissingSelection
	}
	txHash, err := im.gateway.CreateTrade(c, itemId)
	if err != nil {
		c.WithFields(log.Fields{
			"itemId": itemId,
			"err":    err,
		}).Error("gateway.CreateTrade failed")
		return "", err
	}
	im.resync(c)
	return txHash, nil
}

// submitPrice validates the drafted price and runs the given gateway write.
// Ownership is not checked locally, the ledger rejects a non-owner.
func (im *impl) submitPrice(c bCtx.Ctx, itemId domain.ItemId, op string, submit func(bCtx.Ctx, domain.ItemId, *big.Int) (domain.TxHash, error)) (domain.TxHash, error) {
	draft, ok := im.PriceDraft(itemId)
	if !ok {
		return "", domain.ErrMissingSelection
	}
	wei, err := pricefmt.ParseEther(draft.Price)
	if err != nil {
		c.WithFields(log.Fields{
			"itemId": itemId,
			"price":  draft.Price,
			"op":     op,
		}).Warn("rejecting listing with invalid price")
		return "", domain.ErrInvalidAmount
	}

	txHash, err := submit(c, itemId, wei)
	if err != nil {
		c.WithFields(log.Fields{
			"itemId": itemId,
			"op":     op,
			"err":    err,
		}).Error("gateway price submission failed")
		return "", err
	}

	im.clearDraft(itemId)
	im.resync(c)
	return txHash, nil
}

func (im *impl) clearDraft(itemId domain.ItemId) {
	im.mu.Lock()
	defer im.mu.Unlock()
	delete(im.drafts, itemId)
}

func (im *impl) resync(c bCtx.Ctx) {
	if _, err := im.catalog.Synchronize(c); err != nil {
		c.WithField("err", err).Warn("resynchronization after confirmed write failed")
	}
}
