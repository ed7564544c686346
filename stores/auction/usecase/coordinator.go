package usecase

import (
	"sync"

	bCtx "github.com/bazaarx/goclient/base/ctx"
	"github.com/bazaarx/goclient/base/log"
	"github.com/bazaarx/goclient/base/pricefmt"
	"github.com/bazaarx/goclient/domain"
	"github.com/bazaarx/goclient/domain/auction"
	"github.com/bazaarx/goclient/domain/catalog"
	"github.com/bazaarx/goclient/domain/marketplace"
)

type AuctionUseCaseCfg struct {
	Gateway marketplace.LedgerGateway
	Catalog catalog.UseCase
}

type impl struct {
	gateway marketplace.LedgerGateway
	catalog catalog.UseCase

	mu          sync.Mutex
	bidDrafts   map[domain.ItemId]auction.BidDraft
	startDrafts map[domain.ItemId]auction.StartDraft
}

func New(cfg *AuctionUseCaseCfg) auction.UseCase {
	return &impl{
		gateway:     cfg.Gateway,
		catalog:     cfg.Catalog,
		bidDrafts:   make(map[domain.ItemId]auction.BidDraft),
		startDrafts: make(map[domain.ItemId]auction.StartDraft),
	}
}

func (im *impl) SetBidDraft(itemId domain.ItemId, draft auction.BidDraft) {
	im.mu.Lock()
	defer im.mu.Unlock()
	im.bidDrafts[itemId] = draft
}

func (im *impl) BidDraft(itemId domain.ItemId) (auction.BidDraft, bool) {
	im.mu.Lock()
	defer im.mu.Unlock()
	draft, ok := im.bidDrafts[itemId]
	return draft, ok
}

func (im *impl) SetStartDraft(itemId domain.ItemId, draft auction.StartDraft) {
	im.mu.Lock()
	defer im.mu.Unlock()
	im.startDrafts[itemId] = draft
}

func (im *impl) StartDraft(itemId domain.ItemId) (auction.StartDraft, bool) {
	im.mu.Lock()
	defer im.mu.Unlock()
	draft, ok := im.startDrafts[itemId]
	return draft, ok
}

// PlaceBid submits the drafted bid. The amount goes along as the attached
// value and the ledger arbitrates against the current highest bid. On failure
// the draft and the cached snapshot stay untouched, no retry is issued.
func (im *impl) PlaceBid(c bCtx.Ctx, itemId domain.ItemId) (domain.TxHash, error) {
	draft, ok := im.BidDraft(itemId)
	if !ok {
		return "", domain.ErrMissingSelection
	}
	wei, err := pricefmt.ParseEther(draft.Amount)
	if err != nil {
		c.WithFields(log.Fields{
			"itemId": itemId,
			"amount": draft.Amount,
		}).Warn("rejecting bid with invalid amount")
		return "", domain.ErrInvalidAmount
	}

	txHash, err := im.gateway.Bid(c, itemId, wei)
	if err != nil {
		c.WithFields(log.Fields{
			"itemId": itemId,
			"err":    err,
		}).Error("gateway.Bid failed")
		return "", err
	}

	im.clearBidDraft(itemId)
	im.resync(c)
	return txHash, nil
}

// StartAuction opens the auction with the drafted starting price and duration
func (im *impl) StartAuction(c bCtx.Ctx, itemId domain.ItemId) (domain.TxHash, error) {
	draft, ok := im.StartDraft(itemId)
	if !ok {
		return "", domain.ErrMissingSelection
	}
	startingPrice, err := pricefmt.ParseEther(draft.StartingPrice)
	if err != nil {
		c.WithFields(log.Fields{
			"itemId":        itemId,
			"startingPrice": draft.StartingPrice,
		}).Warn("rejecting auction start with invalid price")
		return "", domain.ErrInvalidAmount
	}
	if draft.DurationSeconds <= 0 {
		c.WithFields(log.Fields{
			"itemId":   itemId,
			"duration": draft.DurationSeconds,
		}).Warn("rejecting auction start with invalid duration")
		return "", domain.ErrInvalidDuration
	}

	txHash, err := im.gateway.CreateAuction(c, itemId, startingPrice, draft.DurationSeconds)
	if err != nil {
		c.WithFields(log.Fields{
			"itemId": itemId,
			"err":    err,
		}).Error("gateway.CreateAuction failed")
		return "", err
	}

	im.clearStartDraft(itemId)
	im.resync(c)
	return txHash, nil
}

// EndAuction may be requested at any time, the ledger enforces the time bound
func (im *impl) EndAuction(c bCtx.Ctx, itemId domain.ItemId) (domain.TxHash, error) {
	txHash, err := im.gateway.EndAuction(c, itemId)
	if err != nil {
		c.WithFields(log.Fields{
			"itemId": itemId,
			"err":    err,
		}).Error("gateway.EndAuction failed")
		return "", err
	}
	im.resync(c)
	return txHash, nil
}

func (im *impl) clearBidDraft(itemId domain.ItemId) {
	im.mu.Lock()
	defer im.mu.Unlock()
	delete(im.bidDrafts, itemId)
}

func (im *impl) clearStartDraft(itemId domain.ItemId) {
	im.mu.Lock()
	defer im.mu.Unlock()
	delete(im.startDrafts, itemId)
}

// resync rebuilds the snapshot after a confirmed write. The write already
// succeeded, a failed rebuild only leaves the snapshot stale.
func (im *impl) resync(c bCtx.Ctx) {
	if _, err := im.catalog.Synchronize(c); err != nil {
		c.WithField("err", err).Warn("resynchronization after confirmed write failed")
	}
}
