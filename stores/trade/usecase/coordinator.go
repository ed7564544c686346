package usecase

import (
	"sync"

	bCtx "github.com/bazaarx/goclient/base/ctx"
	"github.com/bazaarx/goclient/base/log"
	"github.com/bazaarx/goclient/domain"
	"github.com/bazaarx/goclient/domain/catalog"
	"github.com/bazaarx/goclient/domain/marketplace"
	"github.com/bazaarx/goclient/domain/trade"
)

type TradeUseCaseCfg struct {
	Gateway marketplace.LedgerGateway
	Catalog catalog.UseCase
}

type impl struct {
	gateway marketplace.LedgerGateway
	catalog catalog.UseCase

	mu       sync.Mutex
	draft    trade.ProposalDraft
	hasDraft bool
}

func New(cfg *TradeUseCaseCfg) trade.UseCase {
	return &impl{
		gateway: cfg.Gateway,
		catalog: cfg.Catalog,
	}
}

func (im *impl) SetProposalDraft(draft trade.ProposalDraft) {
	im.mu.Lock()
	defer im.mu.Unlock()
	im.draft = draft
	im.hasDraft = true
}

func (im *impl) ProposalDraft() (trade.ProposalDraft, bool) {
	im.mu.Lock()
	defer im.mu.Unlock()
	return im.draft, im.hasDraft
}

// ProposeTrade submits the drafted item pair. Missing or equal selections are
// rejected locally, no ledger call is issued for them.
func (im *impl) ProposeTrade(c bCtx.Ctx) (domain.TxHash, error) {
	draft, ok := im.ProposalDraft()
	if !ok || draft.TargetItemId.IsZero() || draft.OwnItemId.IsZero() {
		return "", domain.ErrMissingSelection
	}
	if draft.TargetItemId == draft.OwnItemId {
		return "", domain.ErrSameItemTrade
	}

	txHash, err := im.gateway.ProposeTrade(c, draft.TargetItemId, draft.OwnItemId)
	if err != nil {
		c.WithFields(log.Fields{
			"itemId1": draft.TargetItemId,
			"itemId2": draft.OwnItemId,
			"err":     err,
		}).Error("gateway.ProposeTrade failed")
		return "", err
	}

	im.clearDraft()
	im.resync(c)
	return txHash, nil
}

// ApproveTrade sets the calling trader's approval flag. The ledger enforces
// approve-exactly-once per trader, the coordinator does not guard against
// re-submission beyond what the snapshot-driven ui already hides.
func (im *impl) ApproveTrade(c bCtx.Ctx, tradeId domain.TradeId) (domain.TxHash, error) {
	if tradeId.IsZero() {
		return "", domain.ErrMissingSelection
	}
	txHash, err := im.gateway.ApproveTrade(c, tradeId)
	if err != nil {
		c.WithFields(log.Fields{
			"tradeId": tradeId,
			"err":     err,
		}).Error("gateway.ApproveTrade failed")
		return "", err
	}
	im.resync(c)
	return txHash, nil
}

func (im *impl) clearDraft() {
	im.mu.Lock()
	defer im.mu.Unlock()
	im.draft = trade.ProposalDraft{}
	im.hasDraft = false
}

func (im *impl) resync(c bCtx.Ctx) {
	if _, err := im.catalog.Synchronize(c); err != nil {
		c.WithField("err", err).Warn("resynchronization after confirmed write failed")
	}
}
