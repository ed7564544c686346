package usecase

import (
	"math/big"
	"sync"
	"time"

	"github.com/viney-shih/goroutines"

	bCtx "github.com/bazaarx/goclient/base/ctx"
	"github.com/bazaarx/goclient/base/log"
	"github.com/bazaarx/goclient/base/metrics"
	"github.com/bazaarx/goclient/domain"
	"github.com/bazaarx/goclient/domain/catalog"
	"github.com/bazaarx/goclient/domain/marketplace"
)

const defaultFanOut = 8

type CatalogUseCaseCfg struct {
	Gateway  marketplace.LedgerGateway
	Nft      marketplace.NftGateway
	Resolver domain.MetadataResolver
	// Actor is the current actor's address, used for the owned view
	Actor domain.Address
	// FanOut bounds the metadata fetch pool per pass
	FanOut int
}

type impl struct {
	gateway  marketplace.LedgerGateway
	nft      marketplace.NftGateway
	resolver domain.MetadataResolver
	actor    domain.Address
	fanOut   int
	met      metrics.Service
	now      func() time.Time

	// passMu serializes synchronization passes. A caller arriving while a
	// pass is in flight waits for it, then runs its own pass.
	passMu sync.Mutex

	// stateMu guards snapshot and loading
	stateMu  sync.RWMutex
	snapshot *catalog.Snapshot
	loading  bool
}

func New(cfg *CatalogUseCaseCfg) catalog.UseCase {
	fanOut := cfg.FanOut
	if fanOut <= 0 {
		fanOut = defaultFanOut
	}
	return &impl{
		gateway:  cfg.Gateway,
		nft:      cfg.Nft,
		resolver: cfg.Resolver,
		actor:    cfg.Actor,
		fanOut:   fanOut,
		met:      metrics.New("catalog"),
		now:      time.Now,
	}
}

type itemEntry struct {
	item       *marketplace.Item
	auction    *marketplace.Auction
	totalPrice *big.Int

	isAuction   bool
	isTradeable bool
	isOwned     bool
}

type tradeEntry struct {
	trade *marketplace.Trade
	item1 *marketplace.Item
	item2 *marketplace.Item
}

func (im *impl) Synchronize(c bCtx.Ctx) (*catalog.Snapshot, error) {
	im.passMu.Lock()
	defer im.passMu.Unlock()

	im.setLoading(true)
	defer im.setLoading(false)
	defer im.met.BumpTime("synchronize.time").End()

	now := im.now()

	entries, err := im.scanItems(c, now)
	if err != nil {
		return nil, err
	}
	tradeEntries, err := im.scanTrades(c)
	if err != nil {
		return nil, err
	}

	snap := im.buildSnapshot(c, now, entries, tradeEntries)

	im.stateMu.Lock()
	im.snapshot = snap
	im.stateMu.Unlock()

	return snap, nil
}

func (im *impl) Snapshot() *catalog.Snapshot {
	im.stateMu.RLock()
	defer im.stateMu.RUnlock()
	return im.snapshot
}

func (im *impl) Loading() bool {
	im.stateMu.RLock()
	defer im.stateMu.RUnlock()
	return im.loading
}

func (im *impl) setLoading(v bool) {
	im.stateMu.Lock()
	im.loading = v
	im.stateMu.Unlock()
}

// scanItems enumerates the full item range and classifies every item.
// A failed enumeration read is structural and aborts the pass.
func (im *impl) scanItems(c bCtx.Ctx, now time.Time) ([]*itemEntry, error) {
	itemCount, err := im.gateway.ItemCount(c)
	if err != nil {
		c.WithField("err", err).Error("gateway.ItemCount failed")
		return nil, err
	}

	var entries []*itemEntry
	for i := uint64(1); i <= itemCount; i++ {
		itemId := domain.ItemId(i)
		item, err := im.gateway.Item(c, itemId)
		if err != nil {
			c.WithFields(log.Fields{
				"itemId": itemId,
				"err":    err,
			}).Error("gateway.Item failed")
			return nil, err
		}
		auction, err := im.gateway.Auction(c, itemId)
		if err != nil {
			c.WithFields(log.Fields{
				"itemId": itemId,
				"err":    err,
			}).Error("gateway.Auction failed")
			return nil, err
		}

		entry := &itemEntry{
			item:        item,
			auction:     auction,
			isAuction:   auction.IsOpenAt(now),
			isTradeable: item.ListedForTrade,
			isOwned:     item.Owner.Equals(im.actor),
		}
		if !entry.isAuction && !entry.isTradeable && !entry.isOwned {
			continue
		}
		if entry.isOwned {
			totalPrice, err := im.gateway.TotalPrice(c, itemId)
			if err != nil {
				c.WithFields(log.Fields{
					"itemId": itemId,
					"err":    err,
				}).Error("gateway.TotalPrice failed")
				return nil, err
			}
			entry.totalPrice = totalPrice
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// scanTrades enumerates the full trade range, skipping completed trades
func (im *impl) scanTrades(c bCtx.Ctx) ([]*tradeEntry, error) {
	tradeCount, err := im.gateway.TradeCount(c)
	if err != nil {
		c.WithField("err", err).Error("gateway.TradeCount failed")
		return nil, err
	}

	var entries []*tradeEntry
	for i := uint64(1); i <= tradeCount; i++ {
		tradeId := domain.TradeId(i)
		trade, err := im.gateway.Trade(c, tradeId)
		if err != nil {
			c.WithFields(log.Fields{
				"tradeId": tradeId,
				"err":     err,
			}).Error("gateway.Trade failed")
			return nil, err
		}
		if trade.Completed {
			continue
		}
		item1, err := im.gateway.Item(c, trade.ItemId1)
		if err != nil {
			c.WithFields(log.Fields{
				"tradeId": tradeId,
				"itemId":  trade.ItemId1,
				"err":     err,
			}).Error("gateway.Item failed")
			return nil, err
		}
		item2, err := im.gateway.Item(c, trade.ItemId2)
		if err != nil {
			c.WithFields(log.Fields{
				"tradeId": tradeId,
				"itemId":  trade.ItemId2,
				"err":     err,
			}).Error("gateway.Item failed")
			return nil, err
		}
		entries = append(entries, &tradeEntry{trade: trade, item1: item1, item2: item2})
	}
	return entries, nil
}

// buildSnapshot joins the scanned entries with resolved metadata. Per-item
// metadata failures only exclude the affected item or trade, partial results
// are valid results.
func (im *impl) buildSnapshot(c bCtx.Ctx, now time.Time, entries []*itemEntry, tradeEntries []*tradeEntry) *catalog.Snapshot {
	tokenIds := make([]domain.TokenId, 0, len(entries)+2*len(tradeEntries))
	for _, e := range entries {
		tokenIds = append(tokenIds, e.item.TokenId)
	}
	for _, e := range tradeEntries {
		tokenIds = append(tokenIds, e.item1.TokenId, e.item2.TokenId)
	}
	metas := im.resolveMany(c, tokenIds)

	snap := &catalog.Snapshot{TakenAt: now}
	for i, e := range entries {
		meta := metas[i]
		if meta == nil {
			im.met.BumpSum("synchronize.metadata.err", 1)
			continue
		}
		if e.isAuction {
			snap.Auctions = append(snap.Auctions, catalog.AuctionListing{
				ItemId:        e.item.ItemId,
				Seller:        e.item.Seller,
				HighestBid:    e.auction.HighestBid,
				HighestBidder: e.auction.HighestBidder,
				EndTime:       e.auction.EndTime,
				Name:          meta.Name,
				Description:   meta.Description,
				Image:         meta.Image,
			})
		}
		if e.isTradeable {
			snap.Tradeables = append(snap.Tradeables, catalog.TradeListing{
				ItemId:      e.item.ItemId,
				Owner:       e.item.Owner,
				Name:        meta.Name,
				Description: meta.Description,
				Image:       meta.Image,
			})
		}
		if e.isOwned {
			snap.Owned = append(snap.Owned, catalog.OwnedListing{
				ItemId:      e.item.ItemId,
				Price:       e.item.Price,
				TotalPrice:  e.totalPrice,
				Name:        meta.Name,
				Description: meta.Description,
				Image:       meta.Image,
			})
		}
	}

	for i, e := range tradeEntries {
		meta1 := metas[len(entries)+2*i]
		meta2 := metas[len(entries)+2*i+1]
		if meta1 == nil || meta2 == nil {
			c.WithField("tradeId", e.trade.TradeId).Warn("skipping trade with unresolved metadata")
			im.met.BumpSum("synchronize.metadata.err", 1)
			continue
		}
		snap.OngoingTrades = append(snap.OngoingTrades, catalog.OngoingTrade{
			TradeId: e.trade.TradeId,
			Item1: catalog.TradeSide{
				ItemId:      e.trade.ItemId1,
				Owner:       e.item1.Owner,
				Name:        meta1.Name,
				Description: meta1.Description,
				Image:       meta1.Image,
			},
			Item2: catalog.TradeSide{
				ItemId:      e.trade.ItemId2,
				Owner:       e.item2.Owner,
				Name:        meta2.Name,
				Description: meta2.Description,
				Image:       meta2.Image,
			},
			Trader1:           e.trade.Trader1,
			Trader2:           e.trade.Trader2,
			ApprovedByTrader1: e.trade.ApprovedByTrader1,
			ApprovedByTrader2: e.trade.ApprovedByTrader2,
		})
	}
	return snap
}

type resolveResult struct {
	idx  int
	meta *domain.Metadata
}

// resolveMany fans metadata fetches out over a bounded pool. The returned
// slice is aligned with tokenIds, a nil element marks a failed fetch.
func (im *impl) resolveMany(c bCtx.Ctx, tokenIds []domain.TokenId) []*domain.Metadata {
	metas := make([]*domain.Metadata, len(tokenIds))
	if len(tokenIds) == 0 {
		return metas
	}

	b := goroutines.NewBatch(im.fanOut, goroutines.WithBatchSize(len(tokenIds)))
	defer b.Close()
	for i := range tokenIds {
		idx := i
		b.Queue(func() (interface{}, error) {
			tokenId := tokenIds[idx]
			uri, err := im.nft.TokenURI(c, tokenId)
			if err != nil {
				c.WithFields(log.Fields{
					"tokenId": tokenId,
					"err":     err,
				}).Warn("nft.TokenURI failed, excluding item")
				return resolveResult{idx: idx}, nil
			}
			meta, err := im.resolver.Resolve(c, uri)
			if err != nil {
				c.WithFields(log.Fields{
					"tokenId": tokenId,
					"uri":     uri,
					"err":     err,
				}).Warn("resolver.Resolve failed, excluding item")
				return resolveResult{idx: idx}, nil
			}
			return resolveResult{idx: idx, meta: meta}, nil
		})
	}
	b.QueueComplete()

	for ret := range b.Results() {
		if ret.Error() != nil {
			continue
		}
		r := ret.Value().(resolveResult)
		metas[r.idx] = r.meta
	}
	return metas
}
