package usecase

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	bCtx "github.com/bazaarx/goclient/base/ctx"
	"github.com/bazaarx/goclient/domain"
	"github.com/bazaarx/goclient/domain/catalog"
	"github.com/bazaarx/goclient/domain/marketplace"
)

const (
	actorAddr = domain.Address("0x00000000000000000000000000000000000000aa")
	otherAddr = domain.Address("0x00000000000000000000000000000000000000bb")
	thirdAddr = domain.Address("0x00000000000000000000000000000000000000cc")
)

func newTestSynchronizer(ledger *fakeLedger, resolver *fakeResolver) (*impl, time.Time) {
	if resolver == nil {
		resolver = &fakeResolver{}
	}
	now := time.Date(2022, 6, 1, 12, 0, 0, 0, time.UTC)
	uc := New(&CatalogUseCaseCfg{
		Gateway:  ledger,
		Nft:      fakeNft{},
		Resolver: resolver,
		Actor:    actorAddr,
		FanOut:   4,
	}).(*impl)
	uc.now = func() time.Time { return now }
	return uc, now
}

func seedItem(ledger *fakeLedger, id uint64, owner domain.Address, forTrade bool) {
	ledger.items[domain.ItemId(id)] = &marketplace.Item{
		ItemId:         domain.ItemId(id),
		TokenId:        domain.TokenId(big.NewInt(int64(id)).String()),
		Seller:         otherAddr,
		Owner:          owner,
		Price:          big.NewInt(int64(id) * 1000),
		ListedForTrade: forTrade,
	}
}

func TestSynchronizeClassifiesViews(t *testing.T) {
	ledger := newFakeLedger()
	uc, now := newTestSynchronizer(ledger, nil)

	// 1: open auction, 2: ended flag set, 3: past end time, 4: tradeable,
	// 5: owned, 6: none of the above
	seedItem(ledger, 1, otherAddr, false)
	seedItem(ledger, 2, otherAddr, false)
	seedItem(ledger, 3, otherAddr, false)
	seedItem(ledger, 4, otherAddr, true)
	seedItem(ledger, 5, actorAddr, false)
	seedItem(ledger, 6, otherAddr, false)
	ledger.auctions[1] = &marketplace.Auction{ItemId: 1, HighestBid: big.NewInt(100), HighestBidder: thirdAddr, EndTime: now.Add(time.Hour)}
	ledger.auctions[2] = &marketplace.Auction{ItemId: 2, HighestBid: big.NewInt(200), EndTime: now.Add(time.Hour), Ended: true}
	ledger.auctions[3] = &marketplace.Auction{ItemId: 3, HighestBid: big.NewInt(300), EndTime: now.Add(-time.Minute)}
	ledger.totalPrices[5] = big.NewInt(5100)

	snap, err := uc.Synchronize(bCtx.Background())
	require.NoError(t, err)
	require.NotNil(t, snap)
	require.Equal(t, now, snap.TakenAt)

	require.Len(t, snap.Auctions, 1)
	require.Equal(t, domain.ItemId(1), snap.Auctions[0].ItemId)
	require.Equal(t, big.NewInt(100), snap.Auctions[0].HighestBid)
	require.Equal(t, thirdAddr, snap.Auctions[0].HighestBidder)
	require.Equal(t, metaName("1"), snap.Auctions[0].Name)

	require.Len(t, snap.Tradeables, 1)
	require.Equal(t, domain.ItemId(4), snap.Tradeables[0].ItemId)

	require.Len(t, snap.Owned, 1)
	require.Equal(t, domain.ItemId(5), snap.Owned[0].ItemId)
	require.Equal(t, big.NewInt(5000), snap.Owned[0].Price)
	require.Equal(t, big.NewInt(5100), snap.Owned[0].TotalPrice)

	require.Empty(t, snap.OngoingTrades)
	require.Same(t, snap, uc.Snapshot())
}

func TestSynchronizeOwnedMatchIsCaseInsensitive(t *testing.T) {
	ledger := newFakeLedger()
	uc, _ := newTestSynchronizer(ledger, nil)

	seedItem(ledger, 1, domain.Address("0x00000000000000000000000000000000000000AA"), false)
	ledger.totalPrices[1] = big.NewInt(1100)

	snap, err := uc.Synchronize(bCtx.Background())
	require.NoError(t, err)
	require.Len(t, snap.Owned, 1)
	require.Equal(t, domain.ItemId(1), snap.Owned[0].ItemId)
}

func TestSynchronizePreservesEnumerationOrder(t *testing.T) {
	ledger := newFakeLedger()
	uc, _ := newTestSynchronizer(ledger, nil)

	for i := uint64(1); i <= 9; i++ {
		seedItem(ledger, i, otherAddr, true)
	}

	snap, err := uc.Synchronize(bCtx.Background())
	require.NoError(t, err)
	require.Equal(t, []uint64{1, 2, 3, 4, 5, 6, 7, 8, 9}, itemIds(tradeableIds(snap.Tradeables)))
}

func TestSynchronizeMetadataFailureOnlyExcludesAffectedItem(t *testing.T) {
	ledger := newFakeLedger()
	resolver := &fakeResolver{failing: map[string]bool{"https://meta.test/2": true}}
	uc, _ := newTestSynchronizer(ledger, resolver)

	seedItem(ledger, 1, otherAddr, true)
	seedItem(ledger, 2, otherAddr, true)
	seedItem(ledger, 3, otherAddr, true)

	snap, err := uc.Synchronize(bCtx.Background())
	require.NoError(t, err)
	require.Equal(t, []uint64{1, 3}, itemIds(tradeableIds(snap.Tradeables)))
}

func TestSynchronizeStructuralFailureAbortsAndKeepsSnapshot(t *testing.T) {
	ledger := newFakeLedger()
	uc, _ := newTestSynchronizer(ledger, nil)

	seedItem(ledger, 1, otherAddr, true)
	first, err := uc.Synchronize(bCtx.Background())
	require.NoError(t, err)

	ledger.failItemCount = true
	_, err = uc.Synchronize(bCtx.Background())
	require.Error(t, err)
	require.Same(t, first, uc.Snapshot())

	ledger.failItemCount = false
	ledger.failItem[1] = true
	_, err = uc.Synchronize(bCtx.Background())
	require.Error(t, err)
	require.Same(t, first, uc.Snapshot())
}

func TestSynchronizeTradeItemReadFailureAborts(t *testing.T) {
	ledger := newFakeLedger()
	uc, _ := newTestSynchronizer(ledger, nil)

	seedItem(ledger, 1, actorAddr, false)
	seedItem(ledger, 2, otherAddr, true)
	ledger.totalPrices[1] = big.NewInt(1)
	ledger.trades[1] = &marketplace.Trade{
		TradeId: 1, ItemId1: 2, ItemId2: 1,
		Trader1: otherAddr, Trader2: actorAddr,
	}

	first, err := uc.Synchronize(bCtx.Background())
	require.NoError(t, err)
	require.Len(t, first.OngoingTrades, 1)

	// the item scan reads both items fine, the trade scan's re-read fails
	ledger.itemCalls = 0
	ledger.failItemAfterCalls = 2
	_, err = uc.Synchronize(bCtx.Background())
	require.Error(t, err)
	require.Same(t, first, uc.Snapshot())
}

func TestSynchronizeSkipsCompletedTrades(t *testing.T) {
	ledger := newFakeLedger()
	uc, _ := newTestSynchronizer(ledger, nil)

	seedItem(ledger, 1, actorAddr, false)
	seedItem(ledger, 2, otherAddr, false)
	seedItem(ledger, 3, actorAddr, false)
	seedItem(ledger, 4, otherAddr, false)
	ledger.totalPrices[1] = big.NewInt(1)
	ledger.totalPrices[3] = big.NewInt(3)
	ledger.trades[1] = &marketplace.Trade{
		TradeId: 1, ItemId1: 2, ItemId2: 1,
		Trader1: otherAddr, Trader2: actorAddr,
		ApprovedByTrader1: true,
	}
	ledger.trades[2] = &marketplace.Trade{
		TradeId: 2, ItemId1: 4, ItemId2: 3,
		Trader1: otherAddr, Trader2: actorAddr,
		ApprovedByTrader1: true, ApprovedByTrader2: true, Completed: true,
	}

	snap, err := uc.Synchronize(bCtx.Background())
	require.NoError(t, err)
	require.Len(t, snap.OngoingTrades, 1)

	ongoing := snap.OngoingTrades[0]
	require.Equal(t, domain.TradeId(1), ongoing.TradeId)
	require.Equal(t, domain.ItemId(2), ongoing.Item1.ItemId)
	require.Equal(t, domain.ItemId(1), ongoing.Item2.ItemId)
	require.Equal(t, metaName("2"), ongoing.Item1.Name)
	require.Equal(t, metaName("1"), ongoing.Item2.Name)
	require.True(t, ongoing.ApprovedByTrader1)
	require.False(t, ongoing.ApprovedByTrader2)
}

func TestSynchronizeTradeMetadataFailureExcludesWholeTrade(t *testing.T) {
	ledger := newFakeLedger()
	resolver := &fakeResolver{failing: map[string]bool{"https://meta.test/2": true}}
	uc, _ := newTestSynchronizer(ledger, resolver)

	seedItem(ledger, 1, actorAddr, false)
	seedItem(ledger, 2, otherAddr, false)
	ledger.totalPrices[1] = big.NewInt(1)
	ledger.trades[1] = &marketplace.Trade{
		TradeId: 1, ItemId1: 2, ItemId2: 1,
		Trader1: otherAddr, Trader2: actorAddr,
	}

	snap, err := uc.Synchronize(bCtx.Background())
	require.NoError(t, err)
	require.Empty(t, snap.OngoingTrades)
	// item 1 resolved fine and still shows up in the owned view
	require.Len(t, snap.Owned, 1)
}

func TestSnapshotNilBeforeFirstPass(t *testing.T) {
	uc, _ := newTestSynchronizer(newFakeLedger(), nil)
	require.Nil(t, uc.Snapshot())
	require.False(t, uc.Loading())
}

func tradeableIds(listings []catalog.TradeListing) []domain.ItemId {
	ids := make([]domain.ItemId, len(listings))
	for i, l := range listings {
		ids[i] = l.ItemId
	}
	return ids
}
