package usecase

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	bCtx "github.com/bazaarx/goclient/base/ctx"
	"github.com/bazaarx/goclient/domain/auction"
	"github.com/bazaarx/goclient/domain/marketplace"
	"github.com/bazaarx/goclient/domain/trade"
	auctionUC "github.com/bazaarx/goclient/stores/auction/usecase"
	tradeUC "github.com/bazaarx/goclient/stores/trade/usecase"
)

// A confirmed bid triggers a full resynchronization and the snapshot then
// shows whatever the ledger recorded, never a client-side computation.
func TestBidThenResyncReflectsLedgerState(t *testing.T) {
	ledger := newFakeLedger()
	cat, now := newTestSynchronizer(ledger, nil)
	auctions := auctionUC.New(&auctionUC.AuctionUseCaseCfg{Gateway: ledger, Catalog: cat})

	seedItem(ledger, 3, otherAddr, false)
	ledger.auctions[3] = &marketplace.Auction{
		ItemId:     3,
		HighestBid: big.NewInt(100),
		EndTime:    now.Add(time.Hour),
	}
	ledger.caller = actorAddr

	c := bCtx.Background()
	_, err := cat.Synchronize(c)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(100), cat.Snapshot().Auctions[0].HighestBid)

	auctions.SetBidDraft(3, auction.BidDraft{Amount: "0.5"})
	txHash, err := auctions.PlaceBid(c, 3)
	require.NoError(t, err)
	require.NotEmpty(t, txHash)

	half := new(big.Int)
	half.SetString("500000000000000000", 10)
	snap := cat.Snapshot()
	require.Len(t, snap.Auctions, 1)
	require.Equal(t, half, snap.Auctions[0].HighestBid)
	require.Equal(t, actorAddr, snap.Auctions[0].HighestBidder)

	_, ok := auctions.BidDraft(3)
	require.False(t, ok)
}

// Both traders approve in turn. After the first approval the trade is still
// ongoing with one flag set, after the second it is completed and drops out
// of the snapshot.
func TestTwoStepTradeApproval(t *testing.T) {
	ledger := newFakeLedger()
	cat, _ := newTestSynchronizer(ledger, nil)
	trades := tradeUC.New(&tradeUC.TradeUseCaseCfg{Gateway: ledger, Catalog: cat})

	seedItem(ledger, 1, actorAddr, true)
	seedItem(ledger, 2, otherAddr, true)
	ledger.totalPrices[1] = big.NewInt(1)

	c := bCtx.Background()
	ledger.caller = actorAddr
	trades.SetProposalDraft(trade.ProposalDraft{TargetItemId: 2, OwnItemId: 1})
	_, err := trades.ProposeTrade(c)
	require.NoError(t, err)

	snap := cat.Snapshot()
	require.Len(t, snap.OngoingTrades, 1)
	tradeId := snap.OngoingTrades[0].TradeId
	require.False(t, snap.OngoingTrades[0].ApprovedByTrader1)
	require.False(t, snap.OngoingTrades[0].ApprovedByTrader2)

	// first trader approves
	ledger.caller = otherAddr
	_, err = trades.ApproveTrade(c, tradeId)
	require.NoError(t, err)
	snap = cat.Snapshot()
	require.Len(t, snap.OngoingTrades, 1)
	require.True(t, snap.OngoingTrades[0].ApprovedByTrader1)
	require.False(t, snap.OngoingTrades[0].ApprovedByTrader2)

	// second trader approves, trade completes
	ledger.caller = actorAddr
	_, err = trades.ApproveTrade(c, tradeId)
	require.NoError(t, err)
	require.Empty(t, cat.Snapshot().OngoingTrades)
}

// A rejected write leaves the draft and the snapshot untouched
func TestFailedWriteLeavesStateUntouched(t *testing.T) {
	ledger := newFakeLedger()
	cat, now := newTestSynchronizer(ledger, nil)
	auctions := auctionUC.New(&auctionUC.AuctionUseCaseCfg{Gateway: ledger, Catalog: cat})

	seedItem(ledger, 1, otherAddr, false)
	ledger.auctions[1] = &marketplace.Auction{ItemId: 1, HighestBid: big.NewInt(100), EndTime: now.Add(time.Hour)}

	c := bCtx.Background()
	first, err := cat.Synchronize(c)
	require.NoError(t, err)

	ledger.failWrites = true
	auctions.SetBidDraft(1, auction.BidDraft{Amount: "2"})
	_, err = auctions.PlaceBid(c, 1)
	require.Error(t, err)

	require.Same(t, first, cat.Snapshot())
	draft, ok := auctions.BidDraft(1)
	require.True(t, ok)
	require.Equal(t, "2", draft.Amount)
}
