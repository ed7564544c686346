package usecase

import (
	"fmt"
	"math/big"

	"golang.org/x/xerrors"

	bCtx "github.com/bazaarx/goclient/base/ctx"
	"github.com/bazaarx/goclient/domain"
	"github.com/bazaarx/goclient/domain/marketplace"
)

// fakeLedger is an in-memory stand-in for the marketplace contract. Writes
// mutate its records the way the contract would, so scenario tests can
// observe post-resynchronization state.
type fakeLedger struct {
	items       map[domain.ItemId]*marketplace.Item
	auctions    map[domain.ItemId]*marketplace.Auction
	trades      map[domain.TradeId]*marketplace.Trade
	totalPrices map[domain.ItemId]*big.Int

	// caller is the address writes act as, switchable per test step
	caller domain.Address

	failItemCount  bool
	failItem       map[domain.ItemId]bool
	failTradeCount bool
	itemCalls      int
	// failItemAfterCalls fails every Item read past the given count,
	// 0 disables
	failItemAfterCalls int

	writeCalls []string
	failWrites bool
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		items:       make(map[domain.ItemId]*marketplace.Item),
		auctions:    make(map[domain.ItemId]*marketplace.Auction),
		trades:      make(map[domain.TradeId]*marketplace.Trade),
		totalPrices: make(map[domain.ItemId]*big.Int),
		failItem:    make(map[domain.ItemId]bool),
	}
}

var _ marketplace.LedgerGateway = (*fakeLedger)(nil)

func (f *fakeLedger) ItemCount(bCtx.Ctx) (uint64, error) {
	if f.failItemCount {
		return 0, xerrors.New("itemCount rpc failed")
	}
	return uint64(len(f.items)), nil
}

func (f *fakeLedger) Item(_ bCtx.Ctx, id domain.ItemId) (*marketplace.Item, error) {
	f.itemCalls++
	if f.failItem[id] || (f.failItemAfterCalls > 0 && f.itemCalls > f.failItemAfterCalls) {
		return nil, xerrors.Errorf("items(%d) rpc failed", id)
	}
	item, ok := f.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *item
	return &cp, nil
}

func (f *fakeLedger) Auction(_ bCtx.Ctx, id domain.ItemId) (*marketplace.Auction, error) {
	auction, ok := f.auctions[id]
	if !ok {
		// contract mapping returns a zero record
		return &marketplace.Auction{ItemId: id, HighestBid: big.NewInt(0)}, nil
	}
	cp := *auction
	return &cp, nil
}

func (f *fakeLedger) TradeCount(bCtx.Ctx) (uint64, error) {
	if f.failTradeCount {
		return 0, xerrors.New("tradeCount rpc failed")
	}
	return uint64(len(f.trades)), nil
}

func (f *fakeLedger) Trade(_ bCtx.Ctx, id domain.TradeId) (*marketplace.Trade, error) {
	trade, ok := f.trades[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *trade
	return &cp, nil
}

func (f *fakeLedger) TotalPrice(_ bCtx.Ctx, id domain.ItemId) (*big.Int, error) {
	if p, ok := f.totalPrices[id]; ok {
		return p, nil
	}
	return big.NewInt(0), nil
}

func (f *fakeLedger) write(op string) error {
	f.writeCalls = append(f.writeCalls, op)
	if f.failWrites {
		return xerrors.Errorf("%s reverted", op)
	}
	return nil
}

func (f *fakeLedger) Bid(_ bCtx.Ctx, itemId domain.ItemId, value *big.Int) (domain.TxHash, error) {
	if err := f.write("bid"); err != nil {
		return "", err
	}
	auction := f.auctions[itemId]
	if auction.HighestBid.Cmp(value) >= 0 {
		return "", xerrors.New("bid too low")
	}
	auction.HighestBid = value
	auction.HighestBidder = f.caller
	return "0xbid", nil
}

func (f *fakeLedger) ListItem(_ bCtx.Ctx, itemId domain.ItemId, price *big.Int) (domain.TxHash, error) {
	if err := f.write("listItem"); err != nil {
		return "", err
	}
	f.items[itemId].Price = price
	return "0xlist", nil
}

func (f *fakeLedger) RelistItem(_ bCtx.Ctx, itemId domain.ItemId, price *big.Int) (domain.TxHash, error) {
	if err := f.write("relistItem"); err != nil {
		return "", err
	}
	f.items[itemId].Price = price
	return "0xrelist", nil
}

func (f *fakeLedger) CreateAuction(_ bCtx.Ctx, itemId domain.ItemId, startingPrice *big.Int, durationSeconds int64) (domain.TxHash, error) {
	if err := f.write("createAuction"); err != nil {
		return "", err
	}
	return "0xcreateAuction", nil
}

func (f *fakeLedger) EndAuction(_ bCtx.Ctx, itemId domain.ItemId) (domain.TxHash, error) {
	if err := f.write("endAuction"); err != nil {
		return "", err
	}
	f.auctions[itemId].Ended = true
	return "0xendAuction", nil
}

func (f *fakeLedger) CreateTrade(_ bCtx.Ctx, itemId domain.ItemId) (domain.TxHash, error) {
	if err := f.write("createTrade"); err != nil {
		return "", err
	}
	f.items[itemId].ListedForTrade = true
	return "0xcreateTrade", nil
}

func (f *fakeLedger) ProposeTrade(_ bCtx.Ctx, itemId1, itemId2 domain.ItemId) (domain.TxHash, error) {
	if err := f.write("proposeTrade"); err != nil {
		return "", err
	}
	tradeId := domain.TradeId(len(f.trades) + 1)
	f.trades[tradeId] = &marketplace.Trade{
		TradeId: tradeId,
		ItemId1: itemId1,
		ItemId2: itemId2,
		Trader1: f.items[itemId1].Owner,
		Trader2: f.items[itemId2].Owner,
	}
	return "0xproposeTrade", nil
}

func (f *fakeLedger) ApproveTrade(_ bCtx.Ctx, tradeId domain.TradeId) (domain.TxHash, error) {
	if err := f.write("approveTrade"); err != nil {
		return "", err
	}
	trade := f.trades[tradeId]
	if f.caller.Equals(trade.Trader1) {
		trade.ApprovedByTrader1 = true
	} else if f.caller.Equals(trade.Trader2) {
		trade.ApprovedByTrader2 = true
	}
	trade.Completed = trade.ApprovedByTrader1 && trade.ApprovedByTrader2
	return "0xapproveTrade", nil
}

// fakeNft maps token ids onto deterministic uris
type fakeNft struct{}

func (fakeNft) TokenURI(_ bCtx.Ctx, tokenId domain.TokenId) (string, error) {
	return "https://meta.test/" + tokenId.String(), nil
}

// fakeResolver serves canned metadata, with optional per-token failures
type fakeResolver struct {
	failing map[string]bool
}

func (r *fakeResolver) Resolve(_ bCtx.Ctx, uri string) (*domain.Metadata, error) {
	if r.failing != nil && r.failing[uri] {
		return nil, domain.ErrMetadataFetch
	}
	return &domain.Metadata{
		Name:        "item " + uri,
		Description: "desc " + uri,
		Image:       uri + "/image",
	}, nil
}

func itemIds(ids []domain.ItemId) []uint64 {
	out := make([]uint64, len(ids))
	for i, id := range ids {
		out[i] = uint64(id)
	}
	return out
}

func metaName(tokenId string) string {
	return fmt.Sprintf("item https://meta.test/%s", tokenId)
}
