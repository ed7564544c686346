package contract

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	baseabi "github.com/bazaarx/goclient/base/abi"
	bCtx "github.com/bazaarx/goclient/base/ctx"
	"github.com/bazaarx/goclient/base/log"
	"github.com/bazaarx/goclient/domain"
	"github.com/bazaarx/goclient/domain/marketplace"
	"github.com/bazaarx/goclient/service/chain"
)

const defaultCallTimeout = 15 * time.Second

type MarketplaceCfg struct {
	ChainId int32
	Address domain.Address
	// CallTimeout bounds every read; writes run until mined under the
	// caller's context
	CallTimeout time.Duration
}

// Marketplace drives the marketplace contract through the chain client. It
// implements marketplace.LedgerGateway: reads are plain eth calls, writes are
// signed transactions that block until mined.
type Marketplace struct {
	chainService chain.Client
	chainId      int32
	addr         common.Address
	callTimeout  time.Duration
}

func NewMarketplace(chainService chain.Client, cfg *MarketplaceCfg) *Marketplace {
	timeout := cfg.CallTimeout
	if timeout == 0 {
		timeout = defaultCallTimeout
	}
	return &Marketplace{
		chainService: chainService,
		chainId:      cfg.ChainId,
		addr:         common.HexToAddress(string(cfg.Address)),
		callTimeout:  timeout,
	}
}

func (m *Marketplace) call(c bCtx.Ctx, method string, params ...interface{}) ([]interface{}, error) {
	ctx, cancel := bCtx.WithTimeout(c, m.callTimeout)
	defer cancel()
	return m.chainService.Call(ctx, m.chainId, m.addr, nil, baseabi.MarketplaceABI, method, params...)
}

func (m *Marketplace) send(c bCtx.Ctx, value *big.Int, method string, params ...interface{}) (domain.TxHash, error) {
	hash, err := m.chainService.Send(c, m.chainId, m.addr, value, baseabi.MarketplaceABI, method, params...)
	if err != nil {
		c.WithFields(log.Fields{
			"method": method,
			"err":    err,
		}).Error("chainService.Send failed")
		return "", err
	}
	return domain.TxHash(hash.Hex()), nil
}

func (m *Marketplace) ItemCount(c bCtx.Ctx) (uint64, error) {
	unpacked, err := m.call(c, "itemCount")
	if err != nil {
		return 0, err
	}
	return unpacked[0].(*big.Int).Uint64(), nil
}

func (m *Marketplace) Item(c bCtx.Ctx, itemId domain.ItemId) (*marketplace.Item, error) {
	unpacked, err := m.call(c, "items", new(big.Int).SetUint64(uint64(itemId)))
	if err != nil {
		return nil, err
	}
	return &marketplace.Item{
		ItemId:         domain.ItemId(unpacked[0].(*big.Int).Uint64()),
		TokenId:        domain.TokenId(unpacked[1].(*big.Int).String()),
		Seller:         domain.Address(unpacked[2].(common.Address).Hex()).ToLower(),
		Owner:          domain.Address(unpacked[3].(common.Address).Hex()).ToLower(),
		Price:          unpacked[4].(*big.Int),
		ListedForTrade: unpacked[5].(bool),
	}, nil
}

func (m *Marketplace) Auction(c bCtx.Ctx, itemId domain.ItemId) (*marketplace.Auction, error) {
	unpacked, err := m.call(c, "auctions", new(big.Int).SetUint64(uint64(itemId)))
	if err != nil {
		return nil, err
	}
	bidder := domain.Address(unpacked[2].(common.Address).Hex()).ToLower()
	if bidder == domain.EmptyAddress {
		bidder = ""
	}
	return &marketplace.Auction{
		ItemId:        domain.ItemId(unpacked[0].(*big.Int).Uint64()),
		HighestBid:    unpacked[1].(*big.Int),
		HighestBidder: bidder,
		EndTime:       time.Unix(unpacked[3].(*big.Int).Int64(), 0),
		Ended:         unpacked[4].(bool),
	}, nil
}

func (m *Marketplace) TradeCount(c bCtx.Ctx) (uint64, error) {
	unpacked, err := m.call(c, "tradeCount")
	if err != nil {
		return 0, err
	}
	return unpacked[0].(*big.Int).Uint64(), nil
}

func (m *Marketplace) Trade(c bCtx.Ctx, tradeId domain.TradeId) (*marketplace.Trade, error) {
	unpacked, err := m.call(c, "trades", new(big.Int).SetUint64(uint64(tradeId)))
	if err != nil {
		return nil, err
	}
	return &marketplace.Trade{
		TradeId:           domain.TradeId(unpacked[0].(*big.Int).Uint64()),
		ItemId1:           domain.ItemId(unpacked[1].(*big.Int).Uint64()),
		ItemId2:           domain.ItemId(unpacked[2].(*big.Int).Uint64()),
		Trader1:           domain.Address(unpacked[3].(common.Address).Hex()).ToLower(),
		Trader2:           domain.Address(unpacked[4].(common.Address).Hex()).ToLower(),
		ApprovedByTrader1: unpacked[5].(bool),
		ApprovedByTrader2: unpacked[6].(bool),
		Completed:         unpacked[7].(bool),
	}, nil
}

func (m *Marketplace) TotalPrice(c bCtx.Ctx, itemId domain.ItemId) (*big.Int, error) {
	unpacked, err := m.call(c, "getTotalPrice", new(big.Int).SetUint64(uint64(itemId)))
	if err != nil {
		return nil, err
	}
	return unpacked[0].(*big.Int), nil
}

// Bid carries the bid amount as the attached transaction value
func (m *Marketplace) Bid(c bCtx.Ctx, itemId domain.ItemId, value *big.Int) (domain.TxHash, error) {
	return m.send(c, value, "bid", new(big.Int).SetUint64(uint64(itemId)))
}

func (m *Marketplace) ListItem(c bCtx.Ctx, itemId domain.ItemId, price *big.Int) (domain.TxHash, error) {
	return m.send(c, nil, "listItem", new(big.Int).SetUint64(uint64(itemId)), price)
}

func (m *Marketplace) RelistItem(c bCtx.Ctx, itemId domain.ItemId, price *big.Int) (domain.TxHash, error) {
	return m.send(c, nil, "relistItem", new(big.Int).SetUint64(uint64(itemId)), price)
}

func (m *Marketplace) CreateAuction(c bCtx.Ctx, itemId domain.ItemId, startingPrice *big.Int, durationSeconds int64) (domain.TxHash, error) {
	return m.send(c, nil, "createAuction", new(big.Int).SetUint64(uint64(itemId)), startingPrice, big.NewInt(durationSeconds))
}

func (m *Marketplace) EndAuction(c bCtx.Ctx, itemId domain.ItemId) (domain.TxHash, error) {
	return m.send(c, nil, "endAuction", new(big.Int).SetUint64(uint64(itemId)))
}

func (m *Marketplace) CreateTrade(c bCtx.Ctx, itemId domain.ItemId) (domain.TxHash, error) {
	return m.send(c, nil, "createTrade", new(big.Int).SetUint64(uint64(itemId)))
}

func (m *Marketplace) ProposeTrade(c bCtx.Ctx, itemId1, itemId2 domain.ItemId) (domain.TxHash, error) {
	return m.send(c, nil, "proposeTrade", new(big.Int).SetUint64(uint64(itemId1)), new(big.Int).SetUint64(uint64(itemId2)))
}

func (m *Marketplace) ApproveTrade(c bCtx.Ctx, tradeId domain.TradeId) (domain.TxHash, error) {
	return m.send(c, nil, "approveTrade", new(big.Int).SetUint64(uint64(tradeId)))
}
