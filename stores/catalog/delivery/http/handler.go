package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	bCtx "github.com/bazaarx/goclient/base/ctx"
	"github.com/bazaarx/goclient/base/delivery"
	"github.com/bazaarx/goclient/base/pricefmt"
	"github.com/bazaarx/goclient/base/ptr"
	"github.com/bazaarx/goclient/domain/catalog"
)

type handler struct {
	catalog catalog.UseCase
}

func New(e *echo.Echo, catalog catalog.UseCase) {
	h := &handler{catalog}

	g := e.Group("/catalog")

	g.GET("", h.get)

	g.POST("/sync", h.sync)
}

type auctionListingResp struct {
	ItemId        uint64    `json:"itemId"`
	Seller        string    `json:"seller"`
	HighestBid    string    `json:"highestBid"`
	HighestBidder *string   `json:"highestBidder,omitempty"`
	EndTime       time.Time `json:"endTime"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Image         string    `json:"image"`
}

type tradeListingResp struct {
	ItemId      uint64 `json:"itemId"`
	Owner       string `json:"owner"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

type ownedListingResp struct {
	ItemId      uint64 `json:"itemId"`
	Price       string `json:"price"`
	TotalPrice  string `json:"totalPrice"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

type tradeSideResp struct {
	ItemId      uint64 `json:"itemId"`
	Owner       string `json:"owner"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

type ongoingTradeResp struct {
	TradeId           uint64        `json:"tradeId"`
	Item1             tradeSideResp `json:"item1"`
	Item2             tradeSideResp `json:"item2"`
	Trader1           string        `json:"trader1"`
	Trader2           string        `json:"trader2"`
	ApprovedByTrader1 bool          `json:"approvedByTrader1"`
	ApprovedByTrader2 bool          `json:"approvedByTrader2"`
}

type snapshotResp struct {
	TakenAt       time.Time            `json:"takenAt"`
	Loading       bool                 `json:"loading"`
	Auctions      []auctionListingResp `json:"auctions"`
	Tradeables    []tradeListingResp   `json:"tradeables"`
	Owned         []ownedListingResp   `json:"owned"`
	OngoingTrades []ongoingTradeResp   `json:"ongoingTrades"`
}

// get serves the last built snapshot without touching the ledger
func (h *handler) get(c echo.Context) error {
	snap := h.catalog.Snapshot()
	if snap == nil {
		return delivery.MakeJsonResp(c, http.StatusOK, snapshotResp{Loading: h.catalog.Loading()})
	}
	return delivery.MakeJsonResp(c, http.StatusOK, toSnapshotResp(snap, h.catalog.Loading()))
}

// sync runs a full synchronization pass and serves the fresh snapshot
func (h *handler) sync(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	snap, err := h.catalog.Synchronize(ctx)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadGateway, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, toSnapshotResp(snap, false))
}

func toSnapshotResp(snap *catalog.Snapshot, loading bool) snapshotResp {
	resp := snapshotResp{
		TakenAt:       snap.TakenAt,
		Loading:       loading,
		Auctions:      []auctionListingResp{},
		Tradeables:    []tradeListingResp{},
		Owned:         []ownedListingResp{},
		OngoingTrades: []ongoingTradeResp{},
	}
	for _, a := range snap.Auctions {
		var bidder *string
		if !a.HighestBidder.IsEmpty() {
			bidder = ptr.String(a.HighestBidder.ToLowerStr())
		}
		resp.Auctions = append(resp.Auctions, auctionListingResp{
			ItemId:        uint64(a.ItemId),
			Seller:        a.Seller.ToLowerStr(),
			HighestBid:    pricefmt.FormatWei(a.HighestBid),
			HighestBidder: bidder,
			EndTime:       a.EndTime,
			Name:          a.Name,
			Description:   a.Description,
			Image:         a.Image,
		})
	}
	for _, l := range snap.Tradeables {
		resp.Tradeables = append(resp.Tradeables, tradeListingResp{
			ItemId:      uint64(l.ItemId),
			Owner:       l.Owner.ToLowerStr(),
			Name:        l.Name,
			Description: l.Description,
			Image:       l.Image,
		})
	}
	for _, o := range snap.Owned {
		resp.Owned = append(resp.Owned, ownedListingResp{
			ItemId:      uint64(o.ItemId),
			Price:       pricefmt.FormatWei(o.Price),
			TotalPrice:  pricefmt.FormatWei(o.TotalPrice),
			Name:        o.Name,
			Description: o.Description,
			Image:       o.Image,
		})
	}
	for _, tr := range snap.OngoingTrades {
		resp.OngoingTrades = append(resp.OngoingTrades, ongoingTradeResp{
			TradeId:           uint64(tr.TradeId),
			Item1:             toTradeSideResp(tr.Item1),
			Item2:             toTradeSideResp(tr.Item2),
			Trader1:           tr.Trader1.ToLowerStr(),
			Trader2:           tr.Trader2.ToLowerStr(),
			ApprovedByTrader1: tr.ApprovedByTrader1,
			ApprovedByTrader2: tr.ApprovedByTrader2,
		})
	}
	return resp
}

func toTradeSideResp(s catalog.TradeSide) tradeSideResp {
	return tradeSideResp{
		ItemId:      uint64(s.ItemId),
		Owner:       s.Owner.ToLowerStr(),
		Name:        s.Name,
		Description: s.Description,
		Image:       s.Image,
	}
}
