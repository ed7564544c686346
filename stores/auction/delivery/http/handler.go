package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	bCtx "github.com/bazaarx/goclient/base/ctx"
	"github.com/bazaarx/goclient/base/delivery"
	"github.com/bazaarx/goclient/domain"
	"github.com/bazaarx/goclient/domain/auction"
)

type handler struct {
	auction auction.UseCase
}

func New(e *echo.Echo, auction auction.UseCase) {
	h := &handler{auction}

	g := e.Group("/auctions/:itemId")

	g.PUT("/bid-draft", h.setBidDraft)

	g.POST("/bid", h.placeBid)

	g.PUT("/start-draft", h.setStartDraft)

	g.POST("/start", h.startAuction)

	g.POST("/end", h.endAuction)
}

type bidDraftPayload struct {
	Amount string `json:"amount" validate:"required"`
}

type startDraftPayload struct {
	StartingPrice   string `json:"startingPrice" validate:"required"`
	DurationSeconds int64  `json:"durationSeconds" validate:"required"`
}

type txResp struct {
	TxHash string `json:"txHash"`
}

func itemIdParam(c echo.Context) (domain.ItemId, error) {
	id, err := strconv.ParseUint(c.Param("itemId"), 10, 64)
	if err != nil || id == 0 {
		return 0, domain.ErrBadParamInput
	}
	return domain.ItemId(id), nil
}

// setBidDraft stores the drafted amount without validating it, rejection
// happens on submission
func (h *handler) setBidDraft(c echo.Context) error {
	itemId, err := itemIdParam(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	p := &bidDraftPayload{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}

	h.auction.SetBidDraft(itemId, auction.BidDraft{Amount: p.Amount})
	return delivery.MakeJsonResp(c, http.StatusOK, p)
}

func (h *handler) placeBid(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	itemId, err := itemIdParam(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	txHash, err := h.auction.PlaceBid(ctx, itemId)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadGateway, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, txResp{txHash.String()})
}

func (h *handler) setStartDraft(c echo.Context) error {
	itemId, err := itemIdParam(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	p := &startDraftPayload{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}

	h.auction.SetStartDraft(itemId, auction.StartDraft{
		StartingPrice:   p.StartingPrice,
		DurationSeconds: p.DurationSeconds,
	})
	return delivery.MakeJsonResp(c, http.StatusOK, p)
}

func (h *handler) startAuction(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	itemId, err := itemIdParam(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	txHash, err := h.auction.StartAuction(ctx, itemId)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadGateway, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, txResp{txHash.String()})
}

// endAuction is always forwarded, the ledger enforces the time bound
func (h *handler) endAuction(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	itemId, err := itemIdParam(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	txHash, err := h.auction.EndAuction(ctx, itemId)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadGateway, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, txResp{txHash.String()})
}
