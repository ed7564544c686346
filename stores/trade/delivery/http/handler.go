package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	bCtx "github.com/bazaarx/goclient/base/ctx"
	"github.com/bazaarx/goclient/base/delivery"
	"github.com/bazaarx/goclient/domain"
	"github.com/bazaarx/goclient/domain/trade"
)

type handler struct {
	trade trade.UseCase
}

func New(e *echo.Echo, trade trade.UseCase) {
	h := &handler{trade}

	g := e.Group("/trades")

	g.PUT("/proposal-draft", h.setProposalDraft)

	g.POST("/propose", h.proposeTrade)

	g.POST("/:tradeId/approve", h.approveTrade)
}

type proposalDraftPayload struct {
	TargetItemId uint64 `json:"targetItemId" validate:"required"`
	OwnItemId    uint64 `json:"ownItemId" validate:"required"`
}

type txResp struct {
	TxHash string `json:"txHash"`
}

func (h *handler) setProposalDraft(c echo.Context) error {
	p := &proposalDraftPayload{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}

	h.trade.SetProposalDraft(trade.ProposalDraft{
		TargetItemId: domain.ItemId(p.TargetItemId),
		OwnItemId:    domain.ItemId(p.OwnItemId),
	})
	return delivery.MakeJsonResp(c, http.StatusOK, p)
}

func (h *handler) proposeTrade(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	txHash, err := h.trade.ProposeTrade(ctx)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadGateway, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, txResp{txHash.String()})
}

func (h *handler) approveTrade(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	id, err := strconv.ParseUint(c.Param("tradeId"), 10, 64)
	if err != nil || id == 0 {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}

	txHash, err := h.trade.ApproveTrade(ctx, domain.TradeId(id))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadGateway, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, txResp{txHash.String()})
}
