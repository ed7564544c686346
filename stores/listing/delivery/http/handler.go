package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	bCtx "github.com/bazaarx/goclient/base/ctx"
	"github.com/bazaarx/goclient/base/delivery"
	"github.com/bazaarx/goclient/domain"
	"github.com/bazaarx/goclient/domain/listing"
)

type handler struct {
	listing listing.UseCase
}

func New(e *echo.Echo, listing listing.UseCase) {
	h := &handler{listing}

	g := e.Group("/items/:itemId")

	g.PUT("/price-draft", h.setPriceDraft)

	g.POST("/list", h.listItem)

	g.POST("/relist", h.relistItem)

	g.POST("/list-for-trade", h.listForTrade)
}

type priceDraftPayload struct {
	Price string `json:"price" validate:"required"`
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

func (h *handler) setPriceDraft(c echo.Context) error {
	itemId, err := itemIdParam(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	p := &priceDraftPayload{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}

	h.listing.SetPriceDraft(itemId, listing.PriceDraft{Price: p.Price})
	return delivery.MakeJsonResp(c, http.StatusOK, p)
}

func (h *handler) listItem(c echo.Context) error {
	return h.submit(c, h.listing.ListItem)
}

func (h *handler) relistItem(c echo.Context) error {
	return h.submit(c, h.listing.RelistItem)
}

func (h *handler) listForTrade(c echo.Context) error {
	return h.submit(c, h.listing.ListForTrade)
}

func (h *handler) submit(c echo.Context, op func(bCtx.Ctx, domain.ItemId) (domain.TxHash, error)) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	itemId, err := itemIdParam(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	txHash, err := op(ctx, itemId)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadGateway, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, txResp{txHash.String()})
}
