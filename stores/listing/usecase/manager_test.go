package usecase

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"

	bCtx "github.com/bazaarx/goclient/base/ctx"
	"github.com/bazaarx/goclient/domain"
	"github.com/bazaarx/goclient/domain/catalog"
	"github.com/bazaarx/goclient/domain/listing"
	"github.com/bazaarx/goclient/domain/marketplace"
)

type fakeGateway struct {
	marketplace.LedgerGateway

	listed       []*big.Int
	relisted     []*big.Int
	tradesOpened []domain.ItemId
	writeErr     error
}

func (f *fakeGateway) ListItem(_ bCtx.Ctx, itemId domain.ItemId, price *big.Int) (domain.TxHash, error) {
	f.listed = append(f.listed, price)
	if f.writeErr != nil {
		return "", f.writeErr
	}
	return "0xlist", nil
}

func (f *fakeGateway) RelistItem(_ bCtx.Ctx, itemId domain.ItemId, price *big.Int) (domain.TxHash, error) {
	f.relisted = append(f.relisted, price)
	if f.writeErr != nil {
		return "", f.writeErr
	}
	return "0xrelist", nil
}

func (f *fakeGateway) CreateTrade(_ bCtx.Ctx, itemId domain.ItemId) (domain.TxHash, error) {
	f.tradesOpened = append(f.tradesOpened, itemId)
	if f.writeErr != nil {
		return "", f.writeErr
	}
	return "0xtrade", nil
}

type fakeCatalog struct {
	catalog.UseCase
	syncs int
}

func (f *fakeCatalog) Synchronize(bCtx.Ctx) (*catalog.Snapshot, error) {
	f.syncs++
	return &catalog.Snapshot{}, nil
}

func newTestManager() (listing.UseCase, *fakeGateway, *fakeCatalog) {
	gw := &fakeGateway{}
	cat := &fakeCatalog{}
	return New(&ListingUseCaseCfg{Gateway: gw, Catalog: cat}), gw, cat
}

func TestListItemRejectsLocally(t *testing.T) {
	tests := []struct {
		name   string
		draft  *listing.PriceDraft
		expect error
	}{
		{name: "no draft", draft: nil, expect: domain.ErrMissingSelection},
		{name: "zero price", draft: &listing.PriceDraft{Price: "0"}, expect: domain.ErrInvalidAmount},
		{name: "negative price", draft: &listing.PriceDraft{Price: "-0.5"}, expect: domain.ErrInvalidAmount},
		{name: "not a number", draft: &listing.PriceDraft{Price: "oops"}, expect: domain.ErrInvalidAmount},
		{name: "below base unit", draft: &listing.PriceDraft{Price: "0.0000000000000000001"}, expect: domain.ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, gw, cat := newTestManager()
			if tt.draft != nil {
				uc.SetPriceDraft(5, *tt.draft)
			}
			_, err := uc.ListItem(bCtx.Background(), 5)
			require.ErrorIs(t, err, tt.expect)
			require.Empty(t, gw.listed)
			require.Zero(t, cat.syncs)
		})
	}
}

func TestListAndRelistUseDistinctWrites(t *testing.T) {
	uc, gw, cat := newTestManager()

	uc.SetPriceDraft(5, listing.PriceDraft{Price: "2"})
	_, err := uc.ListItem(bCtx.Background(), 5)
	require.NoError(t, err)

	uc.SetPriceDraft(6, listing.PriceDraft{Price: "3"})
	_, err = uc.RelistItem(bCtx.Background(), 6)
	require.NoError(t, err)

	two := new(big.Int)
	two.SetString("2000000000000000000", 10)
	three := new(big.Int)
	three.SetString("3000000000000000000", 10)
	require.Equal(t, []*big.Int{two}, gw.listed)
	require.Equal(t, []*big.Int{three}, gw.relisted)

	_, ok := uc.PriceDraft(5)
	require.False(t, ok)
	_, ok = uc.PriceDraft(6)
	require.False(t, ok)
	require.Equal(t, 2, cat.syncs)
}

func TestListItemKeepsDraftOnLedgerFailure(t *testing.T) {
	uc, gw, cat := newTestManager()
	gw.writeErr = xerrors.New("reverted")
	uc.SetPriceDraft(5, listing.PriceDraft{Price: "2"})

	_, err := uc.ListItem(bCtx.Background(), 5)
	require.Error(t, err)

	draft, ok := uc.PriceDraft(5)
	require.True(t, ok)
	require.Equal(t, "2", draft.Price)
	require.Zero(t, cat.syncs)
}

func TestListForTrade(t *testing.T) {
	uc, gw, cat := newTestManager()

	_, err := uc.ListForTrade(bCtx.Background(), 0)
	require.ErrorIs(t, err, domain.ErrMissingSelection)
	require.Empty(t, gw.tradesOpened)

	_, err = uc.ListForTrade(bCtx.Background(), 8)
	require.NoError(t, err)
	require.Equal(t, []domain.ItemId{8}, gw.tradesOpened)
	require.Equal(t, 1, cat.syncs)
}
