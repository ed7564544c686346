package contract

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/xerrors"

	baseabi "github.com/bazaarx/goclient/base/abi"
	bCtx "github.com/bazaarx/goclient/base/ctx"
	"github.com/bazaarx/goclient/domain"
	"github.com/bazaarx/goclient/service/chain"
)

type Erc721Cfg struct {
	ChainId     int32
	Address     domain.Address
	CallTimeout time.Duration
}

// Erc721 reads the nft contract backing the marketplace items.
// Implements marketplace.NftGateway.
type Erc721 struct {
	chainService chain.Client
	chainId      int32
	addr         common.Address
	callTimeout  time.Duration
}

func NewErc721(chainService chain.Client, cfg *Erc721Cfg) *Erc721 {
	timeout := cfg.CallTimeout
	if timeout == 0 {
		timeout = defaultCallTimeout
	}
	return &Erc721{
		chainService: chainService,
		chainId:      cfg.ChainId,
		addr:         common.HexToAddress(string(cfg.Address)),
		callTimeout:  timeout,
	}
}

func (e *Erc721) TokenURI(c bCtx.Ctx, tokenId domain.TokenId) (string, error) {
	id, ok := new(big.Int).SetString(tokenId.String(), 10)
	if !ok {
		return "", xerrors.Errorf("invalid token id %s", tokenId)
	}
	ctx, cancel := bCtx.WithTimeout(c, e.callTimeout)
	defer cancel()
	unpacked, err := e.chainService.Call(ctx, e.chainId, e.addr, nil, baseabi.ERC721TokenABI, "tokenURI", id)
	if err != nil {
		return "", err
	}
	return unpacked[0].(string), nil
}

func (e *Erc721) OwnerOf(c bCtx.Ctx, tokenId domain.TokenId) (domain.Address, error) {
	id, ok := new(big.Int).SetString(tokenId.String(), 10)
	if !ok {
		return "", xerrors.Errorf("invalid token id %s", tokenId)
	}
	ctx, cancel := bCtx.WithTimeout(c, e.callTimeout)
	defer cancel()
	unpacked, err := e.chainService.Call(ctx, e.chainId, e.addr, nil, baseabi.ERC721TokenABI, "ownerOf", id)
	if err != nil {
		return "", err
	}
	return domain.Address(unpacked[0].(common.Address).Hex()).ToLower(), nil
}
