package chain

import (
	"crypto/ecdsa"
	"errors"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	bCtx "github.com/bazaarx/goclient/base/ctx"
	"github.com/bazaarx/goclient/base/log"
	"github.com/bazaarx/goclient/base/metrics"
)

var (
	ErrUnsupportedChain = errors.New("unsupported chain")
	ErrNoSigner         = errors.New("no signer configured for chain")
	ErrTxReverted       = errors.New("transaction reverted")
)

type ClientCfg struct {
	RpcUrls map[int32]string
	// SignerKeys holds hex-encoded private keys used to sign mutating calls
	SignerKeys map[int32]string
}

// Client performs read calls and signed mutating transactions against the
// configured chains. Send blocks until the transaction is mined.
type Client interface {
	Call(bCtx.Ctx, int32, common.Address, *big.Int, abi.ABI, string, ...interface{}) ([]interface{}, error)
	Send(c bCtx.Ctx, chainId int32, addr common.Address, value *big.Int, _abi abi.ABI, method string, params ...interface{}) (common.Hash, error)
	Sender(chainId int32) (common.Address, error)
}

type clientImpl struct {
	clients map[int32]*ethclient.Client
	signers map[int32]*ecdsa.PrivateKey
	met     metrics.Service
}

func NewClient(ctx bCtx.Ctx, cfg *ClientCfg) (Client, error) {
	var anyerr error
	clients := make(map[int32]*ethclient.Client)
	for chainId, url := range cfg.RpcUrls {
		client, err := ethclient.DialContext(ctx, url)
		if err != nil {
			anyerr = err
			ctx.WithFields(log.Fields{
				"err":     err,
				"chainId": chainId,
				"url":     url,
			}).Warn("failed to dial rpc")
			// soft warning, still let the process start
			continue
		}
		clients[chainId] = client
	}
	signers := make(map[int32]*ecdsa.PrivateKey)
	for chainId, hexkey := range cfg.SignerKeys {
		// a chain without a signer stays read-only
		if hexkey == "" {
			continue
		}
		key, err := crypto.HexToECDSA(strings.TrimPrefix(hexkey, "0x"))
		if err != nil {
			ctx.WithFields(log.Fields{
				"err":     err,
				"chainId": chainId,
			}).Error("invalid signer key")
			return nil, err
		}
		signers[chainId] = key
	}
	return &clientImpl{
		clients: clients,
		signers: signers,
		met:     metrics.New("chain"),
	}, anyerr
}

func (c *clientImpl) Call(ctx bCtx.Ctx, chainId int32, addr common.Address, blk *big.Int, _abi abi.ABI, method string, params ...interface{}) ([]interface{}, error) {
	client, ok := c.clients[chainId]
	if !ok {
		return nil, ErrUnsupportedChain
	}

	defer c.met.BumpTime("call.latency", "method", method).End()

	data, err := _abi.Pack(method, params...)
	if err != nil {
		ctx.WithFields(log.Fields{
			"method": method,
			"params": params,
			"err":    err,
		}).Error("abi.Pack failed")
		return nil, err
	}
	msg := ethereum.CallMsg{
		To:   &addr,
		Data: data,
	}
	res, err := client.CallContract(ctx, msg, blk)
	if err != nil {
		ctx.WithField("err", err).Error("client.CallContract failed")
		return nil, err
	}
	unpacked, err := _abi.Unpack(method, res)
	if err != nil {
		ctx.WithField("err", err).Error("abi.Unpack failed")
		return nil, err
	}
	return unpacked, nil
}

// Sender returns the address mutating calls are signed with on the given chain
func (c *clientImpl) Sender(chainId int32) (common.Address, error) {
	key, ok := c.signers[chainId]
	if !ok {
		return common.Address{}, ErrNoSigner
	}
	return crypto.PubkeyToAddress(key.PublicKey), nil
}

// Send signs, submits and waits for the transaction to be mined. A mined but
// reverted transaction is returned as ErrTxReverted. There is no retry.
func (c *clientImpl) Send(ctx bCtx.Ctx, chainId int32, addr common.Address, value *big.Int, _abi abi.ABI, method string, params ...interface{}) (common.Hash, error) {
	client, ok := c.clients[chainId]
	if !ok {
		return common.Hash{}, ErrUnsupportedChain
	}
	key, ok := c.signers[chainId]
	if !ok {
		return common.Hash{}, ErrNoSigner
	}

	defer c.met.BumpTime("send.latency", "method", method).End()

	from := crypto.PubkeyToAddress(key.PublicKey)
	data, err := _abi.Pack(method, params...)
	if err != nil {
		ctx.WithFields(log.Fields{
			"method": method,
			"params": params,
			"err":    err,
		}).Error("abi.Pack failed")
		return common.Hash{}, err
	}
	nonce, err := client.PendingNonceAt(ctx, from)
	if err != nil {
		ctx.WithField("err", err).Error("client.PendingNonceAt failed")
		return common.Hash{}, err
	}
	gasPrice, err := client.SuggestGasPrice(ctx)
	if err != nil {
		ctx.WithField("err", err).Error("client.SuggestGasPrice failed")
		return common.Hash{}, err
	}
	gasLimit, err := client.EstimateGas(ctx, ethereum.CallMsg{
		From:  from,
		To:    &addr,
		Value: value,
		Data:  data,
	})
	if err != nil {
		ctx.WithFields(log.Fields{
			"method": method,
			"err":    err,
		}).Error("client.EstimateGas failed")
		return common.Hash{}, err
	}

	tx := types.NewTransaction(nonce, addr, value, gasLimit, gasPrice, data)
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(big.NewInt(int64(chainId))), key)
	if err != nil {
		ctx.WithField("err", err).Error("types.SignTx failed")
		return common.Hash{}, err
	}
	if err := client.SendTransaction(ctx, signed); err != nil {
		ctx.WithFields(log.Fields{
			"method": method,
			"err":    err,
		}).Error("client.SendTransaction failed")
		return common.Hash{}, err
	}

	receipt, err := bind.WaitMined(ctx, client, signed)
	if err != nil {
		ctx.WithFields(log.Fields{
			"txHash": signed.Hash().Hex(),
			"err":    err,
		}).Error("bind.WaitMined failed")
		return common.Hash{}, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		ctx.WithFields(log.Fields{
			"txHash": signed.Hash().Hex(),
			"method": method,
		}).Error("transaction reverted")
		return common.Hash{}, ErrTxReverted
	}
	return signed.Hash(), nil
}
