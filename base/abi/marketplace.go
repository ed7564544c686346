package abi

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

var MarketplaceABI abi.ABI

var marketplaceABIJson = `[
  {"type":"function","name":"itemCount","constant":true,"stateMutability":"view","payable":false,"inputs":[],"outputs":[{"type":"uint256"}]},
  {"type":"function","name":"items","constant":true,"stateMutability":"view","payable":false,"inputs":[{"type":"uint256","name":"_itemId"}],"outputs":[{"type":"uint256","name":"itemId"},{"type":"uint256","name":"tokenId"},{"type":"address","name":"seller"},{"type":"address","name":"owner"},{"type":"uint256","name":"price"},{"type":"bool","name":"listedForTrade"}]},
  {"type":"function","name":"auctions","constant":true,"stateMutability":"view","payable":false,"inputs":[{"type":"uint256","name":"_itemId"}],"outputs":[{"type":"uint256","name":"itemId"},{"type":"uint256","name":"highestBid"},{"type":"address","name":"highestBidder"},{"type":"uint256","name":"endTime"},{"type":"bool","name":"ended"}]},
  {"type":"function","name":"tradeCount","constant":true,"stateMutability":"view","payable":false,"inputs":[],"outputs":[{"type":"uint256"}]},
  {"type":"function","name":"trades","constant":true,"stateMutability":"view","payable":false,"inputs":[{"type":"uint256","name":"_tradeId"}],"outputs":[{"type":"uint256","name":"tradeId"},{"type":"uint256","name":"itemId1"},{"type":"uint256","name":"itemId2"},{"type":"address","name":"trader1"},{"type":"address","name":"trader2"},{"type":"bool","name":"approvedByTrader1"},{"type":"bool","name":"approvedByTrader2"},{"type":"bool","name":"completed"}]},
  {"type":"function","name":"getTotalPrice","constant":true,"stateMutability":"view","payable":false,"inputs":[{"type":"uint256","name":"_itemId"}],"outputs":[{"type":"uint256"}]},
  {"type":"function","name":"bid","constant":false,"stateMutability":"payable","payable":true,"inputs":[{"type":"uint256","name":"_itemId"}],"outputs":[]},
  {"type":"function","name":"listItem","constant":false,"stateMutability":"nonpayable","payable":false,"inputs":[{"type":"uint256","name":"_itemId"},{"type":"uint256","name":"_price"}],"outputs":[]},
  {"type":"function","name":"relistItem","constant":false,"stateMutability":"nonpayable","payable":false,"inputs":[{"type":"uint256","name":"_itemId"},{"type":"uint256","name":"_price"}],"outputs":[]},
  {"type":"function","name":"createAuction","constant":false,"stateMutability":"nonpayable","payable":false,"inputs":[{"type":"uint256","name":"_itemId"},{"type":"uint256","name":"_startingPrice"},{"type":"uint256","name":"_duration"}],"outputs":[]},
  {"type":"function","name":"endAuction","constant":false,"stateMutability":"nonpayable","payable":false,"inputs":[{"type":"uint256","name":"_itemId"}],"outputs":[]},
  {"type":"function","name":"createTrade","constant":false,"stateMutability":"nonpayable","payable":false,"inputs":[{"type":"uint256","name":"_itemId"}],"outputs":[]},
  {"type":"function","name":"proposeTrade","constant":false,"stateMutability":"nonpayable","payable":false,"inputs":[{"type":"uint256","name":"_itemId1"},{"type":"uint256","name":"_itemId2"}],"outputs":[]},
  {"type":"function","name":"approveTrade","constant":false,"stateMutability":"nonpayable","payable":false,"inputs":[{"type":"uint256","name":"_tradeId"}],"outputs":[]}
]`

func init() {
	_abi, err := abi.JSON(strings.NewReader(marketplaceABIJson))
	if err != nil {
		panic("Failed to parse ABI")
	}
	MarketplaceABI = _abi
}
