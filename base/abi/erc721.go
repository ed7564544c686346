package abi

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

var ERC721TokenABI abi.ABI

var erc721ABIJson = `[
  {"type":"function","name":"supportsInterface","constant":true,"stateMutability":"view","payable":false,"inputs":[{"type":"bytes4","name":"interfaceID"}],"outputs":[{"type":"bool"}]},
  {"type":"function","name":"tokenURI","constant":true,"stateMutability":"view","payable":false,"inputs":[{"type":"uint256","name":"_tokenId"}],"outputs":[{"type":"string"}]},
  {"type":"function","name":"ownerOf","constant":true,"stateMutability":"view","payable":false,"inputs":[{"type":"uint256","name":"_tokenId"}],"outputs":[{"type":"address"}]}
]`

func init() {
	_abi, err := abi.JSON(strings.NewReader(erc721ABIJson))
	if err != nil {
		panic("Failed to parse ABI")
	}
	ERC721TokenABI = _abi
}
