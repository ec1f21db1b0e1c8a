package vault

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Event surface of a MetaMorpho vault: the ERC-4626 share token events plus
// the curation, allocation, and governance events.
const metaMorphoABIJSON = `[
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "sender", "type": "address"},
      {"indexed": true, "internalType": "address", "name": "owner", "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "assets", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "shares", "type": "uint256"}
    ],
    "name": "Deposit",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "sender", "type": "address"},
      {"indexed": true, "internalType": "address", "name": "receiver", "type": "address"},
      {"indexed": true, "internalType": "address", "name": "owner", "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "assets", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "shares", "type": "uint256"}
    ],
    "name": "Withdraw",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "from", "type": "address"},
      {"indexed": true, "internalType": "address", "name": "to", "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "value", "type": "uint256"}
    ],
    "name": "Transfer",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "owner", "type": "address"},
      {"indexed": true, "internalType": "address", "name": "spender", "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "value", "type": "uint256"}
    ],
    "name": "Approval",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "caller", "type": "address"},
      {"indexed": true, "internalType": "Id", "name": "id", "type": "bytes32"},
      {"indexed": false, "internalType": "uint256", "name": "suppliedAssets", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "suppliedShares", "type": "uint256"}
    ],
    "name": "ReallocateSupply",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "caller", "type": "address"},
      {"indexed": true, "internalType": "Id", "name": "id", "type": "bytes32"},
      {"indexed": false, "internalType": "uint256", "name": "withdrawnAssets", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "withdrawnShares", "type": "uint256"}
    ],
    "name": "ReallocateWithdraw",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "uint256", "name": "newTotalAssets", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "feeShares", "type": "uint256"}
    ],
    "name": "AccrueInterest",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "uint256", "name": "updatedTotalAssets", "type": "uint256"}
    ],
    "name": "UpdateLastTotalAssets",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "uint256", "name": "newTimelock", "type": "uint256"}
    ],
    "name": "SubmitTimelock",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "caller", "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "newTimelock", "type": "uint256"}
    ],
    "name": "SetTimelock",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "newGuardian", "type": "address"}
    ],
    "name": "SubmitGuardian",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "caller", "type": "address"},
      {"indexed": true, "internalType": "address", "name": "guardian", "type": "address"}
    ],
    "name": "SetGuardian",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "caller", "type": "address"},
      {"indexed": true, "internalType": "Id", "name": "id", "type": "bytes32"},
      {"indexed": false, "internalType": "uint256", "name": "cap", "type": "uint256"}
    ],
    "name": "SubmitCap",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "caller", "type": "address"},
      {"indexed": true, "internalType": "Id", "name": "id", "type": "bytes32"},
      {"indexed": false, "internalType": "uint256", "name": "cap", "type": "uint256"}
    ],
    "name": "SetCap",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "caller", "type": "address"},
      {"indexed": true, "internalType": "Id", "name": "id", "type": "bytes32"}
    ],
    "name": "SubmitMarketRemoval",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "newCurator", "type": "address"}
    ],
    "name": "SetCurator",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "allocator", "type": "address"},
      {"indexed": false, "internalType": "bool", "name": "isAllocator", "type": "bool"}
    ],
    "name": "SetIsAllocator",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "caller", "type": "address"}
    ],
    "name": "RevokePendingTimelock",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "caller", "type": "address"},
      {"indexed": true, "internalType": "Id", "name": "id", "type": "bytes32"}
    ],
    "name": "RevokePendingCap",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "caller", "type": "address"}
    ],
    "name": "RevokePendingGuardian",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "caller", "type": "address"},
      {"indexed": true, "internalType": "Id", "name": "id", "type": "bytes32"}
    ],
    "name": "RevokePendingMarketRemoval",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "caller", "type": "address"},
      {"indexed": false, "internalType": "Id[]", "name": "newSupplyQueue", "type": "bytes32[]"}
    ],
    "name": "SetSupplyQueue",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "caller", "type": "address"},
      {"indexed": false, "internalType": "Id[]", "name": "newWithdrawQueue", "type": "bytes32[]"}
    ],
    "name": "SetWithdrawQueue",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "caller", "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "newFee", "type": "uint256"}
    ],
    "name": "SetFee",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "newFeeRecipient", "type": "address"}
    ],
    "name": "SetFeeRecipient",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "newSkimRecipient", "type": "address"}
    ],
    "name": "SetSkimRecipient",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "caller", "type": "address"},
      {"indexed": true, "internalType": "address", "name": "token", "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "amount", "type": "uint256"}
    ],
    "name": "Skim",
    "type": "event"
  }
]`

// Morpho Blue market registry, only the read method the label resolver needs.
const morphoBlueABIJSON = `[
  {
    "inputs": [{"internalType": "Id", "name": "", "type": "bytes32"}],
    "name": "idToMarketParams",
    "outputs": [
      {"internalType": "address", "name": "loanToken", "type": "address"},
      {"internalType": "address", "name": "collateralToken", "type": "address"},
      {"internalType": "address", "name": "oracle", "type": "address"},
      {"internalType": "address", "name": "irm", "type": "address"},
      {"internalType": "uint256", "name": "lltv", "type": "uint256"}
    ],
    "stateMutability": "view",
    "type": "function"
  }
]`

const erc20SymbolABIJSON = `[
  {"inputs": [], "name": "symbol", "outputs": [{"type": "string"}], "stateMutability": "view", "type": "function"}
]`

const erc20SymbolBytes32ABIJSON = `[
  {"inputs": [], "name": "symbol", "outputs": [{"type": "bytes32"}], "stateMutability": "view", "type": "function"}
]`

var (
	metaMorphoABI     abi.ABI
	metaMorphoABIOnce sync.Once
	metaMorphoABIErr  error

	morphoBlueABI     abi.ABI
	morphoBlueABIOnce sync.Once
	morphoBlueABIErr  error

	erc20SymbolABI     abi.ABI
	erc20SymbolABIOnce sync.Once
	erc20SymbolABIErr  error

	erc20SymbolBytes32ABI     abi.ABI
	erc20SymbolBytes32ABIOnce sync.Once
	erc20SymbolBytes32ABIErr  error
)

// MetaMorphoABI returns the parsed vault event ABI.
func MetaMorphoABI() (abi.ABI, error) {
	metaMorphoABIOnce.Do(func() {
		metaMorphoABI, metaMorphoABIErr = abi.JSON(strings.NewReader(metaMorphoABIJSON))
	})
	return metaMorphoABI, metaMorphoABIErr
}

// MorphoBlueABI returns the parsed Morpho Blue registry ABI.
func MorphoBlueABI() (abi.ABI, error) {
	morphoBlueABIOnce.Do(func() {
		morphoBlueABI, morphoBlueABIErr = abi.JSON(strings.NewReader(morphoBlueABIJSON))
	})
	return morphoBlueABI, morphoBlueABIErr
}

// ERC20SymbolABI returns the standard string-returning symbol ABI.
func ERC20SymbolABI() (abi.ABI, error) {
	erc20SymbolABIOnce.Do(func() {
		erc20SymbolABI, erc20SymbolABIErr = abi.JSON(strings.NewReader(erc20SymbolABIJSON))
	})
	return erc20SymbolABI, erc20SymbolABIErr
}

// ERC20SymbolBytes32ABI returns the bytes32-returning symbol ABI used by a
// few older token contracts.
func ERC20SymbolBytes32ABI() (abi.ABI, error) {
	erc20SymbolBytes32ABIOnce.Do(func() {
		erc20SymbolBytes32ABI, erc20SymbolBytes32ABIErr = abi.JSON(strings.NewReader(erc20SymbolBytes32ABIJSON))
	})
	return erc20SymbolBytes32ABI, erc20SymbolBytes32ABIErr
}
