package label

import (
	"context"
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"

	"vaultwatch/internal/vault"
)

const testMarketID = "0x3c83f77bde9541f8d3d82533b19bbc1f97eb2f1098bb991728acbfbede09cc5d"

var (
	debtToken       = common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
	collateralToken = common.HexToAddress("0x7f39C581F595B53c5cb19bD0b3f8dA6c935E2Ca0")
	morphoAddress   = common.HexToAddress("0xBBBBBbbBBb9cC5e90e3b3Af64bdAF62C37EEFFCb")
)

// fakeChain answers eth_call by contract address, counting calls so the
// tests can assert cache hits never reach the chain.
type fakeChain struct {
	t       *testing.T
	symbols map[common.Address]string
	broken  map[common.Address]bool
	lltv    *big.Int
	calls   map[common.Address]int
}

func newFakeChain(t *testing.T) *fakeChain {
	lltv, _ := new(big.Int).SetString("860000000000000000", 10)
	return &fakeChain{
		t: t,
		symbols: map[common.Address]string{
			debtToken:       "USDC",
			collateralToken: "wstETH",
		},
		broken: make(map[common.Address]bool),
		lltv:   lltv,
		calls:  make(map[common.Address]int),
	}
}

func (f *fakeChain) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	f.calls[*msg.To]++

	if *msg.To == morphoAddress {
		morphoABI, err := vault.MorphoBlueABI()
		if err != nil {
			f.t.Fatalf("parse morpho abi: %v", err)
		}
		return morphoABI.Methods["idToMarketParams"].Outputs.Pack(
			debtToken, collateralToken, common.Address{}, common.Address{}, f.lltv,
		)
	}

	if f.broken[*msg.To] {
		return nil, fmt.Errorf("execution reverted")
	}
	symbol, ok := f.symbols[*msg.To]
	if !ok {
		return nil, fmt.Errorf("unexpected call to %s", msg.To.Hex())
	}
	stringABI, err := vault.ERC20SymbolABI()
	if err != nil {
		f.t.Fatalf("parse erc20 abi: %v", err)
	}
	return stringABI.Methods["symbol"].Outputs.Pack(symbol)
}

func (f *fakeChain) total() int {
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func TestResolveFetchesAndCaches(t *testing.T) {
	chain := newFakeChain(t)
	store := NewStore(t.TempDir(), "vault")
	r := NewResolver(chain, store, morphoAddress, nil)

	label, err := r.Resolve(context.Background(), testMarketID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if label.CollateralSymbol != "wstETH" || label.DebtSymbol != "USDC" {
		t.Fatalf("unexpected symbols: %+v", label)
	}
	if label.LLTV != 0.86 {
		t.Fatalf("got lltv %v, want 0.86", label.LLTV)
	}
	if label.DebtAddress != debtToken.Hex() || label.CollateralAddress != collateralToken.Hex() {
		t.Fatalf("unexpected addresses: %+v", label)
	}

	// Second resolve must be served from the store.
	before := chain.total()
	if _, err := r.Resolve(context.Background(), testMarketID); err != nil {
		t.Fatalf("cached resolve: %v", err)
	}
	if chain.total() != before {
		t.Fatalf("cached resolve hit the chain: %d calls", chain.total()-before)
	}
}

func TestResolveSymbolFailureUsesSentinel(t *testing.T) {
	chain := newFakeChain(t)
	chain.broken[collateralToken] = true
	store := NewStore(t.TempDir(), "vault")
	r := NewResolver(chain, store, morphoAddress, nil)

	label, err := r.Resolve(context.Background(), testMarketID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if label.CollateralSymbol != "undefined" {
		t.Fatalf("got collateral symbol %q, want undefined", label.CollateralSymbol)
	}
	if label.DebtSymbol != "USDC" {
		t.Fatalf("got debt symbol %q, want USDC", label.DebtSymbol)
	}
}

func TestResolveMakerBypassesSymbolCall(t *testing.T) {
	chain := newFakeChain(t)
	chain.symbols = map[common.Address]string{debtToken: "DAI"}
	maker := common.HexToAddress("0x9f8F72aA9304c8B593d555F12eF6589cC3A579A2")
	oldCollateral := collateralToken
	collateralToken = maker
	defer func() { collateralToken = oldCollateral }()

	store := NewStore(t.TempDir(), "vault")
	r := NewResolver(chain, store, morphoAddress, nil)

	label, err := r.Resolve(context.Background(), testMarketID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if label.CollateralSymbol != "MKR" {
		t.Fatalf("got collateral symbol %q, want MKR", label.CollateralSymbol)
	}
	if chain.calls[maker] != 0 {
		t.Fatalf("MKR symbol should not be fetched on chain, got %d calls", chain.calls[maker])
	}
}

func TestAnnotationFormat(t *testing.T) {
	chain := newFakeChain(t)
	store := NewStore(t.TempDir(), "vault")
	r := NewResolver(chain, store, morphoAddress, nil)

	got := r.Annotation(context.Background(), testMarketID)
	if got != "[wstETH/USDC/86%]" {
		t.Fatalf("got annotation %q, want [wstETH/USDC/86%%]", got)
	}
}

func TestAnnotationFailureIsEmpty(t *testing.T) {
	chain := newFakeChain(t)
	store := NewStore(t.TempDir(), "vault")
	r := NewResolver(chain, store, morphoAddress, nil)

	if got := r.Annotation(context.Background(), "not-a-market-id"); got != "" {
		t.Fatalf("got annotation %q for invalid id, want empty", got)
	}
}
