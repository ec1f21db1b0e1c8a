package label

import (
	"bytes"
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"vaultwatch/internal/model"
	"vaultwatch/internal/vault"
)

// undefinedSymbol substitutes a token symbol that could not be fetched.
const undefinedSymbol = "undefined"

// makerToken returns a bytes32 symbol; resolved by name instead of calling it.
var makerToken = common.HexToAddress("0x9f8F72aA9304c8B593d555F12eF6589cC3A579A2")

// ChainReader is the subset of the chain client the resolver needs.
type ChainReader interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// Resolver resolves market ids into labels, caching every result in the
// store. A market is looked up on chain at most once for the lifetime of the
// snapshot file.
type Resolver struct {
	client ChainReader
	store  *Store
	morpho common.Address
	logger *zap.Logger
}

func NewResolver(client ChainReader, store *Store, morpho common.Address, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		client: client,
		store:  store,
		morpho: morpho,
		logger: logger,
	}
}

// Resolve returns the label for a market, fetching and persisting it on
// first reference.
func (r *Resolver) Resolve(ctx context.Context, marketID string) (model.MarketLabel, error) {
	if label, ok := r.store.Get(marketID); ok {
		return label, nil
	}

	r.logger.Info("no cached market data, fetching on chain", zap.String("market", marketID))
	label, err := r.fetch(ctx, marketID)
	if err != nil {
		return model.MarketLabel{}, err
	}
	if err := r.store.Put(label); err != nil {
		return model.MarketLabel{}, err
	}
	return label, nil
}

// Annotation renders the market label suffix [collateral/debt/lltv%]. Any
// resolution failure yields an empty annotation instead of an error.
func (r *Resolver) Annotation(ctx context.Context, marketID string) string {
	label, err := r.Resolve(ctx, marketID)
	if err != nil {
		r.logger.Warn("market label resolution failed", zap.String("market", marketID), zap.Error(err))
		return ""
	}
	percent := decimal.NewFromFloat(label.LLTV).Mul(decimal.NewFromInt(100))
	return fmt.Sprintf("[%s/%s/%s%%]", label.CollateralSymbol, label.DebtSymbol, percent.String())
}

func (r *Resolver) fetch(ctx context.Context, marketID string) (model.MarketLabel, error) {
	id, err := parseMarketID(marketID)
	if err != nil {
		return model.MarketLabel{}, err
	}

	morphoABI, err := vault.MorphoBlueABI()
	if err != nil {
		return model.MarketLabel{}, fmt.Errorf("parse morpho abi: %w", err)
	}

	data, err := morphoABI.Pack("idToMarketParams", id)
	if err != nil {
		return model.MarketLabel{}, fmt.Errorf("pack idToMarketParams: %w", err)
	}
	resp, err := r.client.CallContract(ctx, ethereum.CallMsg{To: &r.morpho, Data: data}, nil)
	if err != nil {
		return model.MarketLabel{}, fmt.Errorf("call idToMarketParams: %w", err)
	}
	values, err := morphoABI.Unpack("idToMarketParams", resp)
	if err != nil {
		return model.MarketLabel{}, fmt.Errorf("unpack idToMarketParams: %w", err)
	}
	if len(values) != 5 {
		return model.MarketLabel{}, fmt.Errorf("unexpected market params: %d values", len(values))
	}

	debtAddress, err := asAddress(values[0])
	if err != nil {
		return model.MarketLabel{}, fmt.Errorf("loan token: %w", err)
	}
	collateralAddress, err := asAddress(values[1])
	if err != nil {
		return model.MarketLabel{}, fmt.Errorf("collateral token: %w", err)
	}
	lltvRaw, ok := values[4].(*big.Int)
	if !ok {
		return model.MarketLabel{}, fmt.Errorf("unexpected lltv type %T", values[4])
	}
	lltv := decimal.NewFromBigInt(lltvRaw, -18).InexactFloat64()

	debtSymbol, err := r.tokenSymbol(ctx, debtAddress)
	if err != nil {
		debtSymbol = undefinedSymbol
		r.logger.Warn("debt symbol fetch failed", zap.String("token", debtAddress.Hex()), zap.Error(err))
	}
	collateralSymbol, err := r.tokenSymbol(ctx, collateralAddress)
	if err != nil {
		collateralSymbol = undefinedSymbol
		r.logger.Warn("collateral symbol fetch failed", zap.String("token", collateralAddress.Hex()), zap.Error(err))
	}

	return model.MarketLabel{
		MarketID:          marketID,
		CollateralAddress: collateralAddress.Hex(),
		CollateralSymbol:  collateralSymbol,
		DebtAddress:       debtAddress.Hex(),
		DebtSymbol:        debtSymbol,
		LLTV:              lltv,
	}, nil
}

// tokenSymbol fetches an ERC20 symbol, falling back to the bytes32 variant
// for non-conforming contracts. MKR is special-cased: its symbol call does
// not return a string on mainnet.
func (r *Resolver) tokenSymbol(ctx context.Context, token common.Address) (string, error) {
	if token == makerToken {
		return "MKR", nil
	}

	stringABI, err := vault.ERC20SymbolABI()
	if err != nil {
		return "", fmt.Errorf("parse erc20 abi: %w", err)
	}
	data, err := stringABI.Pack("symbol")
	if err != nil {
		return "", fmt.Errorf("pack symbol: %w", err)
	}
	resp, err := r.client.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data}, nil)
	if err != nil {
		return "", fmt.Errorf("call symbol: %w", err)
	}

	if values, err := stringABI.Unpack("symbol", resp); err == nil && len(values) == 1 {
		if symbol, ok := values[0].(string); ok {
			return symbol, nil
		}
	}

	bytes32ABI, err := vault.ERC20SymbolBytes32ABI()
	if err != nil {
		return "", fmt.Errorf("parse erc20 bytes32 abi: %w", err)
	}
	values, err := bytes32ABI.Unpack("symbol", resp)
	if err != nil {
		return "", fmt.Errorf("unpack symbol: %w", err)
	}
	if symbol, ok := bytes32ToString(values[0]); ok {
		return symbol, nil
	}
	return "", fmt.Errorf("unexpected symbol type %T", values[0])
}

func parseMarketID(marketID string) ([32]byte, error) {
	var id [32]byte
	data, err := hexutil.Decode(marketID)
	if err != nil {
		return id, fmt.Errorf("invalid market id %s: %w", marketID, err)
	}
	if len(data) != 32 {
		return id, fmt.Errorf("invalid market id length: %s", marketID)
	}
	copy(id[:], data)
	return id, nil
}

func asAddress(value interface{}) (common.Address, error) {
	switch v := value.(type) {
	case common.Address:
		return v, nil
	case *common.Address:
		return *v, nil
	default:
		return common.Address{}, fmt.Errorf("unsupported address type %T", value)
	}
}

func bytes32ToString(value interface{}) (string, bool) {
	switch v := value.(type) {
	case [32]byte:
		return string(bytes.TrimRight(v[:], "\x00")), true
	case []byte:
		return string(bytes.TrimRight(v, "\x00")), true
	default:
		return "", false
	}
}
