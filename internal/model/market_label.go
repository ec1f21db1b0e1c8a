package model

// MarketLabel is cached descriptive metadata for a Morpho Blue market.
// Once resolved it is never re-fetched; a stale symbol is tolerated in favor
// of not re-querying the chain.
type MarketLabel struct {
	MarketID          string  `json:"id"`
	CollateralAddress string  `json:"collateralAddress"`
	CollateralSymbol  string  `json:"collateralSymbol"`
	DebtAddress       string  `json:"debtAddress"`
	DebtSymbol        string  `json:"debtSymbol"`
	LLTV              float64 `json:"lltv"`
}
