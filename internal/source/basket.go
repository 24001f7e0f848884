package source

// BasketEntry maps a display symbol to the provider-native identifier used
// by the secondary and historical endpoints.
type BasketEntry struct {
	Symbol string `yaml:"symbol"`
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
}

// DefaultBasket is the fixed set of assets queried every cycle. Order is
// significant: every source returns tokens in this order, and history
// merges are positional against it.
var DefaultBasket = []BasketEntry{
	{Symbol: "BTC", ID: "bitcoin", Name: "Bitcoin"},
	{Symbol: "ETH", ID: "ethereum", Name: "Ethereum"},
	{Symbol: "USDT", ID: "tether", Name: "Tether"},
	{Symbol: "BNB", ID: "binancecoin", Name: "BNB"},
	{Symbol: "ADA", ID: "cardano", Name: "Cardano"},
	{Symbol: "SOL", ID: "solana", Name: "Solana"},
	{Symbol: "XRP", ID: "ripple", Name: "XRP"},
	{Symbol: "DOGE", ID: "dogecoin", Name: "Dogecoin"},
	{Symbol: "LTC", ID: "litecoin", Name: "Litecoin"},
	{Symbol: "DOT", ID: "polkadot", Name: "Polkadot"},
	{Symbol: "MATIC", ID: "matic-network", Name: "Polygon"},
	{Symbol: "SHIB", ID: "shiba-inu", Name: "Shiba Inu"},
	{Symbol: "AVAX", ID: "avalanche-2", Name: "Avalanche"},
	{Symbol: "LINK", ID: "chainlink", Name: "Chainlink"},
	{Symbol: "TRX", ID: "tron", Name: "Tron"},
	{Symbol: "UNI", ID: "uniswap", Name: "Uniswap"},
}
