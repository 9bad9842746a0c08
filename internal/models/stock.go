package models

import "time"

// Bar is one daily OHLCV bar for a ticker.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Quote bundles everything fetched from the market-data provider for one
// ticker: the trailing month of daily bars plus the raw fundamentals values
// (beta, trailingPE, forwardPE, priceToBook) as the provider returned them.
type Quote struct {
	Ticker       string         `json:"ticker"`
	Bars         []Bar          `json:"bars"`
	Fundamentals map[string]any `json:"fundamentals"`
}

// StockDataRequest is the JSON body for POST /get_stock_data.
type StockDataRequest struct {
	Ticker string `json:"ticker"`
}

// StockDataResponse carries the four rendered charts as base64 PNG strings.
type StockDataResponse struct {
	RSIPlot  string `json:"rsi_plot"`
	BetaPlot string `json:"beta_plot"`
	PEPlot   string `json:"pe_plot"`
	PBPlot   string `json:"pb_plot"`
}
