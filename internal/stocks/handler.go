package stocks

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/kritika-v/stockwatch/backend/internal/chart"
	"github.com/kritika-v/stockwatch/backend/internal/indicator"
	"github.com/kritika-v/stockwatch/backend/internal/marketdata"
	"github.com/kritika-v/stockwatch/backend/internal/models"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Handler holds the stock-data HTTP handler.
type Handler struct {
	fetcher marketdata.Fetcher
}

func NewHandler(fetcher marketdata.Fetcher) *Handler {
	return &Handler{fetcher: fetcher}
}

// GetStockData fetches market data for a ticker, computes the indicator
// snapshot and returns the four rendered charts. Every failure past body
// parsing answers 500 with the raw error text; this is an informational
// endpoint and upstream messages (unknown ticker, provider down) are the
// most useful thing to show.
func (h *Handler) GetStockData(w http.ResponseWriter, r *http.Request) {
	var req models.StockDataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	quote, err := h.fetcher.Fetch(r.Context(), req.Ticker)
	if err != nil {
		log.Printf("fetch %q error: %v", req.Ticker, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	snap := indicator.Compute(quote)

	rsiPlot, err := chart.RSI(quote.Bars, snap.RSI, quote.Ticker)
	if err != nil {
		log.Printf("rsi chart error: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	betaPlot, err := chart.Beta(snap.Beta)
	if err != nil {
		log.Printf("beta chart error: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	pePlot, err := chart.PERatios(snap.TrailingPE, snap.ForwardPE)
	if err != nil {
		log.Printf("pe chart error: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	pbPlot, err := chart.PriceToBook(snap.PriceToBook)
	if err != nil {
		log.Printf("pb chart error: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, models.StockDataResponse{
		RSIPlot:  rsiPlot,
		BetaPlot: betaPlot,
		PEPlot:   pePlot,
		PBPlot:   pbPlot,
	})
}
