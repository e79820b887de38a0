package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/stocks"
)

// StockQuoter fetches market data.
type StockQuoter interface {
	Quotes(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error)
	History(ctx context.Context, symbol string) ([]stocks.PricePoint, error)
}

// StockHandler handles stock market requests
type StockHandler struct {
	quoter StockQuoter
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(quoter StockQuoter) *StockHandler {
	return &StockHandler{quoter: quoter}
}

// GetQuotes returns the current price of each requested symbol
// @Summary     Stock quotes
// @Tags        stocks
// @Produce     json
// @Param       symbols query string true "Comma-separated ticker symbols"
// @Success     200 {object} map[string]number "Price by symbol"
// @Failure     400 {object} ErrorResponse "Missing symbols"
// @Failure     502 {object} ErrorResponse "Quote provider failure"
// @Router      /stocks/quotes [get]
func (h *StockHandler) GetQuotes(c *gin.Context) {
	symbols := stocks.ParseSymbols(c.Query("symbols"))
	if len(symbols) == 0 {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "symbols query parameter is required"))
		return
	}

	quotes, err := h.quoter.Quotes(c.Request.Context(), symbols)
	if err != nil {
		respondWithError(c, upstreamError("Failed to fetch quotes", err))
		return
	}

	c.JSON(http.StatusOK, quotes)
}

// GetHistory returns 30 days of closing prices for a symbol
// @Summary     Stock price history
// @Tags        stocks
// @Produce     json
// @Param       symbol path string true "Ticker symbol"
// @Success     200 {array}  stocks.PricePoint "Daily closes"
// @Failure     502 {object} ErrorResponse "Quote provider failure"
// @Router      /stocks/history/{symbol} [get]
func (h *StockHandler) GetHistory(c *gin.Context) {
	symbol := strings.ToUpper(strings.TrimSpace(c.Param("symbol")))

	points, err := h.quoter.History(c.Request.Context(), symbol)
	if err != nil {
		respondWithError(c, upstreamError("Failed to fetch history", err))
		return
	}

	c.JSON(http.StatusOK, points)
}

// upstreamError exposes only the provider's status and reply. Transport
// errors carry request URLs and stay in Internal.
func upstreamError(summary string, err error) *apperrors.AppError {
	detail := "quote provider unavailable"
	var upErr *stocks.UpstreamError
	if errors.As(err, &upErr) {
		detail = upErr.PublicMessage()
	}
	appErr := apperrors.WithMessage(apperrors.ErrUpstream, summary+": "+detail)
	appErr.Internal = err
	return appErr
}
