package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rental/internal/pricing"
)

// QuoteHandler exposes the pricing engine directly, so the front-end shows
// the exact numbers the booking flow will charge.
type QuoteHandler struct{}

// NewQuoteHandler creates a new QuoteHandler.
func NewQuoteHandler() *QuoteHandler {
	return &QuoteHandler{}
}

// QuoteRequest is the HTTP request body for a pricing quote.
type QuoteRequest struct {
	PricePerDay float64 `json:"pricePerDay"`
	StartDate   string  `json:"startDate"`
	EndDate     string  `json:"endDate"`
}

// QuoteResponse is the HTTP response for a pricing quote.
type QuoteResponse struct {
	Breakdown    pricing.Breakdown `json:"breakdown"`
	ChargeAmount int64             `json:"chargeAmount"`
	Currency     string            `json:"currency"`
}

// Quote handles POST /v1/quotes
func (h *QuoteHandler) Quote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	start, err := pricing.ParseDate(req.StartDate)
	if err != nil {
		respondError(c, err)
		return
	}
	end, err := pricing.ParseDate(req.EndDate)
	if err != nil {
		respondError(c, err)
		return
	}

	days, err := pricing.ComputeDuration(start, end)
	if err != nil {
		respondError(c, err)
		return
	}

	breakdown, err := pricing.ComputeBreakdown(req.PricePerDay, days)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, QuoteResponse{
		Breakdown:    breakdown,
		ChargeAmount: pricing.ChargeAmount(breakdown),
		Currency:     "usd",
	})
}
