package handler

import (
	"net/http"
	"strings"

	"acionista/internal/ledger"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// GetDividendHistory godoc
// @Summary      Get a ticker's payout history
// @Description  Returns the payout record with paying years, five-year consistency and three-year average yield
// @Tags         dividends
// @Produce      json
// @Param        ticker  path  string  true  "B3 ticker (e.g., TAEE11)"
// @Success      200  {object}  domain.DividendHistory
// @Failure      400  {object}  map[string]string
// @Router       /api/dividends/{ticker} [get]
func (h *Handler) GetDividendHistory(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-dividend-history")
	defer span.End()

	ticker := ledger.NormalizeTicker(c.Param("ticker"))
	if ticker == "" || strings.ContainsAny(ticker, " /") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ticker"})
		return
	}
	span.SetAttributes(attribute.String("ticker", ticker))

	history, err := h.dividendService.History(ctx, ticker)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, history)
}
