package handler

import (
	"errors"
	"net/http"
	"strconv"

	"acionista/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// RunAnalysis godoc
// @Summary      Run a full portfolio analysis
// @Description  Rebuilds positions from the ledger, evaluates every held and candidate stock and returns buy/sell recommendations with cash allocation
// @Tags         analysis
// @Produce      json
// @Param        cash  query  number  true  "Cash available for allocation, in BRL"
// @Success      200  {object}  domain.Report
// @Failure      400  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/analysis [get]
func (h *Handler) RunAnalysis(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.run-analysis")
	defer span.End()

	raw := c.Query("cash")
	cash, err := strconv.ParseFloat(raw, 64)
	if err != nil || cash < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cash must be a non-negative number"})
		return
	}
	span.SetAttributes(attribute.Float64("cash", cash))

	report, err := h.analysisService.Run(ctx, cash)
	if err != nil {
		status := http.StatusInternalServerError
		var fe *domain.FetchError
		if errors.As(err, &fe) {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetPositions godoc
// @Summary      Get current portfolio positions
// @Description  Returns holdings rebuilt from the trade ledger, without fetching market data
// @Tags         analysis
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/positions [get]
func (h *Handler) GetPositions(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-positions")
	defer span.End()

	positions, err := h.analysisService.Positions(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"positions": positions})
}
