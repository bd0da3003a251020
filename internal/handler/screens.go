package handler

import (
	"errors"
	"net/http"

	"acionista/internal/domain"

	"github.com/gin-gonic/gin"
)

// ValueScreen godoc
// @Summary      Run the value screen
// @Description  Filters the universe to profitable, liquid, reasonably priced payers and ranks them by quintile score
// @Tags         screens
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      502  {object}  map[string]string
// @Router       /api/screens/value [get]
func (h *Handler) ValueScreen(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.value-screen")
	defer span.End()

	rows, err := h.screenService.ValueScreen(ctx)
	if err != nil {
		h.screenError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows})
}

// DividendScreen godoc
// @Summary      Run the dividend screen
// @Description  Ranks liquid payers inside the 6-20% yield band, one listing per company
// @Tags         screens
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      502  {object}  map[string]string
// @Router       /api/screens/dividend [get]
func (h *Handler) DividendScreen(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.dividend-screen")
	defer span.End()

	rows, err := h.screenService.DividendScreen(ctx)
	if err != nil {
		h.screenError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows})
}

// ConsistencyScreen godoc
// @Summary      Run the payout-consistency screen
// @Description  Ranks dividend-screen survivors with five or more paying years by their three-year average yield
// @Tags         screens
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      502  {object}  map[string]string
// @Router       /api/screens/consistency [get]
func (h *Handler) ConsistencyScreen(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.consistency-screen")
	defer span.End()

	rows, err := h.screenService.ConsistencyScreen(ctx)
	if err != nil {
		h.screenError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows})
}

func (h *Handler) screenError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	var fe *domain.FetchError
	if errors.As(err, &fe) {
		status = http.StatusBadGateway
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
