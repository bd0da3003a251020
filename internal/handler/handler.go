package handler

import (
	"acionista/internal/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

type Handler struct {
	tracer          trace.Tracer
	analysisService *service.AnalysisService
	screenService   *service.ScreenService
	dividendService *service.DividendService
}

func New(
	tracer trace.Tracer,
	analysisService *service.AnalysisService,
	screenService *service.ScreenService,
	dividendService *service.DividendService,
) *Handler {
	return &Handler{
		tracer:          tracer,
		analysisService: analysisService,
		screenService:   screenService,
		dividendService: dividendService,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/api/analysis", h.RunAnalysis)
	r.GET("/api/positions", h.GetPositions)
	r.GET("/api/screens/value", h.ValueScreen)
	r.GET("/api/screens/dividend", h.DividendScreen)
	r.GET("/api/screens/consistency", h.ConsistencyScreen)
	r.GET("/api/dividends/:ticker", h.GetDividendHistory)
}
