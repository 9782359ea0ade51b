package controllers

import (
	"context"
	"net/http"

	"foodorder/apperr"
	"foodorder/middleware"
	"foodorder/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type DashboardController struct {
	dashboard services.DashboardService
	logger    *zap.Logger
}

func NewDashboardController(dashboard services.DashboardService, logger *zap.Logger) *DashboardController {
	return &DashboardController{dashboard: dashboard, logger: logger}
}

func (h *DashboardController) GetStats(c *gin.Context) {
	admin, ok := middleware.CurrentAdmin(c)
	if !ok {
		respondError(c, h.logger, apperr.Forbidden("access denied: admin only"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	stats, err := h.dashboard.Stats(ctx, admin)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
