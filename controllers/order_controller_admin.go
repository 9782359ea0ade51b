package controllers

import (
	"context"
	"net/http"

	"foodorder/apperr"
	"foodorder/middleware"

	"github.com/gin-gonic/gin"
)

func (h *OrderController) GetOrdersAdmin(c *gin.Context) {
	admin, ok := middleware.CurrentAdmin(c)
	if !ok {
		respondError(c, h.logger, apperr.Forbidden("access denied: admin only"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	orders, err := h.orders.ListAllOrders(ctx, admin)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, orders)
}

func (h *OrderController) UpdateOrderStatus(c *gin.Context) {
	admin, ok := middleware.CurrentAdmin(c)
	if !ok {
		respondError(c, h.logger, apperr.Forbidden("access denied: admin only"))
		return
	}

	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if !bindJSON(c, h.logger, &input) {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	order, err := h.orders.UpdateStatus(ctx, admin, c.Param("id"), input.Status)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, order)
}
