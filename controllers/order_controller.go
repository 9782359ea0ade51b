package controllers

import (
	"context"
	"net/http"

	"foodorder/apperr"
	"foodorder/middleware"
	"foodorder/models"
	"foodorder/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type OrderController struct {
	orders services.OrderService
	logger *zap.Logger
}

func NewOrderController(orders services.OrderService, logger *zap.Logger) *OrderController {
	return &OrderController{orders: orders, logger: logger}
}

// CreateOrder checks out the cart the client submits.
func (h *OrderController) CreateOrder(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		respondError(c, h.logger, apperr.Unauthenticated("token required"))
		return
	}

	var cart models.Cart
	if !bindJSON(c, h.logger, &cart) {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	order, err := h.orders.CreateOrder(ctx, identity, cart)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

func (h *OrderController) GetMyOrders(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		respondError(c, h.logger, apperr.Unauthenticated("token required"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	orders, err := h.orders.ListOrdersForOwner(ctx, identity)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, orders)
}

func (h *OrderController) GetOrderByID(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		respondError(c, h.logger, apperr.Unauthenticated("token required"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	order, err := h.orders.GetOrderByID(ctx, identity, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// GetOrderByToken is public: anyone holding the lookup token can track the order.
func (h *OrderController) GetOrderByToken(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	order, err := h.orders.GetOrderByToken(ctx, c.Param("token"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, order)
}
