package controllers

import (
	"context"
	"net/http"
	"time"

	"foodorder/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const requestTimeout = 5 * time.Second

type ProductController struct {
	products services.ProductService
	logger   *zap.Logger
}

func NewProductController(products services.ProductService, logger *zap.Logger) *ProductController {
	return &ProductController{products: products, logger: logger}
}

func (h *ProductController) GetProducts(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	products, err := h.products.List(ctx, c.Query("category"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":    len(products),
		"products": products,
	})
}

func (h *ProductController) GetProductByID(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	product, err := h.products.Get(ctx, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, product)
}
