package controllers

import (
	"context"
	"net/http"

	"foodorder/apperr"
	"foodorder/middleware"
	"foodorder/models"
	"foodorder/services"

	"github.com/gin-gonic/gin"
)

type productRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Category    string  `json:"category"`
	IsAvailable *bool   `json:"isAvailable"`
	Image       string  `json:"image"`
}

func (h *ProductController) CreateProduct(c *gin.Context) {
	admin, ok := middleware.CurrentAdmin(c)
	if !ok {
		respondError(c, h.logger, apperr.Forbidden("access denied: admin only"))
		return
	}

	var input productRequest
	if !bindJSON(c, h.logger, &input) {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	product, err := h.products.Create(ctx, admin, services.ProductInput{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		IsAvailable: input.IsAvailable,
		Image:       input.Image,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Product created", "product": product})
}

func (h *ProductController) UpdateProduct(c *gin.Context) {
	admin, ok := middleware.CurrentAdmin(c)
	if !ok {
		respondError(c, h.logger, apperr.Forbidden("access denied: admin only"))
		return
	}

	var patch models.ProductPatch
	if !bindJSON(c, h.logger, &patch) {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	product, err := h.products.Update(ctx, admin, c.Param("id"), patch)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product updated", "product": product})
}

func (h *ProductController) DeleteProduct(c *gin.Context) {
	admin, ok := middleware.CurrentAdmin(c)
	if !ok {
		respondError(c, h.logger, apperr.Forbidden("access denied: admin only"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := h.products.Delete(ctx, admin, c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}
