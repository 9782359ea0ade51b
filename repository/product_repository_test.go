package repository

import (
	"time"

	"foodorder/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (s *MongoSuite) TestProduct_PartialUpdate() {
	product := &models.Product{
		Name:        "Nasi Goreng",
		Description: "fried rice",
		Price:       3.5,
		Category:    "rice",
		IsAvailable: true,
		CreatedAt:   time.Now(),
	}
	s.Require().NoError(s.products.Create(s.ctx, product))

	price := 4.25
	available := false
	updated, err := s.products.Update(s.ctx, product.ID, models.ProductPatch{Price: &price, IsAvailable: &available}, time.Now())
	s.Require().NoError(err)
	s.Equal(4.25, updated.Price)
	s.False(updated.IsAvailable)
	s.Equal("Nasi Goreng", updated.Name)

	_, err = s.products.Update(s.ctx, primitive.NewObjectID(), models.ProductPatch{Price: &price}, time.Now())
	s.ErrorIs(err, ErrProductNotFound)
}

func (s *MongoSuite) TestProduct_ListByCategoryAndDelete() {
	rice := &models.Product{Name: "Rice", Category: "rice", Price: 1, CreatedAt: time.Now()}
	tea := &models.Product{Name: "Tea", Category: "drinks", Price: 1, CreatedAt: time.Now()}
	s.Require().NoError(s.products.Create(s.ctx, rice))
	s.Require().NoError(s.products.Create(s.ctx, tea))

	drinks, err := s.products.List(s.ctx, "drinks")
	s.Require().NoError(err)
	s.Require().Len(drinks, 1)
	s.Equal(tea.ID, drinks[0].ID)

	s.Require().NoError(s.products.Delete(s.ctx, tea.ID))
	s.ErrorIs(s.products.Delete(s.ctx, tea.ID), ErrProductNotFound)

	all, err := s.products.List(s.ctx, "")
	s.Require().NoError(err)
	s.Len(all, 1)
}
