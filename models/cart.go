package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// CartLine is one requested line of a checkout: which product and how many.
type CartLine struct {
	ProductID string `json:"product" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gte=1"`
}

// Cart is the finalized item list a customer submits at checkout. It lives on the
// client until then; the server never stores it.
type Cart struct {
	Items []CartLine `json:"orderItems" binding:"required,min=1,dive"`
}

// RequestedItem is a validated cart line.
type RequestedItem struct {
	ProductID primitive.ObjectID
	Quantity  int
}

func (c Cart) Len() int {
	return len(c.Items)
}
