package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type DashboardStats struct {
	Users       UserStats    `json:"users"`
	Orders      OrderStats   `json:"orders"`
	Revenue     RevenueStats `json:"revenue"`
	TopProducts []TopProduct `json:"topProducts"`
}

type UserStats struct {
	Total int64 `json:"total"`
}

type OrderStats struct {
	Today     int64 `json:"today"`
	Monthly   int64 `json:"monthly"`
	Pending   int64 `json:"pending"`
	Preparing int64 `json:"preparing"`
	Completed int64 `json:"completed"`
}

type RevenueStats struct {
	Today   float64 `json:"today"`
	Monthly float64 `json:"monthly"`
}

type TopProduct struct {
	ID    primitive.ObjectID `bson:"_id" json:"id"`
	Name  string             `bson:"name" json:"name"`
	Price float64            `bson:"price" json:"price"`
	Count int64              `bson:"count" json:"count"`
}
