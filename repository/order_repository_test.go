package repository

import (
	"time"

	"foodorder/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (s *MongoSuite) newOrder(user primitive.ObjectID, token string, createdAt time.Time, items ...models.OrderItem) *models.Order {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return &models.Order{
		UserID:      user,
		Items:       items,
		TotalPrice:  total,
		TokenNumber: token,
		Status:      models.StatusPending,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

func (s *MongoSuite) TestOrder_CreateAndFind() {
	user := primitive.NewObjectID()
	item := models.OrderItem{ProductID: primitive.NewObjectID(), Name: "Ramen", Price: 5, Quantity: 2}
	order := s.newOrder(user, "AB12CD34", time.Now().UTC().Truncate(time.Millisecond), item)

	s.Require().NoError(s.orders.Create(s.ctx, order))
	s.Require().False(order.ID.IsZero())

	byID, err := s.orders.FindByID(s.ctx, order.ID)
	s.Require().NoError(err)
	s.Equal(10.0, byID.TotalPrice)
	s.Equal([]models.OrderItem{item}, byID.Items)

	byToken, err := s.orders.FindByToken(s.ctx, "AB12CD34")
	s.Require().NoError(err)
	s.Equal(order.ID, byToken.ID)

	_, err = s.orders.FindByToken(s.ctx, "ab12cd34")
	s.ErrorIs(err, ErrOrderNotFound)
}

func (s *MongoSuite) TestOrder_DuplicateTokenRejected() {
	user := primitive.NewObjectID()
	item := models.OrderItem{ProductID: primitive.NewObjectID(), Name: "Tea", Price: 1.5, Quantity: 1}

	s.Require().NoError(s.orders.Create(s.ctx, s.newOrder(user, "DUPE0001", time.Now(), item)))

	err := s.orders.Create(s.ctx, s.newOrder(user, "DUPE0001", time.Now(), item))
	s.ErrorIs(err, ErrDuplicateToken)

	count, err := s.orders.CountSince(s.ctx, time.Time{})
	s.Require().NoError(err)
	s.Equal(int64(1), count)
}

func (s *MongoSuite) TestOrder_UpdateStatusIsConditional() {
	order := s.newOrder(primitive.NewObjectID(), "STAT0001", time.Now(),
		models.OrderItem{ProductID: primitive.NewObjectID(), Name: "Soup", Price: 3, Quantity: 1})
	s.Require().NoError(s.orders.Create(s.ctx, order))

	at := time.Now().UTC().Truncate(time.Millisecond)
	updated, err := s.orders.UpdateStatus(s.ctx, order.ID, models.StatusPending, models.StatusPreparing, at)
	s.Require().NoError(err)
	s.Equal(models.StatusPreparing, updated.Status)
	s.Equal("STAT0001", updated.TokenNumber)
	s.True(at.Equal(updated.UpdatedAt))

	_, err = s.orders.UpdateStatus(s.ctx, order.ID, models.StatusPending, models.StatusCompleted, at)
	s.ErrorIs(err, ErrStatusChanged)

	_, err = s.orders.UpdateStatus(s.ctx, primitive.NewObjectID(), models.StatusPending, models.StatusCompleted, at)
	s.ErrorIs(err, ErrOrderNotFound)
}

func (s *MongoSuite) TestOrder_ListingsNewestFirst() {
	user := &models.User{Name: "Ana", Email: "ana@example.com", Phone: "0800", Role: models.RoleUser}
	s.Require().NoError(s.users.Create(s.ctx, user))

	item := models.OrderItem{ProductID: primitive.NewObjectID(), Name: "Bun", Price: 2, Quantity: 1}
	base := time.Now().Add(-time.Hour)
	older := s.newOrder(user.ID, "LIST0001", base, item)
	newer := s.newOrder(user.ID, "LIST0002", base.Add(time.Minute), item)
	other := s.newOrder(primitive.NewObjectID(), "LIST0003", base.Add(2*time.Minute), item)
	for _, o := range []*models.Order{older, newer, other} {
		s.Require().NoError(s.orders.Create(s.ctx, o))
	}

	mine, err := s.orders.ListByUser(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Require().Len(mine, 2)
	s.Equal(newer.ID, mine[0].ID)
	s.Equal(older.ID, mine[1].ID)

	all, err := s.orders.ListAllWithOwner(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal(other.ID, all[0].ID)
	s.Nil(all[0].UserInfo)
	s.Require().NotNil(all[1].UserInfo)
	s.Equal("Ana", all[1].UserInfo.Name)
	s.Equal("0800", all[1].UserInfo.Phone)
}

func (s *MongoSuite) TestOrder_DashboardAggregations() {
	now := time.Now().UTC()
	soup := &models.Product{Name: "Soup", Price: 4, IsAvailable: true, CreatedAt: now}
	s.Require().NoError(s.products.Create(s.ctx, soup))
	gone := primitive.NewObjectID()

	user := primitive.NewObjectID()
	old := s.newOrder(user, "AGG00001", now.AddDate(0, 0, -40),
		models.OrderItem{ProductID: soup.ID, Name: "Soup", Price: 4, Quantity: 1})
	recent := s.newOrder(user, "AGG00002", now.Add(-time.Minute),
		models.OrderItem{ProductID: soup.ID, Name: "Soup", Price: 4, Quantity: 3},
		models.OrderItem{ProductID: gone, Name: "Pie", Price: 2.5, Quantity: 2})
	recent.Status = models.StatusCompleted
	for _, o := range []*models.Order{old, recent} {
		s.Require().NoError(s.orders.Create(s.ctx, o))
	}

	since := now.Add(-time.Hour)
	count, err := s.orders.CountSince(s.ctx, since)
	s.Require().NoError(err)
	s.Equal(int64(1), count)

	revenue, err := s.orders.RevenueSince(s.ctx, since)
	s.Require().NoError(err)
	s.InDelta(17.0, revenue, 1e-9)

	revenue, err = s.orders.RevenueSince(s.ctx, now.Add(time.Hour))
	s.Require().NoError(err)
	s.Zero(revenue)

	byStatus, err := s.orders.CountByStatus(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(1), byStatus[models.StatusPending])
	s.Equal(int64(1), byStatus[models.StatusCompleted])
	s.Zero(byStatus[models.StatusPreparing])

	top, err := s.orders.TopProducts(s.ctx, 5)
	s.Require().NoError(err)
	s.Require().Len(top, 2)
	s.Equal(soup.ID, top[0].ID)
	s.Equal(int64(4), top[0].Count)
	s.Equal("Soup", top[0].Name)
	s.Equal(gone, top[1].ID)
	s.Equal("Pie", top[1].Name)
}
