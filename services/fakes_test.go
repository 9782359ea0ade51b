package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"foodorder/models"
	"foodorder/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[primitive.ObjectID]models.Order
	users  map[primitive.ObjectID]models.User
	err    error
	// beforeUpdate runs inside UpdateStatus before the conditional check.
	beforeUpdate func(id primitive.ObjectID)
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		orders: map[primitive.ObjectID]models.Order{},
		users:  map[primitive.ObjectID]models.User{},
	}
}

func (r *fakeOrderRepo) Create(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return r.err
	}
	for _, existing := range r.orders {
		if existing.TokenNumber == order.TokenNumber {
			return repository.ErrDuplicateToken
		}
	}
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	stored := *order
	stored.Items = append([]models.OrderItem(nil), order.Items...)
	r.orders[order.ID] = stored
	return nil
}

func (r *fakeOrderRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.orders)
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return nil, r.err
	}
	order, ok := r.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	return &order, nil
}

func (r *fakeOrderRepo) FindByToken(_ context.Context, token string) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, order := range r.orders {
		if order.TokenNumber == token {
			o := order
			return &o, nil
		}
	}
	return nil, repository.ErrOrderNotFound
}

func (r *fakeOrderRepo) sorted(keep func(models.Order) bool) []models.Order {
	out := []models.Order{}
	for _, order := range r.orders {
		if keep(order) {
			out = append(out, order)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *fakeOrderRepo) ListByUser(_ context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return nil, r.err
	}
	return r.sorted(func(o models.Order) bool { return o.UserID == userID }), nil
}

func (r *fakeOrderRepo) ListAllWithOwner(_ context.Context) ([]models.OrderWithOwner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return nil, r.err
	}
	out := []models.OrderWithOwner{}
	for _, order := range r.sorted(func(models.Order) bool { return true }) {
		row := models.OrderWithOwner{Order: order}
		if u, ok := r.users[order.UserID]; ok {
			row.UserInfo = &models.OwnerSummary{Name: u.Name, Email: u.Email, Phone: u.Phone}
		}
		out = append(out, row)
	}
	return out, nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, id primitive.ObjectID, from, to models.OrderStatus, at time.Time) (*models.Order, error) {
	if r.beforeUpdate != nil {
		r.beforeUpdate(id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	if order.Status != from {
		return nil, repository.ErrStatusChanged
	}
	order.Status = to
	order.UpdatedAt = at
	r.orders[id] = order
	return &order, nil
}

func (r *fakeOrderRepo) setStatus(id primitive.ObjectID, status models.OrderStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order := r.orders[id]
	order.Status = status
	r.orders[id] = order
}

func (r *fakeOrderRepo) CountSince(_ context.Context, since time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return 0, r.err
	}
	var n int64
	for _, o := range r.orders {
		if !o.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *fakeOrderRepo) CountByStatus(_ context.Context) (map[models.OrderStatus]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := map[models.OrderStatus]int64{}
	for _, o := range r.orders {
		counts[o.Status]++
	}
	return counts, nil
}

func (r *fakeOrderRepo) RevenueSince(_ context.Context, since time.Time) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var total float64
	for _, o := range r.orders {
		if !o.CreatedAt.Before(since) {
			total += o.TotalPrice
		}
	}
	return total, nil
}

func (r *fakeOrderRepo) TopProducts(_ context.Context, limit int) ([]models.TopProduct, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	byProduct := map[primitive.ObjectID]*models.TopProduct{}
	for _, o := range r.orders {
		for _, item := range o.Items {
			tp, ok := byProduct[item.ProductID]
			if !ok {
				tp = &models.TopProduct{ID: item.ProductID, Name: item.Name, Price: item.Price}
				byProduct[item.ProductID] = tp
			}
			tp.Count += int64(item.Quantity)
		}
	}
	out := make([]models.TopProduct, 0, len(byProduct))
	for _, tp := range byProduct {
		out = append(out, *tp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeCatalog struct {
	mu       sync.Mutex
	products map[primitive.ObjectID]models.Product
	err      error
}

func newFakeCatalog(products ...models.Product) *fakeCatalog {
	c := &fakeCatalog{products: map[primitive.ObjectID]models.Product{}}
	for _, p := range products {
		c.products[p.ID] = p
	}
	return c
}

func (c *fakeCatalog) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err != nil {
		return nil, c.err
	}
	p, ok := c.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return &p, nil
}

func (c *fakeCatalog) setPrice(id primitive.ObjectID, price float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := c.products[id]
	p.Price = price
	c.products[id] = p
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]models.User
	err   error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[primitive.ObjectID]models.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email || (user.Phone != "" && u.Phone == user.Phone) {
			return repository.ErrDuplicateUser
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &u, nil
}

func (r *fakeUserRepo) FindByLogin(_ context.Context, login string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == login || (u.Phone != "" && u.Phone == login) {
			found := u
			return &found, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) CountByRole(_ context.Context, role models.Role) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return 0, r.err
	}
	var n int64
	for _, u := range r.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

type fakeBlacklist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	err     error
}

func newFakeBlacklist() *fakeBlacklist {
	return &fakeBlacklist{revoked: map[string]time.Time{}}
}

func (b *fakeBlacklist) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.revoked[tokenID] = expiresAt
	return nil
}

func (b *fakeBlacklist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return false, b.err
	}
	_, ok := b.revoked[tokenID]
	return ok, nil
}

var errStoreDown = errors.New("store down")
