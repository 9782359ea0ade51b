package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"foodorder/apperr"
	"foodorder/models"
	"foodorder/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[primitive.ObjectID]models.Product
}

func (r *fakeProductRepo) Create(_ context.Context, p *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = primitive.NewObjectID()
	r.products[p.ID] = *p
	return nil
}

func (r *fakeProductRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return &p, nil
}

func (r *fakeProductRepo) List(_ context.Context, category string) ([]models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Product{}
	for _, p := range r.products {
		if category == "" || p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) Update(_ context.Context, id primitive.ObjectID, patch models.ProductPatch, at time.Time) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.IsAvailable != nil {
		p.IsAvailable = *patch.IsAvailable
	}
	p.UpdatedAt = at
	r.products[id] = p
	return &p, nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

func TestProductService_CRUD(t *testing.T) {
	repo := &fakeProductRepo{products: map[primitive.ObjectID]models.Product{}}
	svc := NewProductService(repo, zap.NewNop())
	ctx := context.Background()
	admin, _ := models.Identity{ID: primitive.NewObjectID(), Role: models.RoleAdmin}.Admin()

	created, err := svc.Create(ctx, admin, ProductInput{Name: " Sate ", Price: 2.5, Category: "grill"})
	require.NoError(t, err)
	assert.Equal(t, "Sate", created.Name)
	assert.True(t, created.IsAvailable)

	got, err := svc.Get(ctx, created.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	off := false
	updated, err := svc.Update(ctx, admin, created.ID.Hex(), models.ProductPatch{IsAvailable: &off})
	require.NoError(t, err)
	assert.False(t, updated.IsAvailable)

	grill, err := svc.List(ctx, "grill")
	require.NoError(t, err)
	assert.Len(t, grill, 1)

	require.NoError(t, svc.Delete(ctx, admin, created.ID.Hex()))

	_, err = svc.Get(ctx, created.ID.Hex())
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestProductService_Validation(t *testing.T) {
	repo := &fakeProductRepo{products: map[primitive.ObjectID]models.Product{}}
	svc := NewProductService(repo, zap.NewNop())
	ctx := context.Background()
	admin, _ := models.Identity{ID: primitive.NewObjectID(), Role: models.RoleAdmin}.Admin()

	_, err := svc.Create(ctx, models.AdminIdentity{}, ProductInput{Name: "X", Price: 1})
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	_, err = svc.Create(ctx, admin, ProductInput{Name: "X", Price: 0})
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))

	_, err = svc.Update(ctx, admin, primitive.NewObjectID().Hex(), models.ProductPatch{})
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))

	price := 3.0
	_, err = svc.Update(ctx, admin, primitive.NewObjectID().Hex(), models.ProductPatch{Price: &price})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = svc.Get(ctx, "bad")
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))

	err = svc.Delete(ctx, admin, "bad")
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
}
