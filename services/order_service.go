package services

import (
	"context"
	"errors"
	"time"

	"foodorder/apperr"
	"foodorder/metrics"
	"foodorder/models"
	"foodorder/mylogger"
	"foodorder/repository"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	maxTokenAttempts  = 5
	maxStatusAttempts = 3
)

// CatalogReader is the part of the catalog the ledger prices orders from.
type CatalogReader interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
}

type OrderService interface {
	CreateOrder(ctx context.Context, owner models.Identity, cart models.Cart) (*models.Order, error)
	GetOrderByID(ctx context.Context, caller models.Identity, id string) (*models.Order, error)
	GetOrderByToken(ctx context.Context, token string) (*models.Order, error)
	ListOrdersForOwner(ctx context.Context, owner models.Identity) ([]models.Order, error)
	ListAllOrders(ctx context.Context, admin models.AdminIdentity) ([]models.OrderWithOwner, error)
	UpdateStatus(ctx context.Context, admin models.AdminIdentity, id string, status string) (*models.Order, error)
}

type OrderServiceOption func(*orderService)

func WithClock(now func() time.Time) OrderServiceOption {
	return func(s *orderService) { s.now = now }
}

func WithTokenGenerator(gen func() string) OrderServiceOption {
	return func(s *orderService) { s.newToken = gen }
}

type orderService struct {
	orders   repository.OrderRepository
	catalog  CatalogReader
	metrics  *metrics.Metrics
	logger   *zap.Logger
	tracer   trace.Tracer
	now      func() time.Time
	newToken func() string
}

func NewOrderService(orders repository.OrderRepository, catalog CatalogReader, m *metrics.Metrics, logger *zap.Logger, opts ...OrderServiceOption) OrderService {
	s := &orderService{
		orders:   orders,
		catalog:  catalog,
		metrics:  m,
		logger:   logger,
		tracer:   otel.Tracer("order_service"),
		now:      time.Now,
		newToken: NewLookupToken,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *orderService) CreateOrder(ctx context.Context, owner models.Identity, cart models.Cart) (*models.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.CreateOrder")
	defer span.End()

	span.SetAttributes(
		attribute.String("user_id", owner.ID.Hex()),
		attribute.Int("items", cart.Len()),
	)

	if owner.ID.IsZero() {
		return nil, apperr.Unauthenticated("order owner is required")
	}

	requested, err := validateCart(cart)
	if err != nil {
		return nil, err
	}

	items := make([]models.OrderItem, 0, len(requested))
	total := decimal.Zero
	for _, req := range requested {
		product, err := s.catalog.FindByID(ctx, req.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return nil, apperr.NotFound("product %s not found", req.ProductID.Hex())
			}
			span.RecordError(err)
			mylogger.Error(ctx, s.logger, "Failed to load product", zap.String("product_id", req.ProductID.Hex()), zap.Error(err))
			return nil, apperr.Internal(err, "failed to load product")
		}
		if !product.IsAvailable {
			return nil, apperr.InvalidInput("product %s is not available", product.Name)
		}

		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  req.Quantity,
		})
		total = total.Add(decimal.NewFromFloat(product.Price).Mul(decimal.NewFromInt(int64(req.Quantity))))
	}

	now := s.now().UTC()
	order := &models.Order{
		UserID:     owner.ID,
		Items:      items,
		TotalPrice: total.InexactFloat64(),
		Status:     models.StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	for attempt := 1; ; attempt++ {
		order.ID = primitive.NewObjectID()
		order.TokenNumber = s.newToken()

		err = s.orders.Create(ctx, order)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrDuplicateToken) {
			span.RecordError(err)
			mylogger.Error(ctx, s.logger, "Failed to create order", zap.String("user_id", owner.ID.Hex()), zap.Error(err))
			return nil, apperr.Internal(err, "failed to create order")
		}

		s.metrics.TokenCollisions.Inc()
		mylogger.Warn(ctx, s.logger, "Lookup token collision", zap.Int("attempt", attempt))
		if attempt == maxTokenAttempts {
			return nil, apperr.Internal(err, "failed to allocate order token")
		}
	}

	s.metrics.OrdersCreated.Inc()
	mylogger.Info(
		ctx,
		s.logger,
		"Order created",
		zap.String("order_id", order.ID.Hex()),
		zap.String("token", order.TokenNumber),
		zap.Float64("total", order.TotalPrice),
	)

	return order, nil
}

func validateCart(cart models.Cart) ([]models.RequestedItem, error) {
	if cart.Len() == 0 {
		return nil, apperr.InvalidInput("no order items")
	}

	requested := make([]models.RequestedItem, 0, cart.Len())
	for i, line := range cart.Items {
		id, err := primitive.ObjectIDFromHex(line.ProductID)
		if err != nil {
			return nil, apperr.InvalidInput("item %d: invalid product id %q", i, line.ProductID)
		}
		if line.Quantity < 1 {
			return nil, apperr.InvalidInput("item %d: quantity must be at least 1", i)
		}
		requested = append(requested, models.RequestedItem{ProductID: id, Quantity: line.Quantity})
	}
	return requested, nil
}

func (s *orderService) GetOrderByID(ctx context.Context, caller models.Identity, id string) (*models.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetOrderByID")
	defer span.End()

	order, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if !caller.IsAdmin() && order.UserID != caller.ID {
		mylogger.Warn(ctx, s.logger, "Order access denied", zap.String("order_id", id), zap.String("user_id", caller.ID.Hex()))
		return nil, apperr.Forbidden("not authorized to view this order")
	}
	return order, nil
}

func (s *orderService) GetOrderByToken(ctx context.Context, token string) (*models.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetOrderByToken")
	defer span.End()

	token = NormalizeLookupToken(token)
	if token == "" {
		return nil, apperr.InvalidInput("token is required")
	}

	order, err := s.orders.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, apperr.NotFound("order not found")
		}
		span.RecordError(err)
		return nil, apperr.Internal(err, "failed to load order")
	}
	return order, nil
}

func (s *orderService) ListOrdersForOwner(ctx context.Context, owner models.Identity) ([]models.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListOrdersForOwner")
	defer span.End()

	orders, err := s.orders.ListByUser(ctx, owner.ID)
	if err != nil {
		span.RecordError(err)
		mylogger.Error(ctx, s.logger, "Failed to list orders", zap.String("user_id", owner.ID.Hex()), zap.Error(err))
		return nil, apperr.Internal(err, "failed to list orders")
	}
	return orders, nil
}

func (s *orderService) ListAllOrders(ctx context.Context, admin models.AdminIdentity) ([]models.OrderWithOwner, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListAllOrders")
	defer span.End()

	if !admin.Valid() {
		return nil, apperr.Forbidden("admin only")
	}

	orders, err := s.orders.ListAllWithOwner(ctx)
	if err != nil {
		span.RecordError(err)
		mylogger.Error(ctx, s.logger, "Failed to list all orders", zap.Error(err))
		return nil, apperr.Internal(err, "failed to list orders")
	}
	return orders, nil
}

func (s *orderService) UpdateStatus(ctx context.Context, admin models.AdminIdentity, id string, status string) (*models.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.UpdateStatus")
	defer span.End()

	span.SetAttributes(attribute.String("order_id", id), attribute.String("status", status))

	if !admin.Valid() {
		return nil, apperr.Forbidden("admin only")
	}

	next, ok := models.ParseOrderStatus(status)
	if !ok {
		return nil, apperr.InvalidInput("invalid status %q", status)
	}
	if !primitive.IsValidObjectID(id) {
		return nil, apperr.InvalidInput("invalid order id")
	}

	for attempt := 0; attempt < maxStatusAttempts; attempt++ {
		order, err := s.findOrder(ctx, id)
		if err != nil {
			return nil, err
		}

		if order.Status == next {
			return order, nil
		}
		if !order.Status.CanAdvanceTo(next) {
			return nil, apperr.InvalidTransition("cannot change status from %s to %s", order.Status, next)
		}

		updated, err := s.orders.UpdateStatus(ctx, order.ID, order.Status, next, s.now().UTC())
		switch {
		case err == nil:
			s.metrics.StatusTransitions.WithLabelValues(string(order.Status), string(next)).Inc()
			mylogger.Info(
				ctx,
				s.logger,
				"Order status updated",
				zap.String("order_id", id),
				zap.String("from", string(order.Status)),
				zap.String("to", string(next)),
				zap.String("admin_id", admin.ID().Hex()),
			)
			return updated, nil
		case errors.Is(err, repository.ErrStatusChanged):
			mylogger.Warn(ctx, s.logger, "Order status changed concurrently, retrying", zap.String("order_id", id))
			continue
		case errors.Is(err, repository.ErrOrderNotFound):
			return nil, apperr.NotFound("order not found")
		default:
			span.RecordError(err)
			mylogger.Error(ctx, s.logger, "Failed to update order status", zap.String("order_id", id), zap.Error(err))
			return nil, apperr.Internal(err, "failed to update order")
		}
	}

	return nil, apperr.Internal(repository.ErrStatusChanged, "failed to update order")
}

func (s *orderService) findOrder(ctx context.Context, id string) (*models.Order, error) {
	// A string that cannot be an order id names no order.
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.NotFound("order not found")
	}

	order, err := s.orders.FindByID(ctx, objID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, apperr.NotFound("order not found")
		}
		mylogger.Error(ctx, s.logger, "Failed to load order", zap.String("order_id", id), zap.Error(err))
		return nil, apperr.Internal(err, "failed to load order")
	}
	return order, nil
}
