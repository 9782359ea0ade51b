package services

import (
	"context"
	"time"

	"foodorder/apperr"
	"foodorder/models"
	"foodorder/mylogger"
	"foodorder/repository"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type DashboardService interface {
	Stats(ctx context.Context, admin models.AdminIdentity) (*models.DashboardStats, error)
}

type dashboardService struct {
	orders repository.OrderRepository
	users  repository.UserRepository
	topN   int
	logger *zap.Logger
	tracer trace.Tracer
	now    func() time.Time
}

func NewDashboardService(orders repository.OrderRepository, users repository.UserRepository, topN int, logger *zap.Logger) DashboardService {
	return &dashboardService{
		orders: orders,
		users:  users,
		topN:   topN,
		logger: logger,
		tracer: otel.Tracer("dashboard_service"),
		now:    time.Now,
	}
}

// Stats recomputes every figure from the current ledger on each call.
func (s *dashboardService) Stats(ctx context.Context, admin models.AdminIdentity) (*models.DashboardStats, error) {
	ctx, span := s.tracer.Start(ctx, "DashboardService.Stats")
	defer span.End()

	if !admin.Valid() {
		return nil, apperr.Forbidden("admin only")
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var (
		stats          models.DashboardStats
		byStatus       map[models.OrderStatus]int64
		revenueToday   float64
		revenueMonthly float64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.Users.Total, err = s.users.CountByRole(gctx, models.RoleUser)
		return err
	})
	g.Go(func() (err error) {
		stats.Orders.Today, err = s.orders.CountSince(gctx, today)
		return err
	})
	g.Go(func() (err error) {
		stats.Orders.Monthly, err = s.orders.CountSince(gctx, startOfMonth)
		return err
	})
	g.Go(func() (err error) {
		byStatus, err = s.orders.CountByStatus(gctx)
		return err
	})
	g.Go(func() (err error) {
		revenueToday, err = s.orders.RevenueSince(gctx, today)
		return err
	})
	g.Go(func() (err error) {
		revenueMonthly, err = s.orders.RevenueSince(gctx, startOfMonth)
		return err
	})
	g.Go(func() (err error) {
		stats.TopProducts, err = s.orders.TopProducts(gctx, s.topN)
		return err
	})

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		mylogger.Error(ctx, s.logger, "Failed to compute dashboard stats", zap.Error(err))
		return nil, apperr.Internal(err, "failed to compute dashboard")
	}

	stats.Orders.Pending = byStatus[models.StatusPending]
	stats.Orders.Preparing = byStatus[models.StatusPreparing]
	stats.Orders.Completed = byStatus[models.StatusCompleted]
	stats.Revenue.Today = roundMoney(revenueToday)
	stats.Revenue.Monthly = roundMoney(revenueMonthly)
	if stats.TopProducts == nil {
		stats.TopProducts = []models.TopProduct{}
	}

	return &stats, nil
}

func roundMoney(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
