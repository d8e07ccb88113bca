package service

import (
	"context"
	"fmt"
	"time"

	"store-service/internal/models"
	"store-service/internal/store"
	"store-service/internal/util"

	"go.uber.org/zap"
)

// Timeframes accepted by the dashboard.
const (
	TimeframeToday     = "today"
	TimeframeThisWeek  = "this week"
	TimeframeThisMonth = "this month"
	TimeframeThisYear  = "this year"
)

const bestSellerLimit = 5

// AnalyticsRepository is the read surface the dashboard needs.
// *store.Store satisfies it.
type AnalyticsRepository interface {
	GetStoreByOwner(ctx context.Context, ownerID int64) (*models.Store, error)
	SumOrderTotalsInRange(ctx context.Context, storeID int64, start, end time.Time) (int64, error)
	SumExpensesInRange(ctx context.Context, storeID int64, start, end time.Time) (int64, error)
	GetOrdersInRange(ctx context.Context, storeID int64, start, end time.Time) ([]models.Order, error)
	GetProductSalesInRange(ctx context.Context, storeID int64, start, end time.Time, limit int) ([]store.ProductSales, error)
}

// AnalyticsService reconstructs dashboard reports from the order and
// expense history; nothing is pre-aggregated.
type AnalyticsService struct {
	repo   AnalyticsRepository
	cache  ReportCache
	now    func() time.Time
	logger *zap.Logger
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(repo AnalyticsRepository, cache ReportCache) *AnalyticsService {
	return &AnalyticsService{
		repo:   repo,
		cache:  cache,
		now:    time.Now,
		logger: util.GetLogger(),
	}
}

// Dashboard computes income, expenses, balance, the ranked best-seller list
// and the fixed-bucket revenue series for one calendar-aligned timeframe.
func (s *AnalyticsService) Dashboard(ctx context.Context, principal models.Principal, timeframe string) (*models.Dashboard, error) {
	ctx, span := util.StartSpan(ctx, "AnalyticsService.Dashboard")
	defer span.End()

	if timeframe == "" {
		timeframe = TimeframeThisMonth
	}

	st, err := s.repo.GetStoreByOwner(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}

	if cached, ok := s.cache.GetDashboard(ctx, st.ID, timeframe); ok {
		util.DashboardCacheHits.Inc()
		return cached, nil
	}

	start, end, err := timeframeBounds(timeframe, s.now())
	if err != nil {
		return nil, err
	}

	queryStart := time.Now()
	defer func() {
		util.DashboardQueryLatency.Observe(time.Since(queryStart).Seconds())
	}()

	income, err := s.repo.SumOrderTotalsInRange(ctx, st.ID, start, end)
	if err != nil {
		return nil, err
	}
	expenses, err := s.repo.SumExpensesInRange(ctx, st.ID, start, end)
	if err != nil {
		return nil, err
	}

	orders, err := s.repo.GetOrdersInRange(ctx, st.ID, start, end)
	if err != nil {
		return nil, err
	}

	sales, err := s.repo.GetProductSalesInRange(ctx, st.ID, start, end, bestSellerLimit)
	if err != nil {
		return nil, err
	}
	best := make([]models.BestSeller, len(sales))
	for i, row := range sales {
		best[i] = models.BestSeller{
			Name:        row.ProductName,
			Image:       row.ProductImage,
			TotalSold:   row.TotalSold,
			TotalAmount: row.TotalAmount,
		}
	}

	dashboard := &models.Dashboard{
		TotalIncome:   income,
		TotalExpenses: expenses,
		TotalBalance:  income - expenses,
		ChartData:     bucketOrders(timeframe, start, orders),
		TopBestSeller: best,
	}

	s.cache.SetDashboard(ctx, st.ID, timeframe, dashboard)
	s.logger.Debug("Dashboard computed",
		zap.Int64("store_id", st.ID),
		zap.String("timeframe", timeframe),
		zap.Int("orders", len(orders)))

	return dashboard, nil
}

// timeframeBounds returns the inclusive calendar-aligned window for a
// timeframe, anchored at now in local time.
func timeframeBounds(timeframe string, now time.Time) (time.Time, time.Time, error) {
	y, m, d := now.Date()
	loc := now.Location()

	switch timeframe {
	case TimeframeToday:
		start := time.Date(y, m, d, 0, 0, 0, 0, loc)
		return start, endOfDay(start), nil

	case TimeframeThisWeek:
		// Monday through Sunday.
		offset := (int(now.Weekday()) + 6) % 7
		start := time.Date(y, m, d-offset, 0, 0, 0, 0, loc)
		return start, endOfDay(start.AddDate(0, 0, 6)), nil

	case TimeframeThisMonth:
		start := time.Date(y, m, 1, 0, 0, 0, 0, loc)
		return start, endOfDay(start.AddDate(0, 1, -1)), nil

	case TimeframeThisYear:
		start := time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
		return start, endOfDay(time.Date(y, time.December, 31, 0, 0, 0, 0, loc)), nil
	}

	return time.Time{}, time.Time{}, fmt.Errorf("%w: unknown timeframe %q", ErrInvalidRequest, timeframe)
}

func endOfDay(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), day.Location())
}

// bucketOrders distributes each order total into exactly one fixed bucket.
// Buckets are emitted in their fixed enumeration order and empty buckets
// report zero, so the bucket sums always add up to the income total.
func bucketOrders(timeframe string, start time.Time, orders []models.Order) []models.ChartPoint {
	switch timeframe {
	case TimeframeToday:
		labels := []string{"0:00-4:00", "4:00-8:00", "8:00-12:00", "12:00-16:00", "16:00-20:00", "20:00-24:00"}
		points := newPoints(labels)
		for _, order := range orders {
			points[order.OrderDate.Hour()/4].Total += order.Total
		}
		return points

	case TimeframeThisWeek:
		labels := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
		points := newPoints(labels)
		for _, order := range orders {
			idx := (int(order.OrderDate.Weekday()) + 6) % 7
			points[idx].Total += order.Total
		}
		return points

	case TimeframeThisMonth:
		daysInMonth := start.AddDate(0, 1, -1).Day()
		weeks := (daysInMonth + 6) / 7
		labels := make([]string, weeks)
		for i := range labels {
			labels[i] = fmt.Sprintf("Week %d", i+1)
		}
		points := newPoints(labels)
		for _, order := range orders {
			points[(order.OrderDate.Day()-1)/7].Total += order.Total
		}
		return points

	case TimeframeThisYear:
		labels := make([]string, 12)
		for i := range labels {
			labels[i] = time.Month(i + 1).String()[:3]
		}
		points := newPoints(labels)
		for _, order := range orders {
			points[int(order.OrderDate.Month())-1].Total += order.Total
		}
		return points
	}

	return nil
}

func newPoints(labels []string) []models.ChartPoint {
	points := make([]models.ChartPoint, len(labels))
	for i, label := range labels {
		points[i] = models.ChartPoint{Name: label}
	}
	return points
}
