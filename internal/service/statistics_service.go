package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"kungfu-delivery/internal/apperr"
	"kungfu-delivery/internal/domain"
	"kungfu-delivery/internal/logger"

	"github.com/shopspring/decimal"
)

const (
	defaultHotLimit = 10
	maxHotLimit     = 100
	trailingDays    = 7
	dateLayout      = "2006-01-02"
	hourBucket      = "2006-01-02 15:00"
	dayBucket       = "2006-01-02"
	monthBucket     = "2006-01"
)

const (
	msgInvalidPeriod   = "无效的统计周期，可选值为 daily、weekly、monthly、yearly、custom"
	msgInvalidDate     = "日期格式无效，应为 YYYY-MM-DD"
	msgRangeIncomplete = "开始日期和结束日期必须同时提供"
	msgRangeInverted   = "开始日期不能晚于结束日期"
	msgCustomNeedRange = "自定义周期必须提供开始日期和结束日期"
)

type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
	PeriodCustom  Period = "custom"
)

func (p Period) valid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodYearly, PeriodCustom:
		return true
	}
	return false
}

type StatisticsServiceInterface interface {
	HotItems(ctx context.Context, kind domain.ItemType, limit int) ([]domain.HotItem, error)
	Turnover(ctx context.Context, period, startDate, endDate string) ([]domain.TurnoverBucket, error)
	Overview(ctx context.Context) (*domain.Overview, error)
}

// StatisticsService computes back-office figures over paid orders only.
type StatisticsService struct {
	repo  StatsRepository
	cache StatsCache
	loc   *time.Location
	now   Clock
}

func NewStatisticsService(repo StatsRepository, cache StatsCache, loc *time.Location) *StatisticsService {
	if loc == nil {
		loc = time.Local
	}
	return &StatisticsService{repo: repo, cache: cache, loc: loc, now: time.Now}
}

func (s *StatisticsService) HotItems(ctx context.Context, kind domain.ItemType, limit int) ([]domain.HotItem, error) {
	if !kind.Valid() {
		return nil, apperr.Validation(msgInvalidItemType)
	}
	if limit <= 0 {
		limit = defaultHotLimit
	}
	if limit > maxHotLimit {
		limit = maxHotLimit
	}

	if s.cache != nil {
		items, hit, err := s.cache.GetHotItems(ctx, kind, limit)
		if err != nil {
			logger.From(ctx).Warn().Err(err).Str("kind", string(kind)).Msg("hot items cache read failed")
		}
		if hit {
			return items, nil
		}
	}

	lines, err := s.repo.PaidOrderLines(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("paid order lines: %w", err)
	}
	items := rankHotItems(lines, limit)

	if s.cache != nil {
		if err := s.cache.SetHotItems(ctx, kind, limit, items); err != nil {
			logger.From(ctx).Warn().Err(err).Str("kind", string(kind)).Msg("hot items cache write failed")
		}
	}
	return items, nil
}

// rankHotItems groups lines by item and orders the groups by quantity sold.
// Ties keep the order in which the item was first seen.
func rankHotItems(lines []domain.SoldLine, limit int) []domain.HotItem {
	index := make(map[domain.ItemRef]int)
	items := []domain.HotItem{}
	for _, line := range lines {
		i, ok := index[line.ItemRef]
		if !ok {
			i = len(items)
			index[line.ItemRef] = i
			items = append(items, domain.HotItem{
				ItemID:       line.ItemID,
				ItemType:     line.ItemType,
				ItemName:     line.ItemName,
				UnitPrice:    line.UnitPrice,
				TotalRevenue: decimal.Zero,
			})
		}
		items[i].TotalQuantitySold += line.Quantity
		items[i].TotalRevenue = items[i].TotalRevenue.Add(line.SubTotal)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].TotalQuantitySold > items[j].TotalQuantitySold
	})
	if len(items) > limit {
		items = items[:limit]
	}
	for i := range items {
		items[i].TotalRevenue = items[i].TotalRevenue.Round(2)
	}
	return items
}

func (s *StatisticsService) Turnover(ctx context.Context, period, startDate, endDate string) ([]domain.TurnoverBucket, error) {
	p := Period(strings.ToLower(strings.TrimSpace(period)))
	if p == "" {
		p = PeriodDaily
	}
	if !p.valid() {
		return nil, apperr.Validation(msgInvalidPeriod)
	}

	from, to, err := s.turnoverRange(p, strings.TrimSpace(startDate), strings.TrimSpace(endDate))
	if err != nil {
		return nil, err
	}
	layout := bucketLayout(p, from, to)

	orders, err := s.repo.PaidOrders(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("paid orders: %w", err)
	}

	buckets := map[string]*domain.TurnoverBucket{}
	for _, o := range orders {
		key := o.CreatedAt.In(s.loc).Format(layout)
		b, ok := buckets[key]
		if !ok {
			b = &domain.TurnoverBucket{Date: key, TotalTurnover: decimal.Zero}
			buckets[key] = b
		}
		b.TotalTurnover = b.TotalTurnover.Add(o.TotalAmount)
		b.OrderCount++
	}

	result := make([]domain.TurnoverBucket, 0, len(buckets))
	for _, b := range buckets {
		b.TotalTurnover = b.TotalTurnover.Round(2)
		result = append(result, *b)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date < result[j].Date })
	return result, nil
}

// turnoverRange resolves the half-open [from, to) window. An explicit end
// date is inclusive.
func (s *StatisticsService) turnoverRange(p Period, startDate, endDate string) (time.Time, time.Time, error) {
	if startDate == "" && endDate == "" {
		if p == PeriodCustom {
			return time.Time{}, time.Time{}, apperr.Validation(msgCustomNeedRange)
		}
		today := startOfDay(s.now().In(s.loc))
		return today.AddDate(0, 0, -(trailingDays - 1)), today.AddDate(0, 0, 1), nil
	}
	if startDate == "" || endDate == "" {
		return time.Time{}, time.Time{}, apperr.Validation(msgRangeIncomplete)
	}

	from, err := time.ParseInLocation(dateLayout, startDate, s.loc)
	if err != nil {
		return time.Time{}, time.Time{}, apperr.Validation(msgInvalidDate)
	}
	end, err := time.ParseInLocation(dateLayout, endDate, s.loc)
	if err != nil {
		return time.Time{}, time.Time{}, apperr.Validation(msgInvalidDate)
	}
	if end.Before(from) {
		return time.Time{}, time.Time{}, apperr.Validation(msgRangeInverted)
	}
	return from, end.AddDate(0, 0, 1), nil
}

func bucketLayout(p Period, from, to time.Time) string {
	switch p {
	case PeriodDaily:
		if !to.After(from.AddDate(0, 0, 1)) {
			return hourBucket
		}
		return dayBucket
	case PeriodYearly:
		return monthBucket
	default:
		return dayBucket
	}
}

func (s *StatisticsService) Overview(ctx context.Context) (*domain.Overview, error) {
	today := startOfDay(s.now().In(s.loc))
	orders, err := s.repo.PaidOrders(ctx, today, today.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("paid orders: %w", err)
	}

	overview := &domain.Overview{TodayTurnover: decimal.Zero}
	for _, o := range orders {
		overview.TodayTurnover = overview.TodayTurnover.Add(o.TotalAmount)
		overview.TodayOrdersCount++
	}
	overview.TodayTurnover = overview.TodayTurnover.Round(2)

	if overview.PendingOrdersCount, err = s.repo.CountPaidInFlight(ctx); err != nil {
		return nil, fmt.Errorf("count in-flight orders: %w", err)
	}

	counts, err := s.repo.CatalogCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog counts: %w", err)
	}
	overview.AvailableDishesCount = counts.AvailableDishes
	overview.AvailableItemsCount = counts.AvailableDishes + counts.EnabledCombos
	overview.EnabledCategoriesCount = counts.EnabledCategories
	return overview, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

var _ StatisticsServiceInterface = (*StatisticsService)(nil)
