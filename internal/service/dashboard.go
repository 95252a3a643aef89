package service

import (
	"context"
	"fmt"
	"time"

	"github.com/zombiebrand/adminconsole/internal/database/repository"
)

// Trends is the dashboard payload: total articles and a per-day series
// with zero-filled gaps, oldest first.
type Trends struct {
	Total int
	Days  []repository.DayCount
}

// DashboardService aggregates article statistics.
type DashboardService struct {
	Articles *repository.ArticleRepo
	Now      func() time.Time
}

func (s *DashboardService) Trends(ctx context.Context, days int) (Trends, error) {
	if days < 1 {
		days = 7
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	today := now().UTC().Truncate(24 * time.Hour)
	start := today.AddDate(0, 0, -(days - 1))

	total, err := s.Articles.Count(ctx)
	if err != nil {
		return Trends{}, fmt.Errorf("count articles: %w", err)
	}
	counts, err := s.Articles.DailyCounts(ctx, start)
	if err != nil {
		return Trends{}, fmt.Errorf("daily counts: %w", err)
	}
	byDay := make(map[string]int, len(counts))
	for _, c := range counts {
		byDay[c.Day] = c.Count
	}
	out := Trends{Total: total, Days: make([]repository.DayCount, 0, days)}
	for d := start; !d.After(today); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		out.Days = append(out.Days, repository.DayCount{Day: key, Count: byDay[key]})
	}
	return out, nil
}
