package statistics

import (
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/kurasimap/KurasiMap/internal/pkg/cache"
	"github.com/kurasimap/KurasiMap/internal/pkg/gateway"
)

const (
	CacheKeyLocationsTotal  = "statistics:locations:total"
	CacheKeyCategoriesTotal = "statistics:categories:total"
	CacheKeyLoginsDaily     = "statistics:logins:daily:%s" // Format with date YYYY-MM-DD
	CacheExpiration         = 30 * time.Minute
)

// StatisticsData holds the public aggregate counters.
type StatisticsData struct {
	TotalLocations  int64 `json:"total_locations"`
	TotalCategories int64 `json:"total_categories"`
	TodayLogins     int64 `json:"today_logins"`
}

// Service computes and caches the counters over the injected gateway.
type Service struct {
	gw *gateway.Gateway

	mu          sync.Mutex
	lastRefresh time.Time
	interval    time.Duration
}

// NewService creates a statistics service over the given gateway.
func NewService(gw *gateway.Gateway) *Service {
	return &Service{gw: gw, interval: 5 * time.Minute}
}

// GetStatisticsData returns the counters, refreshing the cache when stale.
func (s *Service) GetStatisticsData() StatisticsData {
	s.refreshIfNeeded()

	return StatisticsData{
		TotalLocations:  s.cachedCount(CacheKeyLocationsTotal, s.countLocations),
		TotalCategories: s.cachedCount(CacheKeyCategoriesTotal, s.countCategories),
		TodayLogins:     s.countTodayLogins(),
	}
}

func (s *Service) refreshIfNeeded() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if time.Since(s.lastRefresh) <= s.interval {
		return
	}
	if err := s.updateCache(); err != nil {
		log.Printf("statistics: cache refresh failed: %v", err)
		return
	}
	s.lastRefresh = time.Now()
}

func (s *Service) updateCache() error {
	locations, categories := s.gw.CountEntities()

	if err := cache.Set(CacheKeyLocationsTotal, strconv.FormatInt(locations, 10), CacheExpiration); err != nil {
		return err
	}
	if err := cache.Set(CacheKeyCategoriesTotal, strconv.FormatInt(categories, 10), CacheExpiration); err != nil {
		return err
	}

	today := time.Now().Format("2006-01-02")
	dailyKey := fmt.Sprintf(CacheKeyLoginsDaily, today)
	todayStart, _ := time.Parse("2006-01-02", today)
	logins := s.gw.CountLoginsSince(todayStart)
	return cache.Set(dailyKey, strconv.FormatInt(logins, 10), CacheExpiration)
}

// cachedCount reads a counter from the cache, recomputing through the
// gateway on a miss.
func (s *Service) cachedCount(key string, compute func() int64) int64 {
	val, err := cache.Get(key)
	if err == nil {
		if count, perr := strconv.ParseInt(val, 10, 64); perr == nil {
			return count
		}
	}

	count := compute()
	if err := cache.Set(key, strconv.FormatInt(count, 10), CacheExpiration); err != nil {
		log.Printf("statistics: caching %s failed: %v", key, err)
	}
	return count
}

func (s *Service) countLocations() int64 {
	locations, _ := s.gw.CountEntities()
	return locations
}

func (s *Service) countCategories() int64 {
	_, categories := s.gw.CountEntities()
	return categories
}

func (s *Service) countTodayLogins() int64 {
	today := time.Now().Format("2006-01-02")
	dailyKey := fmt.Sprintf(CacheKeyLoginsDaily, today)

	val, err := cache.Get(dailyKey)
	if err == nil {
		if count, perr := strconv.ParseInt(val, 10, 64); perr == nil {
			return count
		}
	}

	todayStart, _ := time.Parse("2006-01-02", today)
	return s.gw.CountLoginsSince(todayStart)
}
