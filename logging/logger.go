package logging

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"
)

// ENV_DEV_MODE controls whether the statistics endpoint exposes the full
// data set or the trimmed production view.
const ENV_DEV_MODE = "DEV_MODE"

const statisticsFile = "statistics.json"

// Statistics aggregates service usage: unique visitors, per-endpoint
// request counts, the most analyzed sites and request timing.
type Statistics struct {
	UniqueVisitors  map[string]time.Time `json:"uniqueVisitors"` // IP -> last visit
	EndpointCounts  map[string]int       `json:"endpointCounts"` // API path -> requests
	PopularURLs     map[string]int       `json:"popularUrls"`    // analyzed site -> count
	ErrorCount      int                  `json:"errorCount"`
	AverageLoadTime float64              `json:"averageLoadTime"` // milliseconds
	TotalLoadTime   float64              `json:"-"`
	RequestCount    int                  `json:"-"`
	LastPersisted   time.Time            `json:"lastPersisted"`
	mutex           sync.RWMutex
}

var (
	stats *Statistics
	once  sync.Once
)

// Initialize creates the singleton, loading any previously persisted state.
func Initialize() *Statistics {
	once.Do(func() {
		stats = &Statistics{
			UniqueVisitors: make(map[string]time.Time),
			EndpointCounts: make(map[string]int),
			PopularURLs:    make(map[string]int),
			LastPersisted:  time.Now(),
		}
		if err := stats.Load(); err != nil {
			fmt.Printf("Could not load existing statistics: %v\n", err)
		}
	})
	return stats
}

// TrackVisitor records a unique visitor by IP.
func (s *Statistics) TrackVisitor(ip string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.UniqueVisitors[ip] = time.Now()
}

// cleanURL reduces an analyzed target to scheme://host/path, dropping our
// own API and localhost noise entirely.
func cleanURL(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		return urlStr
	}

	if strings.Contains(u.Host, "localhost") ||
		strings.Contains(u.Host, "127.0.0.1") ||
		strings.Contains(strings.ToLower(u.Path), "/api/") {
		return ""
	}

	clean := u.Scheme + "://" + u.Host
	if u.Path != "" && u.Path != "/" {
		clean += u.Path
	}
	return strings.TrimSuffix(clean, "/")
}

// TrackRequest records one analysis request against its endpoint. targetURL
// is the site that was analyzed and may be empty.
func (s *Statistics) TrackRequest(endpoint, targetURL string, loadTime float64, hasError bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.EndpointCounts[endpoint]++

	if cleaned := cleanURL(targetURL); cleaned != "" {
		s.PopularURLs[cleaned]++
	}

	if hasError {
		s.ErrorCount++
	}

	s.TotalLoadTime += loadTime
	s.RequestCount++
	s.AverageLoadTime = s.TotalLoadTime / float64(s.RequestCount)
}

// TotalRequests returns the number of tracked analysis requests.
func (s *Statistics) TotalRequests() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	total := 0
	for _, count := range s.EndpointCounts {
		total += count
	}
	return total
}

// GetUniqueVisitorsCount counts visitors seen in the last 24 hours.
func (s *Statistics) GetUniqueVisitorsCount() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	count := 0
	cutoff := time.Now().Add(-24 * time.Hour)
	for _, lastVisit := range s.UniqueVisitors {
		if lastVisit.After(cutoff) {
			count++
		}
	}
	return count
}

// GetPopularURLs returns up to n analyzed sites with their counts.
func (s *Statistics) GetPopularURLs(n int) map[string]int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	result := make(map[string]int)
	count := 0
	for site, freq := range s.PopularURLs {
		if count < n {
			result[site] = freq
			count++
		}
	}
	return result
}

// GetErrorRate returns the failed share of tracked requests as a percentage.
func (s *Statistics) GetErrorRate() float64 {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	total := 0
	for _, count := range s.EndpointCounts {
		total += count
	}
	if total == 0 {
		return 0
	}
	return float64(s.ErrorCount) / float64(total) * 100
}

// Save persists the statistics to disk.
func (s *Statistics) Save() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.LastPersisted = time.Now()

	file, err := os.Create(statisticsFile)
	if err != nil {
		return fmt.Errorf("could not create statistics file: %v", err)
	}
	defer file.Close()

	if err := json.NewEncoder(file).Encode(s); err != nil {
		return fmt.Errorf("could not encode statistics: %v", err)
	}
	return nil
}

// Load restores previously persisted statistics. A missing file is not an
// error.
func (s *Statistics) Load() error {
	file, err := os.Open(statisticsFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("could not open statistics file: %v", err)
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(s); err != nil {
		return fmt.Errorf("could not decode statistics: %v", err)
	}
	return nil
}

// GetStatistics returns the reportable view. Outside DEV_MODE the response
// omits per-site data.
func (s *Statistics) GetStatistics() map[string]interface{} {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	total := 0
	for _, count := range s.EndpointCounts {
		total += count
	}

	view := map[string]interface{}{
		"uniqueVisitors24h": s.uniqueVisitorsLocked(),
		"totalRequests":     total,
		"errorRate":         s.errorRateLocked(total),
		"averageLoadTime":   s.AverageLoadTime,
	}

	if os.Getenv(ENV_DEV_MODE) == "true" {
		view["endpointCounts"] = s.EndpointCounts
		view["popularUrls"] = s.popularURLsLocked(5)
	}
	return view
}

func (s *Statistics) uniqueVisitorsLocked() int {
	count := 0
	cutoff := time.Now().Add(-24 * time.Hour)
	for _, lastVisit := range s.UniqueVisitors {
		if lastVisit.After(cutoff) {
			count++
		}
	}
	return count
}

func (s *Statistics) errorRateLocked(total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(s.ErrorCount) / float64(total) * 100
}

func (s *Statistics) popularURLsLocked(n int) map[string]int {
	result := make(map[string]int)
	count := 0
	for site, freq := range s.PopularURLs {
		if count < n {
			result[site] = freq
			count++
		}
	}
	return result
}
