package stats

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// ReportKind identifies which analysis endpoint produced a report.
type ReportKind string

const (
	KindFull         ReportKind = "full"
	KindAMP          ReportKind = "amp"
	KindIntelligence ReportKind = "intelligence"
	KindCompetitor   ReportKind = "competitor"
	KindPagespeed    ReportKind = "pagespeed"
)

// MonthlyStats counts produced reports per kind for one calendar month.
type MonthlyStats struct {
	FullReports         int       `json:"full_reports"`
	AMPReports          int       `json:"amp_reports"`
	IntelligenceReports int       `json:"intelligence_reports"`
	CompetitorRuns      int       `json:"competitor_runs"`
	PagespeedRuns       int       `json:"pagespeed_runs"`
	Failures            int       `json:"failures"`
	LastUpdated         time.Time `json:"last_updated"`
}

// Storage persists monthly report counters to a JSON file, writing in the
// background and atomically.
type Storage struct {
	mutex       sync.RWMutex
	stats       map[string]*MonthlyStats // key: "YYYY-MM"
	filePath    string
	lastWrite   time.Time
	writeBuffer chan struct{}
}

// NewStorage creates the storage rooted at dataDir, loading any existing
// counter file and starting the background writer.
func NewStorage(dataDir string) (*Storage, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &Storage{
		stats:       make(map[string]*MonthlyStats),
		filePath:    filepath.Join(dataDir, "stats.json"),
		writeBuffer: make(chan struct{}, 1),
	}

	if err := s.load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}

	go s.backgroundWriter()

	return s, nil
}

func (s *Storage) load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	return json.Unmarshal(data, &s.stats)
}

func (s *Storage) save() error {
	s.mutex.RLock()
	data, err := json.Marshal(s.stats)
	s.mutex.RUnlock()

	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}

	// Temp file plus rename keeps the file readable at every instant.
	tempFile := s.filePath + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := os.Rename(tempFile, s.filePath); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}
	return nil
}

func (s *Storage) backgroundWriter() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.writeBuffer:
			s.save()
		case <-ticker.C:
			s.save()
		}
	}
}

func getCurrentMonth() string {
	return time.Now().Format("2006-01")
}

// requestWrite signals the background writer; a pending signal is enough.
func (s *Storage) requestWrite() {
	select {
	case s.writeBuffer <- struct{}{}:
	default:
	}
}

// RecordReport counts one produced (or failed) report of the given kind
// against the current month.
func (s *Storage) RecordReport(kind ReportKind, failed bool) {
	month := getCurrentMonth()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	monthly, exists := s.stats[month]
	if !exists {
		monthly = &MonthlyStats{}
		s.stats[month] = monthly
	}

	switch kind {
	case KindFull:
		monthly.FullReports++
	case KindAMP:
		monthly.AMPReports++
	case KindIntelligence:
		monthly.IntelligenceReports++
	case KindCompetitor:
		monthly.CompetitorRuns++
	case KindPagespeed:
		monthly.PagespeedRuns++
	}
	if failed {
		monthly.Failures++
	}
	monthly.LastUpdated = time.Now()

	if time.Since(s.lastWrite) > time.Minute {
		s.requestWrite()
		s.lastWrite = time.Now()
	}
}

// GetCurrentStats returns this month's counters.
func (s *Storage) GetCurrentStats() MonthlyStats {
	month := getCurrentMonth()

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if monthly, exists := s.stats[month]; exists {
		return *monthly
	}
	return MonthlyStats{}
}

// Cleanup drops every month except the current and previous one.
func (s *Storage) Cleanup() {
	now := time.Now()
	currentMonth := now.Format("2006-01")
	previousMonth := now.AddDate(0, -1, 0).Format("2006-01")

	s.mutex.Lock()
	defer s.mutex.Unlock()

	for key := range s.stats {
		if key != currentMonth && key != previousMonth {
			delete(s.stats, key)
		}
	}

	s.requestWrite()

	log.Printf("Retained statistics for months: %s, %s", currentMonth, previousMonth)
}

// GetMonthlyStats returns the counters for a specific "YYYY-MM" month.
func (s *Storage) GetMonthlyStats(yearMonth string) (MonthlyStats, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if monthly, exists := s.stats[yearMonth]; exists {
		return *monthly, true
	}
	return MonthlyStats{}, false
}

// GetAllMonths lists every month with data, newest first.
func (s *Storage) GetAllMonths() []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	months := make([]string, 0, len(s.stats))
	for month := range s.stats {
		months = append(months, month)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(months)))
	return months
}
