package stats

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorage(t *testing.T) {
	tempDir := t.TempDir()

	storage, err := NewStorage(tempDir)
	require.NoError(t, err)

	t.Run("RecordReport", func(t *testing.T) {
		storage.RecordReport(KindFull, false)
		storage.RecordReport(KindFull, false)
		storage.RecordReport(KindAMP, false)
		storage.RecordReport(KindIntelligence, true)
		storage.RecordReport(KindCompetitor, false)
		storage.RecordReport(KindPagespeed, false)

		current := storage.GetCurrentStats()
		assert.Equal(t, 2, current.FullReports)
		assert.Equal(t, 1, current.AMPReports)
		assert.Equal(t, 1, current.IntelligenceReports)
		assert.Equal(t, 1, current.CompetitorRuns)
		assert.Equal(t, 1, current.PagespeedRuns)
		assert.Equal(t, 1, current.Failures)
		assert.False(t, current.LastUpdated.IsZero())
	})

	t.Run("Persistence", func(t *testing.T) {
		require.NoError(t, storage.save())

		storage2, err := NewStorage(tempDir)
		require.NoError(t, err)

		current := storage2.GetCurrentStats()
		assert.Equal(t, 2, current.FullReports)
	})

	t.Run("Cleanup", func(t *testing.T) {
		oldMonth := time.Now().AddDate(0, -2, 0).Format("2006-01")
		storage.mutex.Lock()
		storage.stats[oldMonth] = &MonthlyStats{FullReports: 100}
		storage.mutex.Unlock()

		storage.Cleanup()

		_, exists := storage.GetMonthlyStats(oldMonth)
		assert.False(t, exists, "old month should have been dropped")
	})

	t.Run("GetAllMonths", func(t *testing.T) {
		previousMonth := time.Now().AddDate(0, -1, 0).Format("2006-01")
		storage.mutex.Lock()
		storage.stats[previousMonth] = &MonthlyStats{AMPReports: 3}
		storage.mutex.Unlock()

		months := storage.GetAllMonths()
		require.Len(t, months, 2)
		assert.Greater(t, months[0], months[1], "newest month first")
	})

	t.Run("AtomicSaveLeavesNoTempFile", func(t *testing.T) {
		require.NoError(t, storage.save())
		assert.NoFileExists(t, filepath.Join(tempDir, "stats.json.tmp"))
		assert.FileExists(t, filepath.Join(tempDir, "stats.json"))
	})

	t.Run("ConcurrentAccess", func(t *testing.T) {
		fresh, err := NewStorage(t.TempDir())
		require.NoError(t, err)

		done := make(chan bool)
		for i := 0; i < 10; i++ {
			go func() {
				for j := 0; j < 100; j++ {
					fresh.RecordReport(KindFull, false)
					fresh.GetCurrentStats()
				}
				done <- true
			}()
		}
		for i := 0; i < 10; i++ {
			<-done
		}

		assert.Equal(t, 1000, fresh.GetCurrentStats().FullReports)
	})
}

func TestGetMonthlyStatsMissing(t *testing.T) {
	storage, err := NewStorage(t.TempDir())
	require.NoError(t, err)

	_, exists := storage.GetMonthlyStats("1999-01")
	assert.False(t, exists)
}
