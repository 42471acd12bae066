package sync

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// SyncError ошибка отдельного шага синхронизации.
type SyncError struct {
	RecordID  int64     `json:"record_id,omitempty"`
	Operation string    `json:"operation"`
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

// SyncResult результат одного прохода синхронизации.
type SyncResult struct {
	Success    bool          `json:"success"`
	Uploaded   int           `json:"uploaded"`
	Downloaded int           `json:"downloaded"`
	Removed    int           `json:"removed"`
	Skipped    int           `json:"skipped"`
	Errors     []SyncError   `json:"errors"`
	Duration   time.Duration `json:"duration"`
	StartTime  time.Time     `json:"start_time"`
	EndTime    time.Time     `json:"end_time"`
}

func (r *SyncResult) addError(id int64, op string, err error) {
	r.Errors = append(r.Errors, SyncError{
		RecordID:  id,
		Operation: op,
		Error:     err.Error(),
		Timestamp: time.Now(),
	})
}

func (r *SyncResult) finish() {
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
	r.Success = len(r.Errors) == 0
}

// SyncStats накопленная статистика синхронизаций.
type SyncStats struct {
	TotalSyncs      int       `json:"total_syncs"`
	LastSuccessful  time.Time `json:"last_successful"`
	LastFailed      time.Time `json:"last_failed"`
	TotalUploaded   int       `json:"total_uploaded"`
	TotalDownloaded int       `json:"total_downloaded"`
	TotalRemoved    int       `json:"total_removed"`
	TotalErrors     int       `json:"total_errors"`
	AvgSyncDuration float64   `json:"avg_sync_duration"`
}

func (s *SyncStats) update(result *SyncResult) {
	s.TotalSyncs++

	if result.Success {
		s.LastSuccessful = result.EndTime
	} else {
		s.LastFailed = result.EndTime
	}

	s.TotalUploaded += result.Uploaded
	s.TotalDownloaded += result.Downloaded
	s.TotalRemoved += result.Removed
	s.TotalErrors += len(result.Errors)

	// скользящее среднее
	if s.AvgSyncDuration == 0 {
		s.AvgSyncDuration = result.Duration.Seconds()
	} else {
		s.AvgSyncDuration = (s.AvgSyncDuration*float64(s.TotalSyncs-1) +
			result.Duration.Seconds()) / float64(s.TotalSyncs)
	}
}

func loadStats(path string) (SyncStats, error) {
	var stats SyncStats

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return stats, nil
	}
	if err != nil {
		return stats, fmt.Errorf("ошибка чтения статистики: %w", err)
	}
	if err := json.Unmarshal(data, &stats); err != nil {
		return SyncStats{}, fmt.Errorf("ошибка разбора статистики: %w", err)
	}
	return stats, nil
}

func saveStats(path string, stats SyncStats) error {
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
