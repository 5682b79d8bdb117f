// Package searchlog keeps the analyses made during one session in the
// order they were made.
package searchlog

import (
	"log/slog"
	"sync"

	"github.com/spacesedan/tweetsense/internal/models"
)

const INITIAL_CAPACITY = 16

type SearchLog struct {
	records []models.AnalysisRecord
	lock    sync.Mutex
}

func New() *SearchLog {
	return &SearchLog{
		records: make([]models.AnalysisRecord, 0, INITIAL_CAPACITY),
	}
}

// Append adds record to the end of the log. Duplicates are kept.
func (l *SearchLog) Append(record models.AnalysisRecord) {
	l.lock.Lock()
	defer l.lock.Unlock()

	l.records = append(l.records, record)
	slog.Debug("[SearchLog] Appended record",
		slog.String("sentiment", string(record.Label)),
		slog.Int("size", len(l.records)))
}

// Records returns a copy of the log in insertion order.
func (l *SearchLog) Records() []models.AnalysisRecord {
	l.lock.Lock()
	defer l.lock.Unlock()

	return append([]models.AnalysisRecord(nil), l.records...)
}

func (l *SearchLog) Len() int {
	l.lock.Lock()
	defer l.lock.Unlock()
	return len(l.records)
}

func (l *SearchLog) IsEmpty() bool {
	return l.Len() == 0
}
