package service

import (
	"context"
	"fmt"
	"time"

	"cpainsight/internal/analysis"
	"cpainsight/internal/cleaner"
	"cpainsight/internal/memory"
	"cpainsight/internal/model"
)

// IngestService normalizes raw export rows into per-evaluation records,
// stamps each with its recency weight, and publishes them to the pipeline
// store partitioned by student.
type IngestService struct {
	cleaner *cleaner.Cleaner
	store   memory.Store
	now     func() time.Time
}

// NewIngestService creates an ingest service.
func NewIngestService(c *cleaner.Cleaner, store memory.Store) *IngestService {
	return &IngestService{
		cleaner: c,
		store:   store,
		now:     time.Now,
	}
}

// SetClock overrides the wall clock used for recency weighting.
func (s *IngestService) SetClock(now func() time.Time) {
	s.now = now
}

// Ingest cleans raw rows and stores the resulting records per student.
// It returns everything it stored, already weighted.
func (s *IngestService) Ingest(ctx context.Context, rows []model.RawRow) ([]model.EvaluationRecord, error) {
	records := s.cleaner.Clean(rows)
	records = s.Stamp(records)

	for student, recs := range byStudent(records) {
		if err := s.store.SetRecords(ctx, student, recs); err != nil {
			return nil, fmt.Errorf("store records for %s: %w", student, err)
		}
	}
	return records, nil
}

// Load stores already-cleaned records (e.g. read back from a cleaned CSV),
// restamping their recency weights against the current clock.
func (s *IngestService) Load(ctx context.Context, records []model.EvaluationRecord) error {
	records = s.Stamp(records)
	for student, recs := range byStudent(records) {
		if err := s.store.SetRecords(ctx, student, recs); err != nil {
			return fmt.Errorf("store records for %s: %w", student, err)
		}
	}
	return nil
}

// Stamp computes the recency weight of every record from its release date.
func (s *IngestService) Stamp(records []model.EvaluationRecord) []model.EvaluationRecord {
	now := s.now()
	for i := range records {
		dateStr := records[i].ReleaseDate
		if dateStr == "" {
			dateStr = records[i].ReleaseDateRaw
		}
		records[i].RecencyWeight = analysis.RecencyWeight(dateStr, now)
	}
	return records
}

// Students returns the distinct student ids in record order.
func Students(records []model.EvaluationRecord) []string {
	seen := map[string]bool{}
	var out []string
	for _, rec := range records {
		if !seen[rec.StudentID] {
			seen[rec.StudentID] = true
			out = append(out, rec.StudentID)
		}
	}
	return out
}

func byStudent(records []model.EvaluationRecord) map[string][]model.EvaluationRecord {
	grouped := map[string][]model.EvaluationRecord{}
	for _, rec := range records {
		grouped[rec.StudentID] = append(grouped[rec.StudentID], rec)
	}
	return grouped
}
