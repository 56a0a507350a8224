package memory

import (
	"context"
	"encoding/json"
	"sync"

	"cpainsight/internal/model"
)

// memStore is the in-process Store used by the CLI and by tests. Values are
// stored as JSON so it round-trips exactly like the Redis implementation.
type memStore struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

// NewMemStore creates an in-process pipeline store.
func NewMemStore() Store {
	return &memStore{slots: map[string][]byte{}}
}

func (s *memStore) set(runID, slot string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[runID+"/"+slot] = data
	return nil
}

func (s *memStore) get(runID, slot string, out any) (bool, error) {
	s.mu.RLock()
	data, ok := s.slots[runID+"/"+slot]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, err
	}
	return true, nil
}

func (s *memStore) SetRecords(_ context.Context, runID string, records []model.EvaluationRecord) error {
	return s.set(runID, slotRecords, records)
}

func (s *memStore) Records(_ context.Context, runID string) ([]model.EvaluationRecord, error) {
	var records []model.EvaluationRecord
	found, err := s.get(runID, slotRecords, &records)
	if err != nil || !found {
		return nil, err
	}
	return records, nil
}

func (s *memStore) SetQuery(_ context.Context, runID string, query *model.StructuredQuery) error {
	return s.set(runID, slotQuery, query)
}

func (s *memStore) Query(_ context.Context, runID string) (*model.StructuredQuery, error) {
	var query model.StructuredQuery
	found, err := s.get(runID, slotQuery, &query)
	if err != nil || !found {
		return nil, err
	}
	return &query, nil
}

func (s *memStore) SetNumericAnalysis(_ context.Context, runID string, analysis *model.NumericAnalysis) error {
	return s.set(runID, slotNumeric, analysis)
}

func (s *memStore) NumericAnalysis(_ context.Context, runID string) (*model.NumericAnalysis, error) {
	var analysis model.NumericAnalysis
	found, err := s.get(runID, slotNumeric, &analysis)
	if err != nil || !found {
		return nil, err
	}
	return &analysis, nil
}

func (s *memStore) SetTextAnalysis(_ context.Context, runID string, analysis *model.TextAnalysis) error {
	return s.set(runID, slotText, analysis)
}

func (s *memStore) TextAnalysis(_ context.Context, runID string) (*model.TextAnalysis, error) {
	var analysis model.TextAnalysis
	found, err := s.get(runID, slotText, &analysis)
	if err != nil || !found {
		return nil, err
	}
	return &analysis, nil
}

func (s *memStore) SetSummary(_ context.Context, runID string, summary *model.ConsolidatedSummary) error {
	return s.set(runID, slotSummary, summary)
}

func (s *memStore) Summary(_ context.Context, runID string) (*model.ConsolidatedSummary, error) {
	var summary model.ConsolidatedSummary
	found, err := s.get(runID, slotSummary, &summary)
	if err != nil || !found {
		return nil, err
	}
	return &summary, nil
}

func (s *memStore) Clear(_ context.Context, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, slot := range allSlots {
		delete(s.slots, runID+"/"+slot)
	}
	return nil
}
