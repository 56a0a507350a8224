package service

import (
	"context"
	"fmt"

	"cpainsight/internal/analysis"
	"cpainsight/internal/memory"
	"cpainsight/internal/model"
)

// AnalysisService runs the scoring pipeline for one student and query:
// numeric statistics, text patterns, temporal progression, and the
// consolidated summary. Each stage writes its result back to the pipeline
// store so stages stay individually inspectable.
type AnalysisService struct {
	store   memory.Store
	numeric *analysis.NumericAnalyzer
	text    *analysis.TextAnalyzer
}

// NewAnalysisService creates an analysis service.
func NewAnalysisService(store memory.Store, numeric *analysis.NumericAnalyzer, text *analysis.TextAnalyzer) *AnalysisService {
	return &AnalysisService{
		store:   store,
		numeric: numeric,
		text:    text,
	}
}

// Analyze loads the student's records from the store and produces the
// consolidated summary. Runs for different students share no mutable state
// and may execute concurrently.
func (s *AnalysisService) Analyze(ctx context.Context, studentID string, query model.StructuredQuery) (*model.ConsolidatedSummary, error) {
	records, err := s.store.Records(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no evaluation records for student %s", studentID)
	}

	if err := s.store.SetQuery(ctx, studentID, &query); err != nil {
		return nil, fmt.Errorf("store query: %w", err)
	}

	numeric := s.numeric.Analyze(records, query)
	if err := s.store.SetNumericAnalysis(ctx, studentID, &numeric); err != nil {
		return nil, fmt.Errorf("store numeric analysis: %w", err)
	}

	text := s.text.Analyze(records, query)
	if err := s.store.SetTextAnalysis(ctx, studentID, &text); err != nil {
		return nil, fmt.Errorf("store text analysis: %w", err)
	}

	summary := &model.ConsolidatedSummary{
		StudentID: studentID,
		Query:     query,
		Numeric:   numeric,
		Text:      text,
	}
	if err := s.store.SetSummary(ctx, studentID, summary); err != nil {
		return nil, fmt.Errorf("store summary: %w", err)
	}
	return summary, nil
}
