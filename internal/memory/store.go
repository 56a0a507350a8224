// Package memory is the shared blackboard between pipeline stages: each run
// (one student, one query) writes its parsed records and analysis results
// into named slots that later stages read back. The store is a plain
// read/write contract; Redis backs it in the server, an in-process map backs
// it in the CLI and in tests.
package memory

import (
	"context"

	"cpainsight/internal/model"
)

// Store is the read/write contract between pipeline stages. Getters return
// (nil, nil) when a slot was never written.
type Store interface {
	SetRecords(ctx context.Context, runID string, records []model.EvaluationRecord) error
	Records(ctx context.Context, runID string) ([]model.EvaluationRecord, error)

	SetQuery(ctx context.Context, runID string, query *model.StructuredQuery) error
	Query(ctx context.Context, runID string) (*model.StructuredQuery, error)

	SetNumericAnalysis(ctx context.Context, runID string, analysis *model.NumericAnalysis) error
	NumericAnalysis(ctx context.Context, runID string) (*model.NumericAnalysis, error)

	SetTextAnalysis(ctx context.Context, runID string, analysis *model.TextAnalysis) error
	TextAnalysis(ctx context.Context, runID string) (*model.TextAnalysis, error)

	SetSummary(ctx context.Context, runID string, summary *model.ConsolidatedSummary) error
	Summary(ctx context.Context, runID string) (*model.ConsolidatedSummary, error)

	// Clear drops every slot of one run.
	Clear(ctx context.Context, runID string) error
}

// Slot names, shared by implementations.
const (
	slotRecords = "records"
	slotQuery   = "query"
	slotNumeric = "numeric"
	slotText    = "text"
	slotSummary = "summary"
)

var allSlots = []string{slotRecords, slotQuery, slotNumeric, slotText, slotSummary}
