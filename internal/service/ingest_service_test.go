package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cpainsight/internal/cleaner"
	"cpainsight/internal/memory"
	"cpainsight/internal/model"
	"cpainsight/internal/schema"
)

func fixedClock(year int, month time.Month, day int) func() time.Time {
	return func() time.Time {
		return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	}
}

// exportRows builds one minimal evaluator block in raw long format.
func exportRows(student, form, date, role string, epa2 string) []model.RawRow {
	head := model.RawRow{
		StudentID: student, FormName: form, PhaseName: "Clerkship",
		AcademicYear: "2022-2023", ReleaseDate: date,
		QuestionName: cleaner.RoleSentinel, QuestionChoiceText: role,
	}
	rating := head
	rating.QuestionName = "EPA 2: Prioritize a differential diagnosis"
	rating.QuestionChoiceText = ""
	rating.RatingSortOrder = epa2
	return []model.RawRow{head, rating}
}

func TestIngestStampsRecencyWeights(t *testing.T) {
	store := memory.NewMemStore()
	svc := NewIngestService(cleaner.New(schema.Default()), store)
	svc.SetClock(fixedClock(2023, 7, 15))

	var rows []model.RawRow
	rows = append(rows, exportRows("stu1", "Surgery CPA", "1/1/23 0:00", "Attending", "2")...)
	rows = append(rows, exportRows("stu1", "Surgery CPA", "4/1/23 0:00", "Attending", "3")...)
	rows = append(rows, exportRows("stu1", "Surgery CPA", "7/1/23 0:00", "Attending", "4")...)

	records, err := svc.Ingest(context.Background(), rows)
	require.NoError(t, err)
	require.Len(t, records, 3)

	// January is 6 months old, April 3, July 0.
	assert.InDelta(t, 0.5, records[0].RecencyWeight, 1e-9)
	assert.InDelta(t, 1.0, records[1].RecencyWeight, 1e-9)
	assert.InDelta(t, 1.0, records[2].RecencyWeight, 1e-9)
}

func TestIngestPartitionsByStudent(t *testing.T) {
	store := memory.NewMemStore()
	svc := NewIngestService(cleaner.New(schema.Default()), store)
	svc.SetClock(fixedClock(2023, 7, 15))

	var rows []model.RawRow
	rows = append(rows, exportRows("stu1", "Surgery CPA", "7/1/23 0:00", "Attending", "3")...)
	rows = append(rows, exportRows("stu2", "Surgery CPA", "7/1/23 0:00", "Resident", "4")...)

	_, err := svc.Ingest(context.Background(), rows)
	require.NoError(t, err)

	ctx := context.Background()
	recs1, err := store.Records(ctx, "stu1")
	require.NoError(t, err)
	require.Len(t, recs1, 1)
	assert.Equal(t, "Attending", recs1[0].EvaluatorRole)

	recs2, err := store.Records(ctx, "stu2")
	require.NoError(t, err)
	require.Len(t, recs2, 1)
	assert.Equal(t, "Resident", recs2[0].EvaluatorRole)
}

func TestLoadRestampsWeights(t *testing.T) {
	store := memory.NewMemStore()
	svc := NewIngestService(cleaner.New(schema.Default()), store)
	svc.SetClock(fixedClock(2023, 7, 15))

	records := []model.EvaluationRecord{{
		StudentID:     "stu1",
		FormName:      "Surgery CPA",
		ReleaseDate:   "2023-01-01",
		RecencyWeight: 0.99, // stale, must be recomputed
	}}
	require.NoError(t, svc.Load(context.Background(), records))

	got, err := store.Records(context.Background(), "stu1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.InDelta(t, 0.5, got[0].RecencyWeight, 1e-9)
}

func TestStudents(t *testing.T) {
	records := []model.EvaluationRecord{
		{StudentID: "b"}, {StudentID: "a"}, {StudentID: "b"}, {StudentID: "c"},
	}
	assert.Equal(t, []string{"b", "a", "c"}, Students(records))
}
