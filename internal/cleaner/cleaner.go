// Package cleaner normalizes the long-format assessment export into flat
// per-evaluation records: it groups rows by student and form submission,
// segments each group into evaluator blocks at the role-selection sentinel,
// and extracts typed fields from each block.
package cleaner

import (
	"log"
	"strings"

	"cpainsight/internal/model"
	"cpainsight/internal/schema"
)

// Cleaner turns RawRows into EvaluationRecords against a fixed schema.
type Cleaner struct {
	schema *schema.Schema
}

// New creates a cleaner bound to the given static schema.
func New(s *schema.Schema) *Cleaner {
	return &Cleaner{schema: s}
}

// Clean processes the whole export: rows are grouped by student, then by
// form submission (form|phase|year|release-date). Rows missing any grouping
// component are dropped as a data-quality skip, not an error. Every surviving
// evaluator block yields exactly one record with the full stable column set.
func (c *Cleaner) Clean(rows []model.RawRow) []model.EvaluationRecord {
	var records []model.EvaluationRecord

	type groupKey struct {
		student string
		form    string
	}
	grouped := map[groupKey][]model.RawRow{}
	var order []groupKey

	for _, row := range rows {
		if row.StudentID == "" {
			continue
		}
		if row.FormName == "" || row.PhaseName == "" || row.AcademicYear == "" || row.ReleaseDate == "" {
			continue
		}
		key := groupKey{
			student: row.StudentID,
			form:    strings.Join([]string{row.FormName, row.PhaseName, row.AcademicYear, row.ReleaseDate}, "|"),
		}
		if _, ok := grouped[key]; !ok {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], row)
	}

	for _, key := range order {
		group := grouped[key]
		for _, block := range SplitBlocks(group) {
			rec, ok := c.extractRecord(block)
			if !ok {
				log.Printf("cleaner: skipping block without role row (student=%s form=%s)", key.student, group[0].FormName)
				continue
			}
			records = append(records, rec)
		}
	}

	return records
}

// SplitBlocks segments one form submission's rows into evaluator blocks.
// It is a two-state scan: outside a block, only a sentinel row may open one;
// inside, the next sentinel closes the current block and opens another.
// Leading rows before the first sentinel belong to no evaluator and are
// discarded.
func SplitBlocks(rows []model.RawRow) [][]model.RawRow {
	var blocks [][]model.RawRow
	var current []model.RawRow
	inside := false

	for _, row := range rows {
		if row.QuestionName == RoleSentinel {
			if inside {
				blocks = append(blocks, current)
			}
			current = []model.RawRow{row}
			inside = true
			continue
		}
		if inside {
			current = append(current, row)
		}
	}
	if inside {
		blocks = append(blocks, current)
	}
	return blocks
}

// extractRecord flattens one evaluator block into a record. The block's
// first row is the role sentinel by construction; ok=false guards against a
// malformed block anyway.
func (c *Cleaner) extractRecord(block []model.RawRow) (model.EvaluationRecord, bool) {
	if len(block) == 0 || block[0].QuestionName != RoleSentinel {
		return model.EvaluationRecord{}, false
	}

	head := block[0]
	rec := model.EvaluationRecord{
		StudentID:       head.StudentID,
		FormName:        head.FormName,
		PhaseName:       head.PhaseName,
		AcademicYear:    head.AcademicYear,
		ReleaseDate:     formatExportDate(head.ReleaseDate),
		ReleaseDateRaw:  head.ReleaseDate,
		EvaluatorRole:   head.QuestionChoiceText,
		Professionalism: map[string]*int{},
		Communication:   map[string]*int{},
		EPA:             map[string]*int{},
	}

	// Stable schema: every known rating column exists, null until answered.
	for _, field := range c.schema.RatingFields() {
		if c.schema.ColumnType(field) == schema.TypeInt {
			rec.SetRating(field, nil)
		}
	}

	for _, row := range block[1:] {
		switch {
		case row.QuestionName == frequencyQuestion:
			rec.Frequency = row.QuestionChoiceText
		case row.TextAnswerCategory == "positive" && rec.StrengthsComment == "":
			rec.StrengthsComment = sanitizeComment(row.TextAnswer)
		case row.TextAnswerCategory == "improvement" && rec.ImprovementsComment == "":
			rec.ImprovementsComment = sanitizeComment(row.TextAnswer)
		}

		if key, ok := ratingKey(row); ok {
			if v, err := safeInt(row.RatingSortOrder); err == nil {
				value := v
				rec.SetRating(key, &value)
			} else {
				rec.SetRating(key, nil)
			}
		}
	}

	return rec, true
}
