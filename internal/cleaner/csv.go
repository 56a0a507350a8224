package cleaner

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"cpainsight/internal/analysis"
	"cpainsight/internal/model"
	"cpainsight/internal/schema"
)

// Export column headers of the long-format table.
const (
	colStudent         = "student"
	colFormName        = "formname"
	colPhaseName       = "phasename"
	colAcademicYear    = "academicyearname"
	colReleaseDate     = "releasedate"
	colQuestionName    = "questionname"
	colQuestionChoice  = "questionchoicetext"
	colRatingScaleText = "ratingscalequestiontext"
	colRatingSortOrder = "rating_answer_sortorder"
	colTextAnswer      = "text_answer"
	colTextCategory    = "text_answer_category"
)

// nullTokens are cell values treated as absent regardless of column.
var nullTokens = map[string]bool{
	"none": true, "null": true, "na": true, "n/a": true, "#name?": true,
}

// ReadLongCSV reads the raw long-format export. Header names are matched
// case-insensitively; rows shorter than the header are skipped.
func ReadLongCSV(r io.Reader) ([]model.RawRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := map[string]int{}
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}

	cell := func(row []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var rows []model.RawRow
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		rows = append(rows, model.RawRow{
			StudentID:          cell(record, colStudent),
			FormName:           cell(record, colFormName),
			PhaseName:          cell(record, colPhaseName),
			AcademicYear:       cell(record, colAcademicYear),
			ReleaseDate:        cell(record, colReleaseDate),
			QuestionName:       cell(record, colQuestionName),
			QuestionChoiceText: cell(record, colQuestionChoice),
			RatingScaleText:    cell(record, colRatingScaleText),
			RatingSortOrder:    cell(record, colRatingSortOrder),
			TextAnswer:         cell(record, colTextAnswer),
			TextAnswerCategory: cell(record, colTextCategory),
		})
	}
	return rows, nil
}

// WriteRecordsCSV writes cleaned records as a flat table with the schema's
// stable column order. Unanswered ratings serialize as empty cells, never 0.
func WriteRecordsCSV(w io.Writer, records []model.EvaluationRecord, s *schema.Schema) error {
	cw := csv.NewWriter(w)
	columns := s.Columns()
	if err := cw.Write(columns); err != nil {
		return err
	}

	for _, rec := range records {
		row := make([]string, 0, len(columns))
		for _, col := range columns {
			row = append(row, recordCell(rec, col))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func recordCell(rec model.EvaluationRecord, col string) string {
	switch col {
	case "student_id":
		return rec.StudentID
	case "form_name":
		return rec.FormName
	case "phase_name":
		return rec.PhaseName
	case "academic_year":
		return rec.AcademicYear
	case "release_date":
		return rec.ReleaseDate
	case "evaluator_role":
		return rec.EvaluatorRole
	case "frequency":
		return rec.Frequency
	case "strengths_comment":
		return rec.StrengthsComment
	case "improvements_comment":
		return rec.ImprovementsComment
	}
	if v := rec.Rating(col); v != nil {
		return strconv.Itoa(*v)
	}
	return ""
}

// ParseRecordsCSV reads a previously cleaned flat table back into records,
// applying the schema's column types: int columns coerce or become null,
// date columns normalize to ISO, everything else stays text.
func ParseRecordsCSV(r io.Reader, s *schema.Schema) ([]model.EvaluationRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var records []model.EvaluationRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if len(row) != len(header) {
			continue
		}

		var rec model.EvaluationRecord
		rec.Professionalism = map[string]*int{}
		rec.Communication = map[string]*int{}
		rec.EPA = map[string]*int{}
		for _, field := range s.RatingFields() {
			if s.ColumnType(field) == schema.TypeInt {
				rec.SetRating(field, nil)
			}
		}

		for i, col := range header {
			value := strings.TrimSpace(row[i])
			if value == "" || nullTokens[strings.ToLower(value)] {
				continue
			}
			switch col {
			case "student_id":
				rec.StudentID = value
			case "form_name":
				rec.FormName = value
			case "phase_name":
				rec.PhaseName = value
			case "academic_year":
				rec.AcademicYear = value
			case "release_date":
				rec.ReleaseDate = normalizeISO(value)
				rec.ReleaseDateRaw = value
			case "evaluator_role":
				rec.EvaluatorRole = value
			case "frequency":
				rec.Frequency = value
			case "strengths_comment":
				rec.StrengthsComment = value
			case "improvements_comment":
				rec.ImprovementsComment = value
			default:
				if s.ColumnType(col) == schema.TypeInt {
					if n, err := safeInt(value); err == nil {
						v := n
						rec.SetRating(col, &v)
					}
				}
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// normalizeISO re-renders a date cell as YYYY-MM-DD when one of the accepted
// formats matches, passing it through otherwise. Accepted formats are the
// pipeline-wide list, so nothing readable downstream escapes normalization.
func normalizeISO(value string) string {
	if t, ok := analysis.ParseDate(value); ok {
		return t.Format("2006-01-02")
	}
	return value
}
