package cleaner

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cpainsight/internal/model"
	"cpainsight/internal/schema"
)

const rawExportCSV = `Student,FormName,PhaseName,AcademicYearName,ReleaseDate,QuestionName,QuestionChoiceText,RatingScaleQuestionText,Rating_Answer_SortOrder,Text_Answer,Text_Answer_Category
stu1,Surgery CPA,Clerkship,2022-2023,3/2/23 0:00,Please select your role:,Attending,,,,
stu1,Surgery CPA,Clerkship,2022-2023,3/2/23 0:00,EPA 2: Prioritize a differential diagnosis,,,3,,
stu1,Surgery CPA,Clerkship,2022-2023,3/2/23 0:00,Strengths,,,,Great diagnostic instincts,positive
`

func TestReadLongCSV(t *testing.T) {
	rows, err := ReadLongCSV(strings.NewReader(rawExportCSV))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "stu1", rows[0].StudentID)
	assert.Equal(t, RoleSentinel, rows[0].QuestionName)
	assert.Equal(t, "Attending", rows[0].QuestionChoiceText)
	assert.Equal(t, "3", rows[1].RatingSortOrder)
	assert.Equal(t, "Great diagnostic instincts", rows[2].TextAnswer)
	assert.Equal(t, "positive", rows[2].TextAnswerCategory)
}

func TestReadLongCSVHeaderCaseInsensitive(t *testing.T) {
	data := "STUDENT,FORMNAME,PHASENAME,ACADEMICYEARNAME,RELEASEDATE,QUESTIONNAME,QUESTIONCHOICETEXT,RATINGSCALEQUESTIONTEXT,RATING_ANSWER_SORTORDER,TEXT_ANSWER,TEXT_ANSWER_CATEGORY\n" +
		"stu1,Form,Phase,2023,3/2/23 0:00,Q,,,,,\n"
	rows, err := ReadLongCSV(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "stu1", rows[0].StudentID)
}

func TestReadLongCSVShortRows(t *testing.T) {
	data := "Student,FormName,PhaseName,AcademicYearName,ReleaseDate,QuestionName,QuestionChoiceText,RatingScaleQuestionText,Rating_Answer_SortOrder,Text_Answer,Text_Answer_Category\n" +
		"stu1,Form\n"
	rows, err := ReadLongCSV(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	// Missing trailing cells read as empty, not as an error.
	assert.Equal(t, "stu1", rows[0].StudentID)
	assert.Equal(t, "", rows[0].QuestionName)
}

func TestWriteRecordsCSVNullsStayEmpty(t *testing.T) {
	sch := schema.Default()
	rows := block("stu1", "Surgery CPA", "3/2/23 0:00", "Attending",
		model.RawRow{QuestionName: "EPA 2: Prioritize a differential diagnosis", RatingSortOrder: "3"},
	)
	records := New(sch).Clean(rows)
	require.Len(t, records, 1)

	var buf bytes.Buffer
	require.NoError(t, WriteRecordsCSV(&buf, records, sch))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	header := strings.Split(lines[0], ",")
	cells := strings.Split(lines[1], ",")
	require.Equal(t, len(header), len(cells))

	byCol := map[string]string{}
	for i, col := range header {
		byCol[col] = cells[i]
	}
	assert.Equal(t, "stu1", byCol["student_id"])
	assert.Equal(t, "2023-03-02", byCol["release_date"])
	assert.Equal(t, "3", byCol["epa2"])
	// Unanswered ratings serialize as empty cells, never 0.
	assert.Equal(t, "", byCol["epa1"])
	assert.Equal(t, "", byCol["prof_shows_dependability_truthfulness_and_integrity"])
}

func TestParseRecordsCSV(t *testing.T) {
	sch := schema.Default()
	data := "student_id,form_name,release_date,evaluator_role,epa2,epa3,strengths_comment\n" +
		"stu1,Surgery CPA,3/2/23,Attending,3,none,Great diagnostic instincts\n" +
		"stu2,Surgery CPA,2023-05-10,Resident,4.0,,\n"
	records, err := ParseRecordsCSV(strings.NewReader(data), sch)
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "stu1", first.StudentID)
	// Date cells normalize to ISO but keep the raw string for display.
	assert.Equal(t, "2023-03-02", first.ReleaseDate)
	assert.Equal(t, "3/2/23", first.ReleaseDateRaw)
	require.NotNil(t, first.EPA["epa2"])
	assert.Equal(t, 3, *first.EPA["epa2"])
	// "none" is a null token: the column stays null.
	v, ok := first.EPA["epa3"]
	require.True(t, ok)
	assert.Nil(t, v)

	second := records[1]
	assert.Equal(t, "2023-05-10", second.ReleaseDate)
	require.NotNil(t, second.EPA["epa2"])
	assert.Equal(t, 4, *second.EPA["epa2"]) // "4.0" coerces
	assert.Nil(t, second.EPA["epa3"])
}

func TestParseRecordsCSVNormalizesEveryAcceptedDateShape(t *testing.T) {
	sch := schema.Default()
	data := "student_id,form_name,release_date,evaluator_role\n" +
		"stu1,Surgery CPA,2023/3/2,Attending\n" +
		"stu2,Surgery CPA,2/3/2023,Attending\n" +
		"stu3,Surgery CPA,not a date,Attending\n"
	records, err := ParseRecordsCSV(strings.NewReader(data), sch)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "2023-03-02", records[0].ReleaseDate)
	// Month-first wins the M/D vs D/M ambiguity.
	assert.Equal(t, "2023-02-03", records[1].ReleaseDate)
	// Unreadable cells pass through for downstream fallbacks.
	assert.Equal(t, "not a date", records[2].ReleaseDate)
}

func TestCleanedRecordsSurviveWriteAndParse(t *testing.T) {
	sch := schema.Default()
	rows := block("stu1", "Surgery CPA", "3/2/23 0:00", "Attending",
		model.RawRow{QuestionName: "EPA 2: Prioritize a differential diagnosis", RatingSortOrder: "3"},
		model.RawRow{QuestionName: "Professionalism: rate the student",
			RatingScaleText: "Shows dependability, truthfulness and integrity", RatingSortOrder: "4"},
		model.RawRow{QuestionName: "Strengths", TextAnswer: "Great diagnostic instincts", TextAnswerCategory: "positive"},
	)
	cleaned := New(sch).Clean(rows)
	require.Len(t, cleaned, 1)

	var buf bytes.Buffer
	require.NoError(t, WriteRecordsCSV(&buf, cleaned, sch))
	parsed, err := ParseRecordsCSV(&buf, sch)
	require.NoError(t, err)
	require.Len(t, parsed, 1)

	// The raw export timestamp is not written to the flat table, so the
	// parsed record keeps the ISO cell as its display string instead.
	cleaned[0].ReleaseDateRaw = ""
	parsed[0].ReleaseDateRaw = ""
	if diff := cmp.Diff(cleaned[0], parsed[0]); diff != "" {
		t.Errorf("record changed across write/parse (-cleaned +parsed):\n%s", diff)
	}
}

func TestParseRecordsCSVSkipsRaggedRows(t *testing.T) {
	data := "student_id,form_name,release_date\n" +
		"stu1,Surgery CPA\n" +
		"stu2,Surgery CPA,2023-05-10\n"
	records, err := ParseRecordsCSV(strings.NewReader(data), schema.Default())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "stu2", records[0].StudentID)
}
