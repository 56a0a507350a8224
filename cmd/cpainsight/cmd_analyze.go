package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"cpainsight/internal/analysis"
	"cpainsight/internal/cleaner"
	"cpainsight/internal/memory"
	"cpainsight/internal/model"
	"cpainsight/internal/service"
)

var analyzeFlags struct {
	input      string
	raw        bool
	schema     string
	student    string
	all        bool
	temporal   bool
	competency string
	rotations  []string
	epas       []string
	top        int
	question   string
	output     string
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score competency trends for one student or the whole cohort",
	RunE:  runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVarP(&analyzeFlags.input, "input", "i", "", "Cleaned CSV path, or - for stdin (required)")
	f.BoolVar(&analyzeFlags.raw, "raw", false, "Treat input as a raw long-format export and clean it first")
	f.StringVar(&analyzeFlags.schema, "schema", "", "YAML schema override")
	f.StringVar(&analyzeFlags.student, "student", "", "Student ID to analyze")
	f.BoolVar(&analyzeFlags.all, "all", false, "Analyze every student in the file")
	f.BoolVar(&analyzeFlags.temporal, "temporal", false, "Include temporal progression analysis")
	f.StringVar(&analyzeFlags.competency, "competency", "", "Competency focus (e.g. clinical_reasoning, communication)")
	f.StringSliceVar(&analyzeFlags.rotations, "rotation", nil, "Restrict text analysis to these rotations")
	f.StringSliceVar(&analyzeFlags.epas, "epa", nil, "Restrict numeric analysis to these EPA fields")
	f.IntVar(&analyzeFlags.top, "top", 0, "Cap strengths and improvements at N patterns each")
	f.StringVar(&analyzeFlags.question, "question", "", "Free-text question to answer in the narrative")
	f.StringVarP(&analyzeFlags.output, "output", "o", "", "Output JSON path (default stdout)")

	_ = analyzeCmd.MarkFlagRequired("input")
	analyzeCmd.MarkFlagsOneRequired("student", "all")
	analyzeCmd.MarkFlagsMutuallyExclusive("student", "all")
}

// studentReport is one student's slice of the analyze output.
type studentReport struct {
	StudentID string                     `json:"studentId"`
	Narrative string                     `json:"narrative"`
	Summary   *model.ConsolidatedSummary `json:"summary"`
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	sch, err := loadSchema(analyzeFlags.schema)
	if err != nil {
		return err
	}

	in, err := openInput(analyzeFlags.input)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	store := memory.NewMemStore()
	ingestSvc := service.NewIngestService(cleaner.New(sch), store)
	ctx := cmd.Context()

	var records []model.EvaluationRecord
	if analyzeFlags.raw {
		rows, err := cleaner.ReadLongCSV(in)
		if err != nil {
			return fmt.Errorf("read export: %w", err)
		}
		records, err = ingestSvc.Ingest(ctx, rows)
		if err != nil {
			return err
		}
	} else {
		records, err = cleaner.ParseRecordsCSV(in, sch)
		if err != nil {
			return fmt.Errorf("read cleaned csv: %w", err)
		}
		if err := ingestSvc.Load(ctx, records); err != nil {
			return err
		}
	}

	students := service.Students(records)
	if !analyzeFlags.all {
		students = []string{analyzeFlags.student}
	}

	query := buildQuery()
	analysisSvc := service.NewAnalysisService(store, analysis.NewNumericAnalyzer(), analysis.NewTextAnalyzer())
	narrativeSvc := service.NewNarrativeService()

	var (
		mu      sync.Mutex
		reports = make([]studentReport, 0, len(students))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, id := range students {
		id := id
		g.Go(func() error {
			summary, err := analysisSvc.Analyze(gctx, id, query)
			if err != nil {
				return fmt.Errorf("analyze %s: %w", id, err)
			}
			narrative, err := narrativeSvc.Narrate(gctx, summary, analyzeFlags.question)
			if err != nil {
				return fmt.Errorf("narrate %s: %w", id, err)
			}
			mu.Lock()
			reports = append(reports, studentReport{StudentID: id, Narrative: narrative, Summary: summary})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// Concurrent completion order is arbitrary; restore input order.
	order := make(map[string]int, len(students))
	for i, id := range students {
		order[id] = i
	}
	sort.Slice(reports, func(i, j int) bool {
		return order[reports[i].StudentID] < order[reports[j].StudentID]
	})

	out, closeOut, err := openOutput(analyzeFlags.output, cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(reports); err != nil {
		closeOut()
		return fmt.Errorf("write report: %w", err)
	}
	return closeOut()
}

func buildQuery() model.StructuredQuery {
	query := model.StructuredQuery{
		QueryType:         model.QueryGeneralPerformance,
		CompetencyFocus:   analyzeFlags.competency,
		TemporalDimension: analyzeFlags.temporal,
		RotationFilters:   analyzeFlags.rotations,
		EPAFilters:        analyzeFlags.epas,
		TopRequested:      analyzeFlags.top,
	}
	switch {
	case analyzeFlags.competency != "":
		query.QueryType = model.QueryCompetencyFocus
	case analyzeFlags.temporal:
		query.QueryType = model.QueryTemporal
	}
	return query
}
