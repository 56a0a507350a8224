package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"cpainsight/internal/config"
	"cpainsight/internal/model"
)

// NarrativeService turns a consolidated analysis into readable prose via the
// Gemini API. When no API key is configured, or the call fails, it falls
// back to a deterministic template so the pipeline never depends on the
// external service being up.
type NarrativeService struct {
	config *config.AIConfig
	client *http.Client
}

// NewNarrativeService creates a narrative service.
func NewNarrativeService() *NarrativeService {
	cfg := config.DefaultAIConfig()
	return &NarrativeService{
		config: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
	}
}

// Narrate renders the summary as prose answering the user's question.
func (s *NarrativeService) Narrate(ctx context.Context, summary *model.ConsolidatedSummary, userQuery string) (string, error) {
	if !s.config.IsEnabled() {
		return s.fallbackNarrative(summary), nil
	}

	prompt := s.buildNarrativePrompt(summary, userQuery)
	response, err := s.callGemini(ctx, s.config.Models.Narrative, prompt)
	if err != nil {
		// Fallback on error
		return s.fallbackNarrative(summary), nil
	}

	var out struct {
		Narrative string `json:"narrative"`
	}
	if err := json.Unmarshal([]byte(response), &out); err != nil || out.Narrative == "" {
		return s.fallbackNarrative(summary), nil
	}
	return out.Narrative, nil
}

// fallbackNarrative assembles a plain-language summary without any external
// service: top field averages, the temporal verdict, and the highest
// confidence patterns.
func (s *NarrativeService) fallbackNarrative(summary *model.ConsolidatedSummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Summary for %s.", summary.StudentID)

	if avgLine := fieldAverageLine(summary.Numeric.ByEPA, "EPA"); avgLine != "" {
		b.WriteString(" " + avgLine)
	}

	if t := summary.Numeric.Temporal; t.Performed {
		if t.InsufficientData {
			b.WriteString(" Insufficient data for temporal analysis.")
		} else if t.EPAProgression != nil && t.EPAProgression.EarlyAvg != nil {
			fmt.Fprintf(&b, " Reasoning EPAs moved from %.2f to %.2f over %d evaluations (%s).",
				*t.EPAProgression.EarlyAvg, *t.EPAProgression.RecentAvg,
				t.TotalEvaluations, t.EPAProgression.Direction)
		}
	}

	for _, p := range topPatterns(summary.Text.Strengths, 2) {
		fmt.Fprintf(&b, " Strength: %s [%s, %s].", p.Text, p.Confidence.Level, p.Confidence.Description)
	}
	for _, p := range topPatterns(summary.Text.Improvements, 2) {
		fmt.Fprintf(&b, " Area to improve: %s [%s, %s].", p.Text, p.Confidence.Level, p.Confidence.Description)
	}

	return b.String()
}

func fieldAverageLine(stats map[string]model.FieldStats, label string) string {
	if len(stats) == 0 {
		return ""
	}
	fields := make([]string, 0, len(stats))
	for f := range stats {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s %.2f (n=%d)", f, stats[f].WeightedAvg, stats[f].Count))
	}
	return label + " weighted averages: " + strings.Join(parts, ", ") + "."
}

func topPatterns(patterns []model.Pattern, n int) []model.Pattern {
	if len(patterns) > n {
		return patterns[:n]
	}
	return patterns
}

func (s *NarrativeService) buildNarrativePrompt(summary *model.ConsolidatedSummary, userQuery string) string {
	data, _ := json.Marshal(summary)
	return fmt.Sprintf(`You are summarizing a medical student's competency assessment analysis for their advisor.
Return ONLY valid JSON: {"narrative": "2-4 paragraph answer"}

Ground every claim in the analysis below; cite confidence levels for qualitative patterns
and do not invent numbers. Weighted averages already down-weight older evaluations.

Advisor's question: %s

Analysis:
%s`, userQuery, data)
}

// callGemini makes a request to the Gemini API
func (s *NarrativeService) callGemini(ctx context.Context, modelName, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"responseMimeType": "application/json",
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s?key=%s", s.config.ModelEndpoint(modelName), s.config.APIKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	// Parse Gemini response structure
	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", err
	}

	if len(geminiResp.Candidates) > 0 && len(geminiResp.Candidates[0].Content.Parts) > 0 {
		return geminiResp.Candidates[0].Content.Parts[0].Text, nil
	}

	return "", fmt.Errorf("empty response from Gemini")
}
