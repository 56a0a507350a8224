package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cpainsight/internal/model"
)

func TestBuildQuery(t *testing.T) {
	defer func() { analyzeFlags.competency = ""; analyzeFlags.temporal = false }()

	analyzeFlags.competency = ""
	analyzeFlags.temporal = false
	assert.Equal(t, model.QueryGeneralPerformance, buildQuery().QueryType)

	analyzeFlags.temporal = true
	q := buildQuery()
	assert.Equal(t, model.QueryTemporal, q.QueryType)
	assert.True(t, q.TemporalDimension)

	// A competency focus outranks the temporal query type but keeps the flag.
	analyzeFlags.competency = "communication"
	q = buildQuery()
	assert.Equal(t, model.QueryCompetencyFocus, q.QueryType)
	assert.Equal(t, "communication", q.CompetencyFocus)
	assert.True(t, q.TemporalDimension)
}
