package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrengthForScore(t *testing.T) {
	tests := []struct {
		score    float64
		expected Strength
	}{
		{1.0, StrengthStrong},
		{0.71, StrengthStrong},
		{0.7, StrengthModerate},
		{0.51, StrengthModerate},
		{0.5, StrengthWeak},
		{0.111, StrengthWeak},
		{0, StrengthWeak},
		{-0.3, StrengthWeak},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, StrengthForScore(tt.score), "score %v", tt.score)
	}
}

func TestSkillExtraction_JSONOmitsEmptyNote(t *testing.T) {
	ext := SkillExtraction{
		Skills:        []string{"Go"},
		Organizations: []string{},
		Locations:     []string{},
		Persons:       []string{},
		TotalEntities: 3,
	}

	jsonBytes, err := json.Marshal(ext)
	require.NoError(t, err)
	assert.NotContains(t, string(jsonBytes), "note")
	assert.NotContains(t, string(jsonBytes), "degraded")
	assert.Contains(t, string(jsonBytes), `"total_entities":3`)
}

func TestSkillAnalysis_Score(t *testing.T) {
	analysis := &SkillAnalysis{
		CategoryScores: []CategoryScore{
			{Category: "Frontend", Score: 0.125, Strength: StrengthWeak, Method: MethodKeyword},
			{Category: "Backend", Score: 0.8, Strength: StrengthStrong, Method: MethodEmbedding},
		},
	}

	cs, ok := analysis.Score("Backend")
	require.True(t, ok)
	assert.Equal(t, 0.8, cs.Score)
	assert.Equal(t, MethodEmbedding, cs.Method)

	_, ok = analysis.Score("Databases")
	assert.False(t, ok)
}
