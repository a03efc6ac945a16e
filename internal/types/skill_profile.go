// Package types provides type definitions for structured data used throughout the resume-analyzer system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Strength is the coarse label derived from a category score
type Strength string

// Strength labels, from strongest to weakest
const (
	StrengthStrong   Strength = "Strong"
	StrengthModerate Strength = "Moderate"
	StrengthWeak     Strength = "Weak"
)

const (
	strongThreshold   = 0.7
	moderateThreshold = 0.5
)

// StrengthForScore maps a score to its strength label. The thresholds are the
// same whichever scoring method produced the score.
func StrengthForScore(score float64) Strength {
	switch {
	case score > strongThreshold:
		return StrengthStrong
	case score > moderateThreshold:
		return StrengthModerate
	default:
		return StrengthWeak
	}
}

// ScoringMethod records how a category score was produced
type ScoringMethod string

const (
	// MethodEmbedding is cosine similarity between skill-set embeddings
	MethodEmbedding ScoringMethod = "embedding"
	// MethodKeyword is the keyword-overlap ratio used when embeddings are unavailable
	MethodKeyword ScoringMethod = "keyword"
)

// SkillExtraction is the result of extracting skills and entities from résumé text
type SkillExtraction struct {
	Skills        []string `json:"skills"`
	Organizations []string `json:"organizations"`
	Locations     []string `json:"locations"`
	Persons       []string `json:"persons"`
	TotalEntities int      `json:"total_entities"`
	Degraded      bool     `json:"degraded,omitempty"` // true when only pattern matching was used
	Note          string   `json:"note,omitempty"`
}

// CategoryScore is the score of a skill set against one taxonomy category
type CategoryScore struct {
	Category string        `json:"category"`
	Score    float64       `json:"score"`
	Strength Strength      `json:"strength"`
	Method   ScoringMethod `json:"method"`
}

// SkillAnalysis is the categorical analysis of a skill set.
// CategoryScores follows the taxonomy declaration order.
type SkillAnalysis struct {
	CategoryScores      []CategoryScore `json:"category_scores"`
	TopCategories       []CategoryScore `json:"top_categories"`
	RecommendedSkills   []string        `json:"recommended_skills"`
	TotalSkillsAnalyzed int             `json:"total_skills_analyzed"`
}

// Score returns the score for the named category and whether it exists
func (a *SkillAnalysis) Score(category string) (CategoryScore, bool) {
	for _, cs := range a.CategoryScores {
		if cs.Category == category {
			return cs, true
		}
	}
	return CategoryScore{}, false
}
