package skills

import (
	"context"
	"log"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-analyzer/internal/inference"
	"github.com/jonathan/resume-analyzer/internal/types"
)

const (
	// Categories scoring below these thresholds contribute recommendations.
	// Keyword overlap ratios run lower than cosine similarities, hence two values.
	embeddingRecommendThreshold = 0.7
	keywordRecommendThreshold   = 0.5

	recommendationsPerCategory = 2
	maxRecommendations         = 10
	topCategoryCount           = 3
)

// Analyzer scores a skill set against the skill taxonomy.
type Analyzer struct {
	embeddings inference.EmbeddingSource
}

// NewAnalyzer creates an Analyzer. A nil source means keyword overlap only.
func NewAnalyzer(embeddings inference.EmbeddingSource) *Analyzer {
	return &Analyzer{embeddings: embeddings}
}

// AnalyzeSkills scores skillList against every category, picks the top
// categories and recommends missing reference skills.
func (a *Analyzer) AnalyzeSkills(ctx context.Context, skillList []string) (*types.SkillAnalysis, error) {
	if !hasNonBlank(skillList) {
		return nil, &ErrEmptyInput{Field: "skills list"}
	}

	owned := make(map[string]bool, len(skillList))
	for _, s := range skillList {
		owned[normalizeSkill(s)] = true
	}

	categoryVectors, userVector := a.embedAll(ctx, skillList)

	scores := make([]types.CategoryScore, len(taxonomy))
	var recommended []string
	for i, cat := range taxonomy {
		score, method := keywordOverlap(cat, owned), types.MethodKeyword
		if sim, ok := cosineSimilarity(userVector, categoryVectors[i]); ok {
			score, method = clamp01(sim), types.MethodEmbedding
		}

		scores[i] = types.CategoryScore{
			Category: cat.Name,
			Score:    score,
			Strength: types.StrengthForScore(score),
			Method:   method,
		}

		threshold := keywordRecommendThreshold
		if method == types.MethodEmbedding {
			threshold = embeddingRecommendThreshold
		}
		if score < threshold {
			recommended = append(recommended, missingSkills(cat, owned, recommendationsPerCategory)...)
		}
	}

	return &types.SkillAnalysis{
		CategoryScores:      scores,
		TopCategories:       topCategories(scores, topCategoryCount),
		RecommendedSkills:   dedupeCapped(recommended, maxRecommendations),
		TotalSkillsAnalyzed: len(skillList),
	}, nil
}

// embedAll embeds the user skill set and, if that succeeded, every category
// concurrently. Missing vectors are nil; callers fall back per category.
func (a *Analyzer) embedAll(ctx context.Context, skillList []string) ([][]float64, []float64) {
	categoryVectors := make([][]float64, len(taxonomy))
	if a.embeddings == nil {
		return categoryVectors, nil
	}

	userVector, ok := vectorOf(a.embeddings.Embed(ctx, strings.Join(skillList, " ")))
	if !ok {
		log.Printf("[skills] Skill-set embedding unavailable, scoring all categories by keyword overlap")
		return categoryVectors, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, cat := range taxonomy {
		g.Go(func() error {
			if vec, ok := vectorOf(a.embeddings.Embed(gctx, strings.Join(cat.Skills, " "))); ok {
				categoryVectors[i] = vec
			} else {
				log.Printf("[skills] Embedding unavailable for %q, using keyword overlap", cat.Name)
			}
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	return categoryVectors, userVector
}

// vectorOf unwraps a usable (non-empty) vector from an Embedding.
func vectorOf(e inference.Embedding) ([]float64, bool) {
	switch v := e.(type) {
	case inference.Vector:
		return v, len(v) > 0
	case inference.Unavailable:
		return nil, false
	default:
		return nil, false
	}
}

// keywordOverlap is the share of the category's reference skills the user has.
func keywordOverlap(cat Category, owned map[string]bool) float64 {
	if len(cat.Skills) == 0 {
		return 0
	}
	matched := 0
	for _, s := range cat.Skills {
		if owned[normalizeSkill(s)] {
			matched++
		}
	}
	return float64(matched) / float64(len(cat.Skills))
}

// missingSkills returns up to limit reference skills the user lacks, in declaration order.
func missingSkills(cat Category, owned map[string]bool, limit int) []string {
	var missing []string
	for _, s := range cat.Skills {
		if len(missing) == limit {
			break
		}
		if !owned[normalizeSkill(s)] {
			missing = append(missing, s)
		}
	}
	return missing
}

// topCategories sorts by score descending, keeping declaration order for ties.
func topCategories(scores []types.CategoryScore, n int) []types.CategoryScore {
	sorted := append([]types.CategoryScore(nil), scores...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func dedupeCapped(items []string, limit int) []string {
	out := make([]string, 0, min(len(items), limit))
	seen := make(map[string]bool, len(items))
	for _, s := range items {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
		if len(out) == limit {
			break
		}
	}
	return out
}

func normalizeSkill(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func hasNonBlank(list []string) bool {
	for _, s := range list {
		if strings.TrimSpace(s) != "" {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	return max(0, min(1, v))
}
