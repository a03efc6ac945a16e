package skills

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/jonathan/resume-analyzer/internal/inference"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// DegradedNote is attached to extractions produced without entity recognition.
const DegradedNote = "Entity recognition is unavailable; skills were extracted with pattern matching only"

// Extractor turns résumé text into skills and named entities.
type Extractor struct {
	entities inference.EntitySource
}

// NewExtractor creates an Extractor. A nil source means pattern matching only.
func NewExtractor(entities inference.EntitySource) *Extractor {
	return &Extractor{entities: entities}
}

// ExtractSkills extracts skills, organizations, locations and persons from text.
//
// A *inference.RetryableError from the entity source is returned unchanged,
// as is cancellation of ctx. Any other entity-source failure switches to
// pattern-only extraction.
func (e *Extractor) ExtractSkills(ctx context.Context, text string) (*types.SkillExtraction, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &ErrEmptyInput{Field: "text"}
	}

	if e.entities == nil {
		return extractByPattern(text), nil
	}

	entities, err := e.entities.RecognizeEntities(ctx, text)
	if err != nil {
		if inference.IsRetryable(err) {
			return nil, err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if errors.Is(err, inference.ErrAllEndpointsUnavailable) {
			log.Printf("[skills] Entity recognition unavailable on every endpoint, using pattern extraction")
		} else {
			log.Printf("[skills] Entity recognition failed, using pattern extraction: %v", err)
		}
		return extractByPattern(text), nil
	}

	result := &types.SkillExtraction{
		Skills:        []string{},
		Organizations: []string{},
		Locations:     []string{},
		Persons:       []string{},
		TotalEntities: len(entities),
	}

	for _, ent := range entities {
		switch ent.Label {
		case inference.LabelOrganization:
			result.Organizations = appendUnique(result.Organizations, ent.Text)
		case inference.LabelLocation:
			result.Locations = appendUnique(result.Locations, ent.Text)
		case inference.LabelPerson:
			result.Persons = appendUnique(result.Persons, ent.Text)
		}

		if containsSkillKeyword(ent.Text) {
			result.Skills = appendUnique(result.Skills, ent.Text)
		}
	}

	for _, match := range matchPatterns(text) {
		result.Skills = appendUnique(result.Skills, match)
	}

	return result, nil
}

// extractByPattern builds a degraded extraction from the pattern library alone.
func extractByPattern(text string) *types.SkillExtraction {
	found := []string{}
	for _, match := range matchPatterns(text) {
		found = appendUnique(found, match)
	}
	return &types.SkillExtraction{
		Skills:        found,
		Organizations: []string{},
		Locations:     []string{},
		Persons:       []string{},
		TotalEntities: len(found),
		Degraded:      true,
		Note:          DegradedNote,
	}
}

// matchPatterns returns every pattern match in text, in pattern order.
func matchPatterns(text string) []string {
	var matches []string
	for _, re := range skillPatterns {
		matches = append(matches, re.FindAllString(text, -1)...)
	}
	return matches
}

func containsSkillKeyword(entityText string) bool {
	lower := strings.ToLower(entityText)
	for _, kw := range skillKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// appendUnique appends s unless an identical string is already present.
// The comparison is exact, so "AWS" and "aws" are distinct entries.
func appendUnique(list []string, s string) []string {
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}
