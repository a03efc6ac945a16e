package inference

import (
	"context"
	"log"
	"strings"
)

// EntityLabel is the coarse category of a recognized entity
type EntityLabel string

// Entity labels. Anything the provider emits outside ORG/LOC/PER is LabelOther.
const (
	LabelOrganization EntityLabel = "ORG"
	LabelLocation     EntityLabel = "LOC"
	LabelPerson       EntityLabel = "PER"
	LabelOther        EntityLabel = "OTHER"
)

// ParseLabel maps a provider label (with or without a B-/I- prefix) to an EntityLabel.
func ParseLabel(raw string) EntityLabel {
	label := strings.ToUpper(strings.TrimSpace(raw))
	label = strings.TrimPrefix(label, "B-")
	label = strings.TrimPrefix(label, "I-")
	switch label {
	case "ORG":
		return LabelOrganization
	case "LOC":
		return LabelLocation
	case "PER":
		return LabelPerson
	default:
		return LabelOther
	}
}

// Entity is a span of text labeled by the recognition model
type Entity struct {
	Text  string      `json:"text"`
	Label EntityLabel `json:"label"`
	Score float64     `json:"score,omitempty"`
}

// EntitySource recognizes named entities in text.
//
// Implementations return ErrAllEndpointsUnavailable when the capability is gone,
// a *RetryableError when the caller should try again later, and a *FatalError
// for any other provider failure.
type EntitySource interface {
	RecognizeEntities(ctx context.Context, text string) ([]Entity, error)
}

type nerRequest struct {
	Inputs     string        `json:"inputs"`
	Parameters nerParameters `json:"parameters"`
}

type nerParameters struct {
	AggregationStrategy string `json:"aggregation_strategy"`
}

// RemoteEntitySource calls a token-classification model over an endpoint list.
type RemoteEntitySource struct {
	client    *Client
	endpoints []string
}

// NewEntitySource creates an entity source that tries endpoints in order.
func NewEntitySource(client *Client, endpoints []string) *RemoteEntitySource {
	if len(endpoints) == 0 {
		endpoints = DefaultEntityEndpoints()
	}
	return &RemoteEntitySource{client: client, endpoints: endpoints}
}

// RecognizeEntities implements EntitySource.
func (s *RemoteEntitySource) RecognizeEntities(ctx context.Context, text string) ([]Entity, error) {
	outcome := s.client.Call(ctx, s.endpoints, nerRequest{
		Inputs:     text,
		Parameters: nerParameters{AggregationStrategy: "simple"},
	})
	if outcome.Kind != OutcomeSuccess {
		log.Printf("[inference] Entity recognition %s: %v", outcome.Kind, outcome.Err())
		return nil, outcome.Err()
	}

	entities, err := decodeEntities(outcome.Body)
	if err != nil {
		return nil, &FatalError{
			Endpoint: outcome.Endpoint,
			Status:   outcome.Status,
			Message:  "undecodable entity response",
			Cause:    err,
		}
	}
	return entities, nil
}
