package inference

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// Providers answer with a handful of shapes: a list of entities, a nested
// list (batch of one), a flat or nested numeric array, or an error object.
// Everything here classifies by the leading JSON token first and decodes
// into the matching variant, so no caller ever inspects raw payloads.

func leadingToken(body []byte) byte {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

// providerError is the error-object variant: {"error": "...", "estimated_time": 20.0}
type providerError struct {
	Message       string
	EstimatedTime float64
}

func (p providerError) estimatedDuration() time.Duration {
	if p.EstimatedTime <= 0 {
		return 0
	}
	return time.Duration(p.EstimatedTime * float64(time.Second))
}

// decodeProviderError reports whether body is an error object and returns its contents.
func decodeProviderError(body []byte) (providerError, bool) {
	if leadingToken(body) != '{' {
		return providerError{}, false
	}
	var raw struct {
		Error         json.RawMessage `json:"error"`
		EstimatedTime float64         `json:"estimated_time"`
	}
	if err := json.Unmarshal(body, &raw); err != nil || len(raw.Error) == 0 {
		return providerError{}, false
	}

	// "error" is either a string or a list of strings.
	var msg string
	if err := json.Unmarshal(raw.Error, &msg); err != nil {
		var msgs []string
		if err := json.Unmarshal(raw.Error, &msgs); err == nil {
			msg = strings.Join(msgs, "; ")
		} else {
			msg = string(raw.Error)
		}
	}
	return providerError{Message: msg, EstimatedTime: raw.EstimatedTime}, true
}

type rawEntity struct {
	EntityGroup string  `json:"entity_group"`
	Entity      string  `json:"entity"` // set instead of entity_group when no aggregation was applied
	Word        string  `json:"word"`
	Score       float64 `json:"score"`
}

func (r rawEntity) toEntity() Entity {
	label := r.EntityGroup
	if label == "" {
		label = r.Entity
	}
	return Entity{
		Text:  r.Word,
		Label: ParseLabel(label),
		Score: r.Score,
	}
}

// decodeEntities decodes a token-classification payload.
func decodeEntities(body []byte) ([]Entity, error) {
	switch leadingToken(body) {
	case '[':
	case '{':
		if perr, ok := decodeProviderError(body); ok {
			return nil, &DecodeError{Message: "provider returned error: " + perr.Message}
		}
		return nil, &DecodeError{Message: "unexpected object payload for entities"}
	default:
		return nil, &DecodeError{Message: "unexpected entity payload"}
	}

	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, &DecodeError{Message: "invalid entity list", Cause: err}
	}
	if len(items) == 0 {
		return []Entity{}, nil
	}

	// Batch shape: [[{...}, {...}]] for a single input.
	if leadingToken(items[0]) == '[' {
		var batch [][]rawEntity
		if err := json.Unmarshal(body, &batch); err != nil {
			return nil, &DecodeError{Message: "invalid batched entity list", Cause: err}
		}
		entities := make([]Entity, 0, len(batch[0]))
		for _, r := range batch[0] {
			entities = append(entities, r.toEntity())
		}
		return entities, nil
	}

	var flat []rawEntity
	if err := json.Unmarshal(body, &flat); err != nil {
		return nil, &DecodeError{Message: "invalid entity list", Cause: err}
	}
	entities := make([]Entity, 0, len(flat))
	for _, r := range flat {
		entities = append(entities, r.toEntity())
	}
	return entities, nil
}

// decodeVector decodes a feature-extraction payload into one flat vector.
// Batch-shaped payloads for a single input are unwrapped; token-level
// payloads are mean-pooled.
func decodeVector(body []byte) ([]float64, error) {
	switch leadingToken(body) {
	case '[':
		return decodeNumericArray(body)
	case '{':
		return decodeVectorObject(body)
	default:
		return nil, &DecodeError{Message: "unexpected embedding payload"}
	}
}

func decodeNumericArray(body []byte) ([]float64, error) {
	var flat []float64
	if err := json.Unmarshal(body, &flat); err == nil {
		return flat, nil
	}

	var batch [][]float64
	if err := json.Unmarshal(body, &batch); err == nil {
		if len(batch) == 0 {
			return nil, nil
		}
		return batch[0], nil
	}

	var tokens [][][]float64
	if err := json.Unmarshal(body, &tokens); err == nil {
		if len(tokens) == 0 {
			return nil, nil
		}
		return meanPool(tokens[0]), nil
	}

	return nil, &DecodeError{Message: "embedding array is neither a vector nor a batch"}
}

// decodeVectorObject handles OpenAI-compatible ({"data":[{"embedding":[...]}]})
// and Ollama-style ({"embedding":[...]}) objects as well as error objects.
func decodeVectorObject(body []byte) ([]float64, error) {
	if perr, ok := decodeProviderError(body); ok {
		return nil, &DecodeError{Message: "provider returned error: " + perr.Message}
	}

	var out struct {
		Data []struct {
			Embedding []float64 `json:"embedding"`
		} `json:"data"`
		Embedding []float64 `json:"embedding"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &DecodeError{Message: "invalid embedding object", Cause: err}
	}
	if len(out.Data) > 0 && len(out.Data[0].Embedding) > 0 {
		return out.Data[0].Embedding, nil
	}
	if len(out.Embedding) > 0 {
		return out.Embedding, nil
	}
	return nil, &DecodeError{Message: "embedding object has no vector"}
}

func meanPool(rows [][]float64) []float64 {
	if len(rows) == 0 {
		return nil
	}
	dim := len(rows[0])
	out := make([]float64, dim)
	n := 0
	for _, row := range rows {
		if len(row) != dim {
			continue
		}
		for i, v := range row {
			out[i] += v
		}
		n++
	}
	for i := range out {
		out[i] /= float64(n)
	}
	return out
}
