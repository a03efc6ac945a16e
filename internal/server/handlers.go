package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-analyzer/internal/ingestion"
	"github.com/jonathan/resume-analyzer/internal/types"
	requestschemas "github.com/jonathan/resume-analyzer/schemas"
)

var requestValidator = validator.New()

// UploadResponse is the body of a successful POST /upload-resume
type UploadResponse struct {
	Success    bool   `json:"success"`
	Filename   string `json:"filename"`
	Text       string `json:"text"`
	TextLength int    `json:"text_length"`
}

// ExtractRequest is the body of POST /extract-skills
type ExtractRequest struct {
	Text string `json:"text" validate:"required"`
}

// ExtractResponse is the body of a successful POST /extract-skills
type ExtractResponse struct {
	Success       bool     `json:"success"`
	Skills        []string `json:"skills"`
	Organizations []string `json:"organizations"`
	Locations     []string `json:"locations"`
	Persons       []string `json:"persons"`
	TotalEntities int      `json:"total_entities"`
	Note          string   `json:"note,omitempty"`
}

// AnalyzeRequest is the body of POST /analyze-skills
type AnalyzeRequest struct {
	Skills []string `json:"skills" validate:"required,min=1"`
}

// AnalyzeResponse is the body of a successful POST /analyze-skills
type AnalyzeResponse struct {
	Success             bool             `json:"success"`
	CategoryAnalysis    CategoryAnalysis `json:"category_analysis"`
	TopCategories       []TopCategory    `json:"top_categories"`
	RecommendedSkills   []string         `json:"recommended_skills"`
	TotalSkillsAnalyzed int              `json:"total_skills_analyzed"`
}

// CategoryResult is one entry of category_analysis
type CategoryResult struct {
	Score    float64             `json:"score"`
	Strength types.Strength      `json:"strength"`
	Method   types.ScoringMethod `json:"method"`
}

// TopCategory is one entry of top_categories
type TopCategory struct {
	Category string  `json:"category"`
	Score    float64 `json:"score"`
}

// CategoryAnalysis is a JSON object keyed by category name that keeps the
// taxonomy order when encoded.
type CategoryAnalysis []types.CategoryScore

// MarshalJSON implements json.Marshaler.
func (c CategoryAnalysis) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, cs := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(cs.Category)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(CategoryResult{Score: round3(cs.Score), Strength: cs.Strength, Method: cs.Method})
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// handleRoot reports that the API is up
func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "Resume Analysis API is running!"})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// handleUploadResume extracts the text of an uploaded PDF, DOCX or HTML résumé
func (s *Server) handleUploadResume(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, err)
			return
		}
		s.writeError(w, r, &ErrValidation{Field: "file", Message: "Request must be multipart/form-data with a file field"})
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, r, &ErrValidation{Field: "file", Message: "File is required"})
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("failed to read upload: %w", err))
		return
	}

	text, err := ingestion.ExtractText(header.Filename, data)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, UploadResponse{
		Success:    true,
		Filename:   header.Filename,
		Text:       text,
		TextLength: utf8.RuneCountInString(text),
	})
}

// handleExtractSkills extracts skills and named entities from résumé text
func (s *Server) handleExtractSkills(w http.ResponseWriter, r *http.Request) {
	var req ExtractRequest
	if err := s.decodeRequest(w, r, requestschemas.ExtractRequest, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.extractor.ExtractSkills(r.Context(), req.Text)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, ExtractResponse{
		Success:       true,
		Skills:        result.Skills,
		Organizations: result.Organizations,
		Locations:     result.Locations,
		Persons:       result.Persons,
		TotalEntities: result.TotalEntities,
		Note:          result.Note,
	})
}

// handleAnalyzeSkills scores a skill list against the skill categories
func (s *Server) handleAnalyzeSkills(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := s.decodeRequest(w, r, requestschemas.AnalyzeRequest, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	analysis, err := s.analyzer.AnalyzeSkills(r.Context(), req.Skills)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	top := make([]TopCategory, 0, len(analysis.TopCategories))
	for _, cs := range analysis.TopCategories {
		top = append(top, TopCategory{Category: cs.Category, Score: round3(cs.Score)})
	}

	s.jsonResponse(w, http.StatusOK, AnalyzeResponse{
		Success:             true,
		CategoryAnalysis:    CategoryAnalysis(analysis.CategoryScores),
		TopCategories:       top,
		RecommendedSkills:   analysis.RecommendedSkills,
		TotalSkillsAnalyzed: analysis.TotalSkillsAnalyzed,
	})
}

// decodeRequest reads a size-limited JSON body, validates it against the
// named schema and decodes it into dst.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request, schemaName string, dst any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxUploadBytes))
	if err != nil {
		return err
	}
	if err := s.validator.Validate(schemaName, body); err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return &ErrValidation{Field: "body", Message: "Invalid JSON request body"}
	}
	return validateStruct(dst)
}

// validateStruct applies the request's validate tags, reporting the first failure.
func validateStruct(req any) error {
	err := requestValidator.Struct(req)
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	fe := fieldErrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return &ErrValidation{Field: field, Message: field + " is required"}
	case "min":
		return &ErrValidation{Field: field, Message: fmt.Sprintf("%s must contain at least %s entry", field, fe.Param())}
	default:
		return &ErrValidation{Field: field, Message: fmt.Sprintf("%s is invalid", field)}
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
