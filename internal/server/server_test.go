package server

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonathan/resume-analyzer/internal/inference"
	"github.com/jonathan/resume-analyzer/internal/server/ratelimit"
	"github.com/jonathan/resume-analyzer/internal/skills"
	"github.com/jonathan/resume-analyzer/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubExtractor struct {
	result *types.SkillExtraction
	err    error
}

func (s stubExtractor) ExtractSkills(_ context.Context, _ string) (*types.SkillExtraction, error) {
	return s.result, s.err
}

type stubAnalyzer struct {
	err error
}

func (s stubAnalyzer) AnalyzeSkills(_ context.Context, _ []string) (*types.SkillAnalysis, error) {
	return nil, s.err
}

type closeRecorder struct{ closed bool }

func (c *closeRecorder) Close() error {
	c.closed = true
	return nil
}

// newTestServer builds a server over the pattern-only extractor and the
// keyword-only analyzer, with rate limiting off.
func newTestServer(t *testing.T, opts ...func(*Config)) *Server {
	t.Helper()
	cfg := Config{
		AllowedOrigins: []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		MaxUploadBytes: 1 << 20,
		RateLimit:      &ratelimit.Config{Enabled: false},
		Extractor:      skills.NewExtractor(nil),
		Analyzer:       skills.NewAnalyzer(nil),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	s, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(s.rateLimiter.Stop)
	return s
}

func doJSON(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "body: %s", w.Body.String())
	return resp
}

func buildDocx(t *testing.T, paragraph string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := map[string]string{
		"[Content_Types].xml":          `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
			`<w:p><w:r><w:t>` + paragraph + `</w:t></w:r></w:p></w:body></w:document>`,
	}
	for name, content := range files {
		f, err := zw.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func uploadRequest(t *testing.T, field, filename string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload-resume", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestNew_RequiresPipeline(t *testing.T) {
	_, err := New(Config{RateLimit: &ratelimit.Config{}})
	assert.Error(t, err)
}

func TestRootEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Resume Analysis API is running!", decodeBody(t, w)["message"])

	w = doJSON(t, s, http.MethodGet, "/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, "healthy", decodeBody(t, w)["status"])
}

func TestExtractSkills_PatternMode(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/extract-skills", `{"text": "Experienced with AWS, Kubernetes and PostgreSQL"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp ExtractResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.ElementsMatch(t, []string{"AWS", "Kubernetes", "PostgreSQL"}, resp.Skills)
	assert.Equal(t, 3, resp.TotalEntities)
	assert.Equal(t, skills.DegradedNote, resp.Note)
	assert.NotNil(t, resp.Organizations)
}

func TestExtractSkills_CallerErrors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"missing text", `{}`, "text is required"},
		{"empty text", `{"text": ""}`, "text is required"},
		{"blank text", `{"text": "   "}`, "text is required"},
		{"wrong type", `{"text": 5}`, "text"},
		{"not json", `text=hello`, "invalid JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, s, http.MethodPost, "/extract-skills", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			resp := decodeBody(t, w)
			assert.Equal(t, false, resp["success"])
			assert.Contains(t, resp["error"], tt.message)
		})
	}
}

func TestExtractSkills_Retryable(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		status     int
		retryAfter string
	}{
		{"loading", &inference.RetryableError{Status: 503, RetryAfter: 20500 * time.Millisecond}, http.StatusServiceUnavailable, "21"},
		{"rate limited", &inference.RetryableError{Status: 429, RateLimited: true}, http.StatusTooManyRequests, "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, func(c *Config) { c.Extractor = stubExtractor{err: tt.err} })

			w := doJSON(t, s, http.MethodPost, "/extract-skills", `{"text": "Python"}`)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.retryAfter, w.Header().Get("Retry-After"))
			assert.Equal(t, false, decodeBody(t, w)["success"])
		})
	}
}

func TestExtractSkills_InternalError(t *testing.T) {
	s := newTestServer(t, func(c *Config) { c.Extractor = stubExtractor{err: assert.AnError} })

	w := doJSON(t, s, http.MethodPost, "/extract-skills", `{"text": "Python"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", decodeBody(t, w)["error"])
}

func TestAnalyzeSkills(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/analyze-skills", `{"skills": ["Python", "React", "Docker"]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Success          bool `json:"success"`
		CategoryAnalysis map[string]struct {
			Score    float64 `json:"score"`
			Strength string  `json:"strength"`
		} `json:"category_analysis"`
		TopCategories       []TopCategory `json:"top_categories"`
		RecommendedSkills   []string      `json:"recommended_skills"`
		TotalSkillsAnalyzed int           `json:"total_skills_analyzed"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.True(t, resp.Success)
	assert.Len(t, resp.CategoryAnalysis, 7)
	assert.Equal(t, 0.111, resp.CategoryAnalysis["Programming Languages"].Score)
	assert.Equal(t, "Weak", resp.CategoryAnalysis["Programming Languages"].Strength)
	assert.Equal(t, 0.125, resp.CategoryAnalysis["Frontend"].Score)
	require.Len(t, resp.TopCategories, 3)
	assert.Equal(t, TopCategory{Category: "Frontend", Score: 0.125}, resp.TopCategories[0])
	assert.Len(t, resp.RecommendedSkills, 10)
	assert.Equal(t, 3, resp.TotalSkillsAnalyzed)
}

func TestAnalyzeSkills_CategoryOrder(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/analyze-skills", `{"skills": ["Go"]}`)
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	last := -1
	for _, c := range skills.Categories() {
		key, _ := json.Marshal(c.Name)
		idx := strings.Index(body, string(key)+":{")
		require.Greater(t, idx, last, "category %q out of order", c.Name)
		last = idx
	}
}

func TestAnalyzeSkills_CallerErrors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing skills", `{}`},
		{"empty list", `{"skills": []}`},
		{"blank entries", `{"skills": ["", " "]}`},
		{"not a list", `{"skills": "Python"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, s, http.MethodPost, "/analyze-skills", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, false, decodeBody(t, w)["success"])
		})
	}
}

func TestAnalyzeSkills_AnalyzerFailure(t *testing.T) {
	s := newTestServer(t, func(c *Config) { c.Analyzer = stubAnalyzer{err: assert.AnError} })

	w := doJSON(t, s, http.MethodPost, "/analyze-skills", `{"skills": ["Go"]}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestUploadResume_Docx(t *testing.T) {
	s := newTestServer(t)

	req := uploadRequest(t, "file", "cv.docx", buildDocx(t, "Senior Go engineer, Kubernetes"))
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp UploadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "cv.docx", resp.Filename)
	assert.Equal(t, "Senior Go engineer, Kubernetes", resp.Text)
	assert.Equal(t, len("Senior Go engineer, Kubernetes"), resp.TextLength)
}

func TestUploadResume_Errors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name    string
		req     *http.Request
		status  int
		message string
	}{
		{"unsupported type", uploadRequest(t, "file", "cv.txt", []byte("Python")), http.StatusBadRequest, "Unsupported file type. Please upload PDF or DOCX file."},
		{"empty document", uploadRequest(t, "file", "cv.docx", buildDocx(t, " ")), http.StatusBadRequest, "No text found in the document"},
		{"corrupt document", uploadRequest(t, "file", "cv.docx", []byte("garbage")), http.StatusBadRequest, "docx extraction error"},
		{"missing file field", uploadRequest(t, "resume", "cv.docx", []byte("x")), http.StatusBadRequest, "File is required"},
		{"not multipart", httptest.NewRequest(http.MethodPost, "/upload-resume", strings.NewReader("{}")), http.StatusBadRequest, "multipart"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			s.Handler().ServeHTTP(w, tt.req)

			assert.Equal(t, tt.status, w.Code)
			resp := decodeBody(t, w)
			assert.Equal(t, false, resp["success"])
			assert.Contains(t, resp["error"], tt.message)
		})
	}
}

func TestUploadResume_TooLarge(t *testing.T) {
	s := newTestServer(t, func(c *Config) { c.MaxUploadBytes = 1024 })

	req := uploadRequest(t, "file", "cv.pdf", bytes.Repeat([]byte("a"), 4096))
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestRequestID(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/health", "")
	assert.Len(t, w.Header().Get("X-Request-ID"), 36)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestCORS(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/extract-skills", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://127.0.0.1:3000")
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, "http://127.0.0.1:3000", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_Wildcard(t *testing.T) {
	s := newTestServer(t, func(c *Config) { c.AllowedOrigins = []string{"*"} })

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://any.example.com")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, "https://any.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, func(c *Config) {
		c.RateLimit = &ratelimit.Config{
			Enabled:       true,
			DefaultLimit:  100,
			DefaultWindow: time.Minute,
			EndpointConfigs: []ratelimit.EndpointConfig{
				{Path: "/analyze-skills", Method: "POST", Limit: 2, Window: time.Hour, Burst: 2},
			},
		}
	})

	for i := 0; i < 2; i++ {
		w := doJSON(t, s, http.MethodPost, "/analyze-skills", `{"skills": ["Go"]}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}

	w := doJSON(t, s, http.MethodPost, "/analyze-skills", `{"skills": ["Go"]}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, false, decodeBody(t, w)["success"])

	// health is never limited
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, doJSON(t, s, http.MethodGet, "/health", "").Code)
	}
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	closer := &closeRecorder{}
	s := newTestServer(t, func(c *Config) {
		c.Port = 0
		c.ShutdownTimeout = time.Second
		c.Closers = []io.Closer{closer}
	})
	s.httpServer.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
	assert.True(t, closer.closed)
}
