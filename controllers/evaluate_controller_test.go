package controllers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"evalhub/config"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/zip"
)

func testRouter(t *testing.T, modelReply string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		body := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": modelReply}},
			},
		}
		json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.GenAI.BaseURL = srv.URL
	cfg.GenAI.ChatModel = "test-chat"
	cfg.Eval.PromptCharBudget = 20000
	cfg.Eval.PreviewChars = 4000
	cfg.Eval.PdfMinTextLen = 20
	Setup(cfg)

	router := gin.New()
	router.POST("/evaluate", Evaluate)
	router.POST("/export/leaderboard", ExportLeaderboard)
	return router
}

func zipBytes(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("Failed to create zip entry: %v", err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("Failed to write zip entry: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Failed to close zip: %v", err)
	}
	return buf.Bytes()
}

func multipartBody(t *testing.T, fields map[string]string, fileField, fileName string, fileData []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("Failed to write field %s: %v", k, err)
		}
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, fileName)
		if err != nil {
			t.Fatalf("Failed to create form file: %v", err)
		}
		if _, err := fw.Write(fileData); err != nil {
			t.Fatalf("Failed to write form file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("Failed to close multipart writer: %v", err)
	}
	return &body, mw.FormDataContentType()
}

func TestEvaluateEndpoint(t *testing.T) {
	reply := `{"status":"Valid Submission","criteria":[{"name":"Innovation","score":8,"reason":"fresh"}],"total_score":8,"summary":"nice"}`
	router := testRouter(t, reply)

	archive := zipBytes(t, map[string]string{"main.py": "print('demo')"})
	body, contentType := multipartBody(t, map[string]string{
		"rubric": "Innovation - 100",
		"apiKey": "sk-test",
	}, "archive", "Team Rocket.zip", archive)

	req := httptest.NewRequest("POST", "/evaluate", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		TeamName string `json:"teamName"`
		Parsed   bool   `json:"parsed"`
		Preview  string `json:"preview"`
		Result   struct {
			TotalScore float64 `json:"total_score"`
		} `json:"result"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.TeamName != "Team Rocket" {
		t.Errorf("Expected team name from archive name, got %q", resp.TeamName)
	}
	if !resp.Parsed {
		t.Errorf("Expected parsed result")
	}
	if resp.Result.TotalScore != 80 {
		t.Errorf("Expected normalized total 80, got %v", resp.Result.TotalScore)
	}
	if !strings.Contains(resp.Preview, "[FILE: main.py - CODE]") {
		t.Errorf("Expected extraction preview with marker, got %q", resp.Preview)
	}
}

func TestEvaluateEndpointRawFallback(t *testing.T) {
	router := testRouter(t, "no json here, sorry")

	archive := zipBytes(t, map[string]string{"readme.txt": "hello"})
	body, contentType := multipartBody(t, map[string]string{
		"rubric": "anything",
		"apiKey": "sk-test",
	}, "archive", "team.zip", archive)

	req := httptest.NewRequest("POST", "/evaluate", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var resp struct {
		Parsed bool   `json:"parsed"`
		Raw    string `json:"raw"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Parsed {
		t.Errorf("Expected unparsed reply")
	}
	if resp.Raw != "no json here, sorry" {
		t.Errorf("Raw model output must be surfaced unmodified, got %q", resp.Raw)
	}
}

func TestEvaluateEndpointMissingInputs(t *testing.T) {
	router := testRouter(t, "{}")

	// Missing rubric.
	body, contentType := multipartBody(t, map[string]string{"apiKey": "sk"}, "archive", "t.zip", zipBytes(t, map[string]string{"a.txt": "x"}))
	req := httptest.NewRequest("POST", "/evaluate", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Missing rubric should be a 400, got %d", rec.Code)
	}

	// Missing upload.
	body, contentType = multipartBody(t, map[string]string{"rubric": "r", "apiKey": "sk"}, "", "", nil)
	req = httptest.NewRequest("POST", "/evaluate", body)
	req.Header.Set("Content-Type", contentType)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Missing upload should be a 400, got %d", rec.Code)
	}

	// Missing credential (no override, no configured fallback).
	body, contentType = multipartBody(t, map[string]string{"rubric": "r"}, "archive", "t.zip", zipBytes(t, map[string]string{"a.txt": "x"}))
	req = httptest.NewRequest("POST", "/evaluate", body)
	req.Header.Set("Content-Type", contentType)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Missing API key should be a 400, got %d", rec.Code)
	}
}

func TestExportLeaderboardEndpoint(t *testing.T) {
	router := testRouter(t, "{}")

	payload := `{"results":[{"teamName":"a","score":55,"summary":"ok"},{"teamName":"b","score":90,"summary":"top"}]}`
	req := httptest.NewRequest("POST", "/export/leaderboard", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "leaderboard_summary.csv") {
		t.Errorf("Expected CSV attachment disposition, got %q", got)
	}
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 3 || !strings.HasPrefix(lines[1], "1,b,") {
		t.Errorf("Expected ranked CSV with b first, got %q", rec.Body.String())
	}
}
