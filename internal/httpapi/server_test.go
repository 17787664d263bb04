package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"aitracker/internal/dedup"
	candidateschema "aitracker/schema"
)

func TestToCandidateArticle(t *testing.T) {
	t.Parallel()

	content := "  body text  "
	published := "2026-03-10T08:00:00Z"
	article := toCandidateArticle(candidateschema.CandidateArticle{
		URL:         " https://example.com/a ",
		Title:       " Headline ",
		Content:     &content,
		PublishedAt: &published,
	})

	if article.URL != "https://example.com/a" || article.Title != "Headline" {
		t.Fatalf("fields not trimmed: %+v", article)
	}
	if article.Content != "body text" {
		t.Fatalf("content = %q", article.Content)
	}
	if article.PublishedAt == nil || article.PublishedAt.Format("2006-01-02") != "2026-03-10" {
		t.Fatalf("published_at not parsed: %v", article.PublishedAt)
	}
}

func TestToCandidateArticleIgnoresBadTimestamp(t *testing.T) {
	t.Parallel()

	published := "yesterday"
	article := toCandidateArticle(candidateschema.CandidateArticle{
		URL:         "https://example.com/a",
		Title:       "Headline",
		PublishedAt: &published,
	})
	if article.PublishedAt != nil {
		t.Fatalf("unparsable timestamp should be dropped, got %v", article.PublishedAt)
	}
}

func TestHandleSimilarity(t *testing.T) {
	t.Parallel()

	srv := NewServer(nil, dedup.DefaultConfig(), zerolog.Nop(), Options{})

	body := `{
		"title_a": "Telangana government plans AI city near Hyderabad with Rs 5,000 crore investment",
		"title_b": "Telangana govt plans AI city near Hyderabad with Rs 5,000 crore investment"
	}`
	req := httptest.NewRequest(http.MethodPost, "/v1/similarity", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	if err := srv.handleSimilarity(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var envelope struct {
		Status string `json:"status"`
		Data   struct {
			Breakdown dedup.Breakdown `json:"breakdown"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Status != "success" {
		t.Fatalf("status = %q", envelope.Status)
	}
	if !envelope.Data.Breakdown.Verdict.IsDuplicate {
		t.Fatalf("reworded pair not flagged: %+v", envelope.Data.Breakdown)
	}
}

func TestHandleSimilarityRequiresBothTitles(t *testing.T) {
	t.Parallel()

	srv := NewServer(nil, dedup.DefaultConfig(), zerolog.Nop(), Options{})

	req := httptest.NewRequest(http.MethodPost, "/v1/similarity", strings.NewReader(`{"title_a": "only one"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	if err := srv.handleSimilarity(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
