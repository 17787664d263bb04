package candidateschema

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestValidateCandidatePayloadValid(t *testing.T) {
	t.Parallel()

	payload := `{
		"url": "https://example.com/news/ai-city",
		"title": "Telangana plans AI city near Hyderabad",
		"content": "The state government announced...",
		"published_at": "2026-03-10T08:00:00Z",
		"source_name": "Example Wire"
	}`

	article, err := ValidateCandidatePayload(json.RawMessage(payload))
	if err != nil {
		t.Fatalf("valid payload rejected: %v", err)
	}
	if article.URL != "https://example.com/news/ai-city" {
		t.Fatalf("url = %q", article.URL)
	}
	if article.PublishedAt == nil || *article.PublishedAt != "2026-03-10T08:00:00Z" {
		t.Fatalf("published_at not carried through: %v", article.PublishedAt)
	}
}

func TestValidateCandidatePayloadRejections(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		payload string
	}{
		{"missing title", `{"url": "https://example.com/a"}`},
		{"blank title", `{"url": "https://example.com/a", "title": "   "}`},
		{"missing url", `{"title": "Some headline"}`},
		{"invalid url", `{"url": "not a uri", "title": "Some headline"}`},
		{"unknown field", `{"url": "https://example.com/a", "title": "T", "extra": true}`},
		{"bad published_at", `{"url": "https://example.com/a", "title": "T", "published_at": "yesterday"}`},
		{"trailing content", `{"url": "https://example.com/a", "title": "T"} {}`},
		{"empty payload", `   `},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := ValidateCandidatePayload(json.RawMessage(tc.payload)); err == nil {
				t.Fatalf("expected rejection for %s", tc.name)
			}
		})
	}
}

func TestValidateCandidateBatchPreservesOrder(t *testing.T) {
	t.Parallel()

	payload := `[
		{"url": "https://example.com/first", "title": "First headline"},
		{"url": "https://example.com/second", "title": "Second headline"}
	]`

	articles, err := ValidateCandidateBatch(json.RawMessage(payload))
	if err != nil {
		t.Fatalf("valid batch rejected: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("got %d articles, want 2", len(articles))
	}
	if articles[0].URL != "https://example.com/first" || articles[1].URL != "https://example.com/second" {
		t.Fatalf("order not preserved: %v", articles)
	}
}

func TestValidateCandidateBatchNamesFailingIndex(t *testing.T) {
	t.Parallel()

	payload := `[
		{"url": "https://example.com/first", "title": "First headline"},
		{"url": "https://example.com/second"}
	]`

	_, err := ValidateCandidateBatch(json.RawMessage(payload))
	if err == nil {
		t.Fatalf("expected batch rejection")
	}
	if !strings.Contains(err.Error(), "candidate[1]") {
		t.Fatalf("error %q does not name the failing index", err.Error())
	}
}

func TestValidateCandidateBatchRejectsNonArray(t *testing.T) {
	t.Parallel()

	_, err := ValidateCandidateBatch(json.RawMessage(`{"url": "https://example.com/a", "title": "T"}`))
	if err == nil {
		t.Fatalf("expected rejection for non-array payload")
	}
}
