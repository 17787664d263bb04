package candidateschema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed candidate_article.schema.json
var candidateSchemaJSON string

// CandidateArticle is the validated wire form of one dedup candidate.
type CandidateArticle struct {
	URL         string  `json:"url"`
	Title       string  `json:"title"`
	Content     *string `json:"content,omitempty"`
	PublishedAt *string `json:"published_at,omitempty"`
	SourceName  *string `json:"source_name,omitempty"`
}

var (
	compileOnce       sync.Once
	compiledSchema    *jsonschema.Schema
	compiledSchemaErr error
)

// ValidateCandidatePayload checks one candidate object against the
// schema plus the semantic rules the schema cannot express.
func ValidateCandidatePayload(payload json.RawMessage) (*CandidateArticle, error) {
	value, err := decodeStrictJSON(payload)
	if err != nil {
		return nil, fmt.Errorf("decode candidate JSON: %w", err)
	}

	schema, err := loadSchema()
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}

	if err := schema.Validate(value); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	normalized, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("normalize candidate JSON: %w", err)
	}

	var article CandidateArticle
	if err := json.Unmarshal(normalized, &article); err != nil {
		return nil, fmt.Errorf("unmarshal candidate: %w", err)
	}

	if err := validateSemantics(&article); err != nil {
		return nil, err
	}

	return &article, nil
}

// ValidateCandidateBatch validates a JSON array of candidates,
// preserving input order.
func ValidateCandidateBatch(payload json.RawMessage) ([]CandidateArticle, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("batch payload is empty")
	}

	var rawItems []json.RawMessage
	if err := json.Unmarshal(trimmed, &rawItems); err != nil {
		return nil, fmt.Errorf("batch payload must be a JSON array: %w", err)
	}

	articles := make([]CandidateArticle, 0, len(rawItems))
	for i, raw := range rawItems {
		article, err := ValidateCandidatePayload(raw)
		if err != nil {
			return nil, fmt.Errorf("candidate[%d]: %w", i, err)
		}
		articles = append(articles, *article)
	}
	return articles, nil
}

func loadSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		compiler.AssertFormat = true

		if err := compiler.AddResource("candidate_article.schema.json", strings.NewReader(candidateSchemaJSON)); err != nil {
			compiledSchemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}

		schema, err := compiler.Compile("candidate_article.schema.json")
		if err != nil {
			compiledSchemaErr = fmt.Errorf("compile schema: %w", err)
			return
		}

		compiledSchema = schema
	})

	if compiledSchemaErr != nil {
		return nil, compiledSchemaErr
	}
	if compiledSchema == nil {
		return nil, fmt.Errorf("schema not initialized")
	}
	return compiledSchema, nil
}

func decodeStrictJSON(raw []byte) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("payload is empty")
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}

	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("payload contains trailing content")
	}

	return value, nil
}

func validateSemantics(article *CandidateArticle) error {
	if article == nil {
		return fmt.Errorf("candidate is nil")
	}

	if strings.TrimSpace(article.Title) == "" {
		return fmt.Errorf("title must not be blank")
	}

	trimmedURL := strings.TrimSpace(article.URL)
	if trimmedURL == "" {
		return fmt.Errorf("url must not be blank")
	}
	if _, err := url.ParseRequestURI(trimmedURL); err != nil {
		return fmt.Errorf("url is not a valid URI: %w", err)
	}

	if article.PublishedAt != nil {
		if _, err := time.Parse(time.RFC3339, strings.TrimSpace(*article.PublishedAt)); err != nil {
			return fmt.Errorf("published_at must be RFC3339: %w", err)
		}
	}

	return nil
}
