// Package httpapi exposes the duplicate detector's diagnostic surface:
// a similarity probe for threshold tuning, a batch check endpoint, and
// store-level stats. It is a tuning tool for operators, not the
// tracker's product API.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"aitracker/internal/db"
	"aitracker/internal/dedup"
	"aitracker/internal/globaltime"
	"aitracker/internal/langdetect"
	candidateschema "aitracker/schema"
)

const maxCheckBatchSize = 500

type Options struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type Server struct {
	pool     *db.Pool
	dedupCfg dedup.Config
	logger   zerolog.Logger
	opts     Options
}

type similarityRequest struct {
	TitleA   string `json:"title_a"`
	TitleB   string `json:"title_b"`
	ContentA string `json:"content_a,omitempty"`
	ContentB string `json:"content_b,omitempty"`
}

type similarityResponse struct {
	Breakdown dedup.Breakdown `json:"breakdown"`
	EntitiesA dedup.EntitySet `json:"entities_a"`
	EntitiesB dedup.EntitySet `json:"entities_b"`
	LanguageA string          `json:"language_a,omitempty"`
	LanguageB string          `json:"language_b,omitempty"`
}

type checkResultItem struct {
	URL      string         `json:"url"`
	Title    string         `json:"title"`
	Language string         `json:"language,omitempty"`
	Decision dedup.Decision `json:"decision"`
}

type checkResponse struct {
	Results    []checkResultItem      `json:"results"`
	Duplicates int                    `json:"duplicates"`
	Accepted   int                    `json:"accepted"`
	Window     dedup.WindowStoreStats `json:"window"`
}

type statsResponse struct {
	WindowDays int           `json:"window_days"`
	Cutoff     time.Time     `json:"cutoff"`
	Store      db.DedupStats `json:"store"`
}

func NewServer(pool *db.Pool, dedupCfg dedup.Config, logger zerolog.Logger, opts Options) *Server {
	host := strings.TrimSpace(opts.Host)
	if host == "" {
		host = "0.0.0.0"
	}
	port := opts.Port
	if port <= 0 {
		port = 8085
	}
	readTimeout := opts.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = 10 * time.Second
	}
	writeTimeout := opts.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 30 * time.Second
	}
	shutdownTimeout := opts.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}

	return &Server{
		pool:     pool,
		dedupCfg: dedupCfg,
		logger:   logger,
		opts: Options{
			Host:            host,
			Port:            port,
			ReadTimeout:     readTimeout,
			WriteTimeout:    writeTimeout,
			ShutdownTimeout: shutdownTimeout,
		},
	}
}

func (s *Server) Start(ctx context.Context) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("server is not initialized")
	}

	e := s.buildEcho()

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.opts.Host, s.opts.Port),
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		if shutdownErr := e.Shutdown(shutdownCtx); shutdownErr != nil {
			s.logger.Error().Err(shutdownErr).Msg("http server shutdown failed")
		}
	}()

	s.logger.Info().
		Str("addr", httpServer.Addr).
		Msg("dedup diagnostics server listening")

	if err := e.StartServer(httpServer); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("start http server: %w", err)
	}
	return nil
}

func (s *Server) buildEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				s.logger.Error().
					Err(v.Error).
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Str("request_id", v.RequestID).
					Msg("http request failed")
				return nil
			}
			s.logger.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("http request")
			return nil
		},
	}))

	e.GET("/healthz", s.handleHealth)
	e.POST("/v1/similarity", s.handleSimilarity)
	e.POST("/v1/check", s.handleCheck)
	e.GET("/v1/stats", s.handleStats)

	return e
}

func (s *Server) handleHealth(c echo.Context) error {
	if err := s.pool.DB().PingContext(c.Request().Context()); err != nil {
		return internalError(c, "database unreachable")
	}
	return success(c, map[string]string{"status": "ok"})
}

// handleSimilarity scores one title pair with the full signal
// breakdown. This is the calibration harness: feed it labelled pairs
// when revalidating thresholds for a new corpus.
func (s *Server) handleSimilarity(c echo.Context) error {
	var req similarityRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid JSON body", nil)
	}
	if strings.TrimSpace(req.TitleA) == "" || strings.TrimSpace(req.TitleB) == "" {
		return fail(c, http.StatusBadRequest, "title_a and title_b are required", nil)
	}

	entitiesA := dedup.ExtractEntities(req.TitleA, req.ContentA)
	entitiesB := dedup.ExtractEntities(req.TitleB, req.ContentB)
	scorer := dedup.NewScorer(s.dedupCfg)

	return success(c, similarityResponse{
		Breakdown: scorer.CompareDetailed(req.TitleA, req.TitleB, entitiesA, entitiesB),
		EntitiesA: entitiesA,
		EntitiesB: entitiesB,
		LanguageA: langdetect.DetectISO6391(req.TitleA),
		LanguageB: langdetect.DetectISO6391(req.TitleB),
	})
}

// handleCheck runs one full dedup cycle over the posted candidate
// array. Each request is its own run: a fresh cycle scope, a fresh
// history snapshot.
func (s *Server) handleCheck(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return fail(c, http.StatusBadRequest, "read request body", nil)
	}

	candidates, err := candidateschema.ValidateCandidateBatch(body)
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error(), nil)
	}
	if len(candidates) == 0 {
		return fail(c, http.StatusBadRequest, "batch is empty", nil)
	}
	if len(candidates) > maxCheckBatchSize {
		return fail(c, http.StatusBadRequest, fmt.Sprintf("batch exceeds %d candidates", maxCheckBatchSize), nil)
	}

	detector := dedup.NewDeduplicator(s.pool, s.dedupCfg, s.logger)
	resp := checkResponse{Results: make([]checkResultItem, 0, len(candidates))}

	ctx := c.Request().Context()
	for _, candidate := range candidates {
		article := toCandidateArticle(candidate)
		decision := detector.Check(ctx, article)
		if decision.IsDuplicate {
			resp.Duplicates++
		} else {
			resp.Accepted++
		}
		resp.Results = append(resp.Results, checkResultItem{
			URL:      article.URL,
			Title:    article.Title,
			Language: langdetect.DetectISO6391(article.Title),
			Decision: decision,
		})
	}
	resp.Window = detector.Stats()

	return success(c, resp)
}

func (s *Server) handleStats(c echo.Context) error {
	cutoff := globaltime.WindowCutoff(s.dedupCfg.WindowDays)
	stats, err := s.pool.DedupStatsFor(c.Request().Context(), cutoff)
	if err != nil {
		s.logger.Error().Err(err).Msg("dedup stats query failed")
		return internalError(c, "stats query failed")
	}
	return success(c, statsResponse{
		WindowDays: s.dedupCfg.WindowDays,
		Cutoff:     cutoff,
		Store:      stats,
	})
}

func toCandidateArticle(payload candidateschema.CandidateArticle) dedup.CandidateArticle {
	article := dedup.CandidateArticle{
		URL:   strings.TrimSpace(payload.URL),
		Title: strings.TrimSpace(payload.Title),
	}
	if payload.Content != nil {
		article.Content = strings.TrimSpace(*payload.Content)
	}
	if payload.PublishedAt != nil {
		if ts, err := time.Parse(time.RFC3339, strings.TrimSpace(*payload.PublishedAt)); err == nil {
			utc := ts.UTC()
			article.PublishedAt = &utc
		}
	}
	return article
}
