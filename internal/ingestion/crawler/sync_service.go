package crawler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"studytour/internal/events"
	"studytour/internal/microservices/http-api/models"
	"studytour/internal/microservices/http-api/repository"

	"go.uber.org/zap"
)

// Store is the part of the campsite repository the crawler writes to.
type Store interface {
	ExistsByURL(ctx context.Context, url string) (bool, error)
	Create(ctx context.Context, c *models.Campsite) error
}

// Fetcher loads one page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (body string, status int, err error)
}

// Result is the outcome of crawling one URL.
type Result struct {
	URL          string        `json:"url"`
	Success      bool          `json:"success"`
	CampsiteID   string        `json:"campsite_id,omitempty"`
	Error        string        `json:"error,omitempty"`
	StatusCode   int           `json:"status_code,omitempty"`
	ProcessingMS int64         `json:"processing_ms"`
	Campsite     *CampsiteData `json:"-"`
}

// Summary reports a whole crawl.
type Summary struct {
	Total          int           `json:"total_urls"`
	Successful     int           `json:"successful"`
	Failed         int           `json:"failed"`
	SuccessRate    float64       `json:"success_rate"`
	CampsitesFound int           `json:"campsites_found"`
	Duration       time.Duration `json:"duration"`
	Results        []Result      `json:"results"`
}

var errAlreadyStored = errors.New("url already exists")

// Service crawls URLs concurrently and stores new campsites.
type Service struct {
	cfg       Config
	client    Fetcher
	extractor *Extractor
	store     Store
	publisher events.Publisher
	logger    *zap.Logger
}

func NewService(cfg Config, client Fetcher, store Store, publisher events.Publisher, logger *zap.Logger) *Service {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &Service{
		cfg:       cfg,
		client:    client,
		extractor: NewExtractor(cfg.Keywords),
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

// Run crawls urls, or the configured seeds when urls is empty. Results keep
// the order of the input.
func (s *Service) Run(ctx context.Context, urls []string) Summary {
	if len(urls) == 0 {
		urls = s.cfg.Seeds
	}
	start := time.Now()
	s.logger.Info("starting crawl", zap.Int("urls", len(urls)), zap.Int("workers", s.cfg.Workers))

	results := make([]Result, len(urls))
	for i, u := range urls {
		results[i] = Result{URL: u, Error: "not crawled"}
	}
	var mu sync.Mutex
	done := 0

	pool := NewWorkerPool(ctx, s.cfg.Workers, s.logger)
	pool.Start()
	for i, u := range urls {
		i, u := i, u
		ok := pool.Submit(func(ctx context.Context) error {
			r := s.CrawlURL(ctx, u)
			mu.Lock()
			results[i] = r
			done++
			if done%10 == 0 {
				s.logger.Info("crawl progress", zap.Int("done", done), zap.Int("total", len(urls)))
			}
			mu.Unlock()
			if !r.Success {
				return errors.New(r.Error)
			}
			return nil
		})
		if !ok {
			break
		}
	}
	pool.Wait()

	summary := Summary{Total: len(urls), Results: results, Duration: time.Since(start)}
	for _, r := range results {
		if r.Success {
			summary.Successful++
			if r.Campsite != nil {
				summary.CampsitesFound++
			}
		} else {
			summary.Failed++
		}
	}
	if summary.Total > 0 {
		summary.SuccessRate = float64(summary.Successful) / float64(summary.Total) * 100
	}

	s.logger.Info("crawl completed",
		zap.Int("successful", summary.Successful),
		zap.Int("total", summary.Total),
		zap.Int("campsites_found", summary.CampsitesFound),
		zap.Duration("duration", summary.Duration))
	return summary
}

// CrawlURL fetches, extracts and stores one page. A URL that is already
// stored is not fetched again.
func (s *Service) CrawlURL(ctx context.Context, url string) Result {
	start := time.Now()
	r := Result{URL: url}
	fail := func(err error) Result {
		r.Error = err.Error()
		r.ProcessingMS = time.Since(start).Milliseconds()
		return r
	}

	exists, err := s.store.ExistsByURL(ctx, url)
	if err != nil {
		return fail(fmt.Errorf("check url: %w", err))
	}
	if exists {
		s.logger.Debug("url already stored", zap.String("url", url))
		return fail(errAlreadyStored)
	}

	body, status, err := s.client.Fetch(ctx, url)
	r.StatusCode = status
	if err != nil {
		s.logger.Warn("fetch failed", zap.String("url", url), zap.Error(err))
		return fail(err)
	}

	data, err := s.extractor.Extract(body, url)
	if err != nil {
		return fail(err)
	}
	r.Campsite = data

	campsite := data.Campsite()
	if err := s.store.Create(ctx, campsite); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return fail(errAlreadyStored)
		}
		s.logger.Error("failed to save campsite", zap.String("url", url), zap.Error(err))
		return fail(fmt.Errorf("save campsite: %w", err))
	}
	r.CampsiteID = campsite.ID
	r.Success = true
	r.ProcessingMS = time.Since(start).Milliseconds()

	s.logger.Info("saved campsite", zap.String("name", campsite.Name), zap.String("url", url))
	if err := s.publisher.Publish(ctx, events.CampsiteCreated, events.CampsiteCreatedEvent{
		CampsiteID: campsite.ID,
		Name:       campsite.Name,
		URL:        campsite.URL,
		Source:     campsite.Source,
	}); err != nil {
		s.logger.Warn("failed to publish campsite event", zap.String("campsite_id", campsite.ID), zap.Error(err))
	}
	return r
}
