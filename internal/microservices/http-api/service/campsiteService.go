package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"studytour/internal/cache"
	"studytour/internal/events"
	"studytour/internal/microservices/http-api/dto"
	"studytour/internal/microservices/http-api/models"
	"studytour/internal/microservices/http-api/repository"

	"go.uber.org/zap"
)

const maxCampsiteNameLength = 200

type CampsiteService interface {
	ListCampsites(ctx context.Context, filters dto.CampsiteFilters, page, pageSize int) (*dto.Paginated[dto.CampsiteResponse], error)
	GetCampsite(ctx context.Context, id string) (*dto.CampsiteResponse, error)
	ListCountries(ctx context.Context) ([]string, error)
	CreateCampsite(ctx context.Context, req dto.CreateCampsiteRequest) (*dto.CampsiteResponse, error)
	UpdateCampsite(ctx context.Context, id string, req dto.UpdateCampsiteRequest) (*dto.CampsiteResponse, error)
	DeleteCampsite(ctx context.Context, id string) error
	ListNewest(ctx context.Context, page, pageSize int) (*dto.Paginated[dto.CampsiteResponse], error)
}

type campsiteService struct {
	campsiteRepo repository.CampsiteRepository
	cache        cache.Cache
	publisher    events.Publisher
	logger       *zap.Logger
}

func NewCampsiteService(
	campsiteRepo repository.CampsiteRepository,
	c cache.Cache,
	publisher events.Publisher,
	logger *zap.Logger,
) CampsiteService {
	return &campsiteService{
		campsiteRepo: campsiteRepo,
		cache:        c,
		publisher:    publisher,
		logger:       logger,
	}
}

// BuildCampsiteQuery validates listing filters and pagination and turns
// them into a repository query.
func BuildCampsiteQuery(filters dto.CampsiteFilters, page, pageSize int) (repository.CampsiteQuery, error) {
	if err := checkPage(page, pageSize); err != nil {
		return repository.CampsiteQuery{}, err
	}

	q := repository.CampsiteQuery{
		Search:  strings.TrimSpace(filters.Search),
		Country: strings.TrimSpace(filters.Country),
		Limit:   pageSize,
		Offset:  (page - 1) * pageSize,
	}

	if c := strings.TrimSpace(filters.Category); c != "" {
		category := models.Category(strings.ToLower(c))
		if !category.Valid() {
			return repository.CampsiteQuery{}, validationError("unknown category %q", c)
		}
		q.Category = category
	}

	if filters.MinRating != nil {
		r := *filters.MinRating
		if r < 0 || r > 5 {
			return repository.CampsiteQuery{}, validationError("min_rating must be between 0 and 5, got %g", r)
		}
		// zero means no threshold
		q.MinRating = r
	}

	return q, nil
}

// ListCampsites is the listing query: filtered, ordered by rating cache then
// recency, with the total count before pagination.
func (s *campsiteService) ListCampsites(ctx context.Context, filters dto.CampsiteFilters, page, pageSize int) (*dto.Paginated[dto.CampsiteResponse], error) {
	q, err := BuildCampsiteQuery(filters, page, pageSize)
	if err != nil {
		return nil, err
	}

	rows, total, err := s.campsiteRepo.List(ctx, q)
	if err != nil {
		s.logger.Error("list campsites failed", zap.Error(err))
		return nil, fmt.Errorf("%w: list campsites: %w", ErrQueryFailed, err)
	}

	return dto.NewPaginated(dto.FromModelsToCampsiteResponses(rows), total, page, pageSize), nil
}

func (s *campsiteService) GetCampsite(ctx context.Context, id string) (*dto.CampsiteResponse, error) {
	c, err := s.campsiteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storageError("campsite", err)
	}
	resp := dto.FromModelToCampsiteResponse(c)
	return &resp, nil
}

// ListCountries returns the distinct countries, served from cache when possible.
func (s *campsiteService) ListCountries(ctx context.Context) ([]string, error) {
	var countries []string
	if found, err := s.cache.GetJSON(ctx, cache.CountriesKey, &countries); err != nil {
		s.logger.Warn("countries cache read failed", zap.Error(err))
	} else if found {
		return countries, nil
	}

	countries, err := s.campsiteRepo.Countries(ctx)
	if err != nil {
		return nil, storageError("countries", err)
	}
	if countries == nil {
		countries = []string{}
	}

	if err := s.cache.SetJSON(ctx, cache.CountriesKey, countries); err != nil {
		s.logger.Warn("countries cache write failed", zap.Error(err))
	}
	return countries, nil
}

func (s *campsiteService) CreateCampsite(ctx context.Context, req dto.CreateCampsiteRequest) (*dto.CampsiteResponse, error) {
	name, err := checkCampsiteName(req.Name)
	if err != nil {
		return nil, err
	}
	link, err := checkCampsiteURL(req.URL)
	if err != nil {
		return nil, err
	}
	category := models.CategoryStudy
	if req.Category != "" {
		category = models.Category(strings.ToLower(req.Category))
		if !category.Valid() {
			return nil, validationError("unknown category %q", req.Category)
		}
	}

	exists, err := s.campsiteRepo.ExistsByURL(ctx, link)
	if err != nil {
		return nil, storageError("campsite", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: a campsite with url %s already exists", ErrConflict, link)
	}

	c := &models.Campsite{
		Name:         name,
		URL:          link,
		Country:      trimmedOrNil(req.Country),
		Category:     category,
		Description:  trimmedOrNil(req.Description),
		ThumbnailURL: trimmedOrNil(req.ThumbnailURL),
		Source:       models.SourceManual,
	}
	if err := s.campsiteRepo.Create(ctx, c); err != nil {
		return nil, storageError("campsite", err)
	}

	s.invalidate(ctx, cache.CountriesKey)
	s.publish(ctx, events.CampsiteCreated, events.CampsiteCreatedEvent{
		CampsiteID: c.ID,
		Name:       c.Name,
		URL:        c.URL,
		Source:     c.Source,
	})

	resp := dto.FromModelToCampsiteResponse(c)
	return &resp, nil
}

// UpdateCampsite applies a partial update. The rating cache is never written here.
func (s *campsiteService) UpdateCampsite(ctx context.Context, id string, req dto.UpdateCampsiteRequest) (*dto.CampsiteResponse, error) {
	c, err := s.campsiteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storageError("campsite", err)
	}

	if req.Name != nil {
		if c.Name, err = checkCampsiteName(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.URL != nil {
		if c.URL, err = checkCampsiteURL(*req.URL); err != nil {
			return nil, err
		}
	}
	if req.Category != nil {
		category := models.Category(strings.ToLower(*req.Category))
		if !category.Valid() {
			return nil, validationError("unknown category %q", *req.Category)
		}
		c.Category = category
	}
	if req.Country != nil {
		c.Country = trimmedOrNil(req.Country)
	}
	if req.Description != nil {
		c.Description = trimmedOrNil(req.Description)
	}
	if req.ThumbnailURL != nil {
		c.ThumbnailURL = trimmedOrNil(req.ThumbnailURL)
	}

	if err := s.campsiteRepo.Update(ctx, c); err != nil {
		return nil, storageError("campsite", err)
	}
	s.invalidate(ctx, cache.CountriesKey)

	resp := dto.FromModelToCampsiteResponse(c)
	return &resp, nil
}

// DeleteCampsite refuses to remove a campsite that still has comments or ratings.
func (s *campsiteService) DeleteCampsite(ctx context.Context, id string) error {
	if _, err := s.campsiteRepo.GetByID(ctx, id); err != nil {
		return storageError("campsite", err)
	}

	comments, ratings, err := s.campsiteRepo.CountDependents(ctx, id)
	if err != nil {
		return storageError("campsite", err)
	}
	if comments > 0 || ratings > 0 {
		return fmt.Errorf("%w: campsite has %d comments and %d ratings", ErrConflict, comments, ratings)
	}

	if err := s.campsiteRepo.Delete(ctx, id); err != nil {
		return storageError("campsite", err)
	}
	s.invalidate(ctx, cache.CountriesKey, cache.RatingSummaryKey(id))
	return nil
}

func (s *campsiteService) ListNewest(ctx context.Context, page, pageSize int) (*dto.Paginated[dto.CampsiteResponse], error) {
	if err := checkPage(page, pageSize); err != nil {
		return nil, err
	}
	rows, total, err := s.campsiteRepo.ListNewest(ctx, page, pageSize)
	if err != nil {
		return nil, storageError("campsites", err)
	}
	return dto.NewPaginated(dto.FromModelsToCampsiteResponses(rows), total, page, pageSize), nil
}

func (s *campsiteService) invalidate(ctx context.Context, keys ...string) {
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger.Warn("cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

func (s *campsiteService) publish(ctx context.Context, key string, data any) {
	if err := s.publisher.Publish(ctx, key, data); err != nil {
		s.logger.Warn("event publish failed", zap.String("event", key), zap.Error(err))
	}
}

func checkCampsiteName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", validationError("name is required")
	}
	if utf8.RuneCountInString(name) > maxCampsiteNameLength {
		return "", validationError("name must be at most %d characters", maxCampsiteNameLength)
	}
	return name, nil
}

func checkCampsiteURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", validationError("url is required")
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", validationError("url must be an absolute http(s) url")
	}
	return raw, nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
