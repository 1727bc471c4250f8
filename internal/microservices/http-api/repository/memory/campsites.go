// Package memory is an in-memory fake of the campsite and rating
// repositories. It evaluates repository.CampsiteQuery with the same filter,
// order and pagination contract as the gorm store and is only used by tests.
package memory

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"studytour/internal/microservices/http-api/models"
	"studytour/internal/microservices/http-api/repository"

	"github.com/google/uuid"
)

type CampsiteStore struct {
	mu   sync.RWMutex
	rows map[string]models.Campsite
	// ratings is set when a RatingStore is attached.
	ratings *RatingStore
	// comments counts comments per campsite for CountDependents.
	comments map[string]int64
	now      func() time.Time
}

var _ repository.CampsiteRepository = (*CampsiteStore)(nil)

func NewCampsiteStore() *CampsiteStore {
	return &CampsiteStore{
		rows:     make(map[string]models.Campsite),
		comments: make(map[string]int64),
		now:      time.Now,
	}
}

// Seed inserts campsites as given, keeping their ids, timestamps and rating caches.
func (s *CampsiteStore) Seed(campsites ...models.Campsite) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range campsites {
		if c.ID == "" {
			c.ID = uuid.New().String()
		}
		s.rows[c.ID] = c
	}
}

// AddComments records n comments against a campsite.
func (s *CampsiteStore) AddComments(campsiteID string, n int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.comments[campsiteID] += n
}

func (s *CampsiteStore) List(_ context.Context, q repository.CampsiteQuery) ([]models.Campsite, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]models.Campsite, 0, len(s.rows))
	for _, c := range s.rows {
		if q.Matches(&c) {
			matched = append(matched, c)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return repository.CampsiteLess(&matched[i], &matched[j])
	})

	return window(matched, q.Offset, q.Limit), int64(len(matched)), nil
}

func (s *CampsiteStore) ListNewest(_ context.Context, page, pageSize int) ([]models.Campsite, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]models.Campsite, 0, len(s.rows))
	for _, c := range s.rows {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})

	off := 0
	if page > 1 {
		off = (page - 1) * pageSize
	}
	return window(all, off, pageSize), int64(len(all)), nil
}

func (s *CampsiteStore) GetByID(_ context.Context, id string) (*models.Campsite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (s *CampsiteStore) ExistsByURL(_ context.Context, url string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.urlTaken(url, ""), nil
}

func (s *CampsiteStore) urlTaken(url, exceptID string) bool {
	for id, c := range s.rows {
		if c.URL == url && id != exceptID {
			return true
		}
	}
	return false
}

func (s *CampsiteStore) Create(_ context.Context, c *models.Campsite) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.urlTaken(c.URL, "") {
		return repository.ErrDuplicate
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Category == "" {
		c.Category = models.CategoryStudy
	}
	if c.Source == "" {
		c.Source = models.SourceManual
	}
	now := s.now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	s.rows[c.ID] = *c
	return nil
}

func (s *CampsiteStore) Update(_ context.Context, c *models.Campsite) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.rows[c.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if s.urlTaken(c.URL, c.ID) {
		return repository.ErrDuplicate
	}
	next := *c
	next.AvgRating = old.AvgRating
	next.CreatedAt = old.CreatedAt
	next.UpdatedAt = s.now()
	s.rows[c.ID] = next
	return nil
}

func (s *CampsiteStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.rows, id)
	return nil
}

func (s *CampsiteStore) Countries(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	var out []string
	for _, c := range s.rows {
		if c.Country == nil || *c.Country == "" || seen[*c.Country] {
			continue
		}
		seen[*c.Country] = true
		out = append(out, *c.Country)
	}
	sort.Strings(out)
	return out, nil
}

func (s *CampsiteStore) CountDependents(_ context.Context, id string) (int64, int64, error) {
	s.mu.RLock()
	comments := s.comments[id]
	ratings := s.ratings
	s.mu.RUnlock()

	var n int64
	if ratings != nil {
		n = ratings.countFor(id)
	}
	return comments, n, nil
}

func (s *CampsiteStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.rows)), nil
}

func (s *CampsiteStore) exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.rows[id]
	return ok
}

func (s *CampsiteStore) setAverage(id string, avg *float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.rows[id]; ok {
		c.AvgRating = avg
		s.rows[id] = c
	}
}

// roundedMean rounds sum/n to one decimal, half away from zero, matching
// Postgres ROUND(AVG(x)::numeric, 1) for integer inputs.
func roundedMean(sum, n int) float64 {
	return math.Round(float64(sum*10)/float64(n)) / 10
}

func window[T any](rows []T, off, limit int) []T {
	if off >= len(rows) || limit <= 0 {
		return []T{}
	}
	end := off + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[off:end]
}
