package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"studytour/internal/microservices/http-api/models"
	"studytour/internal/microservices/http-api/repository"

	"github.com/google/uuid"
)

type ratingKey struct {
	userID     string
	campsiteID string
}

// RatingStore keeps one rating per (user, campsite) and refreshes the
// attached CampsiteStore's avg_rating under the same lock as each write.
type RatingStore struct {
	mu        sync.Mutex
	rows      map[ratingKey]models.Rating
	campsites *CampsiteStore
	now       func() time.Time
}

var _ repository.RatingRepository = (*RatingStore)(nil)

func NewRatingStore(campsites *CampsiteStore) *RatingStore {
	rs := &RatingStore{
		rows:      make(map[ratingKey]models.Rating),
		campsites: campsites,
		now:       time.Now,
	}
	campsites.mu.Lock()
	campsites.ratings = rs
	campsites.mu.Unlock()
	return rs
}

func (s *RatingStore) Upsert(_ context.Context, rating *models.Rating) (*models.Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.campsites.exists(rating.CampsiteID) {
		return nil, repository.ErrNotFound
	}

	key := ratingKey{userID: rating.UserID, campsiteID: rating.CampsiteID}
	now := s.now()
	stored, ok := s.rows[key]
	if ok {
		stored.ScoreOverall = rating.ScoreOverall
		stored.ScoreQuality = rating.ScoreQuality
		stored.ScoreFacility = rating.ScoreFacility
		stored.ScoreSafety = rating.ScoreSafety
		stored.UpdatedAt = now
	} else {
		stored = *rating
		stored.User = nil
		stored.Campsite = nil
		if stored.ID == "" {
			stored.ID = uuid.New().String()
		}
		stored.CreatedAt = now
		stored.UpdatedAt = now
	}
	s.rows[key] = stored
	s.refreshLocked(rating.CampsiteID)

	out := stored
	return &out, nil
}

func (s *RatingStore) Delete(_ context.Context, userID, campsiteID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := ratingKey{userID: userID, campsiteID: campsiteID}
	if _, ok := s.rows[key]; !ok {
		return repository.ErrNotFound
	}
	delete(s.rows, key)
	s.refreshLocked(campsiteID)
	return nil
}

func (s *RatingStore) GetByUserAndCampsite(_ context.Context, userID, campsiteID string) (*models.Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[ratingKey{userID: userID, campsiteID: campsiteID}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &r, nil
}

func (s *RatingStore) ListByCampsite(_ context.Context, campsiteID string) ([]models.Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.Rating{}
	for k, r := range s.rows {
		if k.campsiteID == campsiteID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// ListScores returns the rows of ListByCampsite reduced to their scores.
func (s *RatingStore) ListScores(ctx context.Context, campsiteID string) ([]models.Rating, error) {
	rows, err := s.ListByCampsite(ctx, campsiteID)
	if err != nil {
		return nil, err
	}
	out := make([]models.Rating, len(rows))
	for i, r := range rows {
		out[i] = models.Rating{
			ScoreOverall:  r.ScoreOverall,
			ScoreQuality:  r.ScoreQuality,
			ScoreFacility: r.ScoreFacility,
			ScoreSafety:   r.ScoreSafety,
		}
	}
	return out, nil
}

func (s *RatingStore) RecomputeAverage(_ context.Context, campsiteID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshLocked(campsiteID)
	return nil
}

func (s *RatingStore) RecomputeAll(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.campsites.mu.RLock()
	ids := make([]string, 0, len(s.campsites.rows))
	for id := range s.campsites.rows {
		ids = append(ids, id)
	}
	s.campsites.mu.RUnlock()

	for _, id := range ids {
		s.refreshLocked(id)
	}
	return int64(len(ids)), nil
}

func (s *RatingStore) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.rows)), nil
}

func (s *RatingStore) countFor(campsiteID string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for k := range s.rows {
		if k.campsiteID == campsiteID {
			n++
		}
	}
	return n
}

// refreshLocked recomputes a campsite's cache; s.mu must be held.
func (s *RatingStore) refreshLocked(campsiteID string) {
	sum, n := 0, 0
	for k, r := range s.rows {
		if k.campsiteID == campsiteID && r.ScoreOverall != nil {
			sum += *r.ScoreOverall
			n++
		}
	}
	if n == 0 {
		s.campsites.setAverage(campsiteID, nil)
		return
	}
	avg := roundedMean(sum, n)
	s.campsites.setAverage(campsiteID, &avg)
}
