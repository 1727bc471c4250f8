package repository

import (
	"strings"

	"studytour/internal/microservices/http-api/models"
)

// CampsiteQuery is a validated listing query. The gorm repository turns it
// into SQL and the in-memory store evaluates it with Matches and
// CampsiteLess; both must agree row for row.
type CampsiteQuery struct {
	// Search matches name OR description, case-insensitively. Empty disables it.
	Search   string
	Country  string
	Category models.Category
	// MinRating keeps rows whose avg_rating >= MinRating. Zero disables it.
	// Rows without a cached rating never pass a threshold.
	MinRating float64

	Limit  int
	Offset int
}

// Matches reports whether c satisfies every filter of q. Pagination is ignored.
func (q CampsiteQuery) Matches(c *models.Campsite) bool {
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		inName := strings.Contains(strings.ToLower(c.Name), needle)
		inDesc := c.Description != nil && strings.Contains(strings.ToLower(*c.Description), needle)
		if !inName && !inDesc {
			return false
		}
	}
	if q.Country != "" && (c.Country == nil || *c.Country != q.Country) {
		return false
	}
	if q.Category != "" && c.Category != q.Category {
		return false
	}
	if q.MinRating > 0 && (c.AvgRating == nil || *c.AvgRating < q.MinRating) {
		return false
	}
	return true
}

// CampsiteLess orders campsites by avg_rating desc with NULLs last, then
// created_at desc, then id desc.
func CampsiteLess(a, b *models.Campsite) bool {
	switch {
	case a.AvgRating != nil && b.AvgRating == nil:
		return true
	case a.AvgRating == nil && b.AvgRating != nil:
		return false
	case a.AvgRating != nil && b.AvgRating != nil && *a.AvgRating != *b.AvgRating:
		return *a.AvgRating > *b.AvgRating
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

// campsiteOrder is CampsiteLess expressed in SQL.
const campsiteOrder = "avg_rating DESC NULLS LAST, created_at DESC, id DESC"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching s anywhere, with LIKE
// wildcards in s taken literally.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
