package service

import (
	"math"

	"studytour/internal/microservices/http-api/dto"
	"studytour/internal/microservices/http-api/models"
)

// SummarizeRatings reduces every rating of one campsite to averages per
// dimension and a 1..5 histogram of the overall score. It does no I/O.
//
// A dimension nobody filled in averages to 0; TotalRatings counts every row
// whether or not its optional dimensions are present.
func SummarizeRatings(ratings []models.Rating) dto.RatingSummary {
	var overall, quality, facility, safety meanAcc
	dist := map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}

	for i := range ratings {
		r := &ratings[i]
		overall.add(r.ScoreOverall)
		quality.add(r.ScoreQuality)
		facility.add(r.ScoreFacility)
		safety.add(r.ScoreSafety)
		if r.ScoreOverall != nil {
			if _, ok := dist[*r.ScoreOverall]; ok {
				dist[*r.ScoreOverall]++
			}
		}
	}

	return dto.RatingSummary{
		AverageOverall:  overall.mean(),
		AverageQuality:  quality.mean(),
		AverageFacility: facility.mean(),
		AverageSafety:   safety.mean(),
		TotalRatings:    len(ratings),
		Distribution:    dist,
	}
}

type meanAcc struct {
	sum, n int
}

func (a *meanAcc) add(v *int) {
	if v == nil {
		return
	}
	a.sum += *v
	a.n++
}

// mean rounds to one decimal, half away from zero.
func (a meanAcc) mean() float64 {
	if a.n == 0 {
		return 0
	}
	return math.Round(float64(a.sum*10)/float64(a.n)) / 10
}
