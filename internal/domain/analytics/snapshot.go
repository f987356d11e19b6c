package analytics

import (
	"math"
	"strconv"

	"taktivent/internal/domain/reviews"
)

// Snapshot is computed on every read and never persisted.
type Snapshot struct {
	TotalReviews          int            `json:"total_reviews"`
	AverageRating         *float64       `json:"average_rating"`
	RatingDistribution    map[string]int `json:"rating_distribution"`
	SentimentDistribution map[string]int `json:"sentiment_distribution"`
}

// Compute aggregates a collection of reviews. Ratings of 0 count towards the
// total and the average but have no histogram bucket; null ratings and
// sentiments only count towards the total.
func Compute(rs []reviews.Review) Snapshot {
	s := Snapshot{
		TotalReviews:          len(rs),
		RatingDistribution:    make(map[string]int, 5),
		SentimentDistribution: make(map[string]int, len(reviews.Sentiments)),
	}
	for i := 1; i <= reviews.MaxRating; i++ {
		s.RatingDistribution[strconv.Itoa(i)] = 0
	}
	for _, label := range reviews.Sentiments {
		s.SentimentDistribution[string(label)] = 0
	}

	sum, rated := 0, 0
	for _, r := range rs {
		if r.Rating != nil {
			sum += *r.Rating
			rated++
			if *r.Rating >= 1 && *r.Rating <= reviews.MaxRating {
				s.RatingDistribution[strconv.Itoa(*r.Rating)]++
			}
		}
		if r.Sentiment != nil && r.Sentiment.Valid() {
			s.SentimentDistribution[string(*r.Sentiment)]++
		}
	}

	if rated > 0 {
		avg := math.Round(float64(sum)/float64(rated)*10) / 10
		s.AverageRating = &avg
	}
	return s
}

// BySong splits song reviews per song id and computes a snapshot for each.
// Songs without reviews still get an empty snapshot.
func BySong(songIDs []int64, rs []reviews.Review) map[int64]Snapshot {
	grouped := make(map[int64][]reviews.Review, len(songIDs))
	for _, id := range songIDs {
		grouped[id] = nil
	}
	for _, r := range rs {
		if r.Kind != reviews.KindSong || r.SongID == nil {
			continue
		}
		grouped[*r.SongID] = append(grouped[*r.SongID], r)
	}

	out := make(map[int64]Snapshot, len(grouped))
	for id, group := range grouped {
		out[id] = Compute(group)
	}
	return out
}

// EventOnly keeps the reviews attached to the event itself.
func EventOnly(rs []reviews.Review) []reviews.Review {
	out := make([]reviews.Review, 0, len(rs))
	for _, r := range rs {
		if r.Kind == reviews.KindEvent {
			out = append(out, r)
		}
	}
	return out
}
