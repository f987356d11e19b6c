package analytics

import (
	"encoding/json"
	"testing"

	"taktivent/internal/domain/reviews"
)

func rated(rating int, sentiment reviews.Sentiment) reviews.Review {
	return reviews.Review{Kind: reviews.KindEvent, Rating: &rating, Sentiment: &sentiment}
}

func TestComputeScenario(t *testing.T) {
	negative := reviews.Negative
	rs := []reviews.Review{
		rated(5, reviews.Positive),
		rated(3, reviews.Neutral),
		{Kind: reviews.KindEvent, Sentiment: &negative},
	}

	s := Compute(rs)

	if s.TotalReviews != 3 {
		t.Errorf("TotalReviews = %d, want 3", s.TotalReviews)
	}
	if s.AverageRating == nil || *s.AverageRating != 4.0 {
		t.Errorf("AverageRating = %v, want 4.0", s.AverageRating)
	}

	wantRatings := map[string]int{"1": 0, "2": 0, "3": 1, "4": 0, "5": 1}
	for k, v := range wantRatings {
		if s.RatingDistribution[k] != v {
			t.Errorf("RatingDistribution[%s] = %d, want %d", k, s.RatingDistribution[k], v)
		}
	}
	for _, label := range []string{"positive", "neutral", "negative"} {
		if s.SentimentDistribution[label] != 1 {
			t.Errorf("SentimentDistribution[%s] = %d, want 1", label, s.SentimentDistribution[label])
		}
	}
}

func TestComputeEmpty(t *testing.T) {
	s := Compute(nil)

	if s.TotalReviews != 0 {
		t.Errorf("TotalReviews = %d", s.TotalReviews)
	}
	if s.AverageRating != nil {
		t.Errorf("AverageRating = %v, want nil", *s.AverageRating)
	}
	if len(s.RatingDistribution) != 5 || len(s.SentimentDistribution) != 3 {
		t.Fatalf("distributions must expose every key: %v %v", s.RatingDistribution, s.SentimentDistribution)
	}
	for k, v := range s.RatingDistribution {
		if v != 0 {
			t.Errorf("RatingDistribution[%s] = %d", k, v)
		}
	}

	b, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"total_reviews":0,"average_rating":null,"rating_distribution":{"1":0,"2":0,"3":0,"4":0,"5":0},"sentiment_distribution":{"negative":0,"neutral":0,"positive":0}}`
	if string(b) != want {
		t.Errorf("json = %s", b)
	}
}

func TestComputeZeroRating(t *testing.T) {
	s := Compute([]reviews.Review{rated(0, reviews.Negative), rated(4, reviews.Positive)})

	if s.AverageRating == nil || *s.AverageRating != 2.0 {
		t.Errorf("AverageRating = %v, want 2.0", s.AverageRating)
	}

	bucketed := 0
	for _, v := range s.RatingDistribution {
		bucketed += v
	}
	if bucketed != 1 {
		t.Errorf("bucketed = %d, want 1 (0 has no bucket)", bucketed)
	}
	if _, ok := s.RatingDistribution["0"]; ok {
		t.Error("rating 0 must not get a bucket")
	}
}

func TestComputeRounding(t *testing.T) {
	s := Compute([]reviews.Review{
		rated(5, reviews.Positive),
		rated(4, reviews.Positive),
		rated(4, reviews.Positive),
	})
	// 13/3 = 4.333...
	if *s.AverageRating != 4.3 {
		t.Errorf("AverageRating = %v, want 4.3", *s.AverageRating)
	}
}

func TestComputeHistogramNeverExceedsTotal(t *testing.T) {
	pos := reviews.Positive
	inputs := [][]reviews.Review{
		{rated(1, pos)},
		{rated(0, pos), {Kind: reviews.KindSong}},
		{rated(2, pos), rated(2, pos), rated(5, pos), {Kind: reviews.KindEvent, Sentiment: &pos}},
	}

	for i, rs := range inputs {
		s := Compute(rs)
		sum := 0
		for _, v := range s.RatingDistribution {
			sum += v
		}
		if sum > s.TotalReviews {
			t.Errorf("case %d: histogram sum %d > total %d", i, sum, s.TotalReviews)
		}
	}
}

func TestComputeIsDeterministic(t *testing.T) {
	rs := []reviews.Review{rated(5, reviews.Positive), rated(2, reviews.Negative)}
	a, _ := json.Marshal(Compute(rs))
	b, _ := json.Marshal(Compute(rs))
	if string(a) != string(b) {
		t.Errorf("outputs differ: %s vs %s", a, b)
	}
}

func TestBySong(t *testing.T) {
	songA, songB, songC := int64(1), int64(2), int64(3)
	four := 4
	rs := []reviews.Review{
		{Kind: reviews.KindSong, SongID: &songA, Rating: &four},
		{Kind: reviews.KindSong, SongID: &songA},
		{Kind: reviews.KindSong, SongID: &songB},
		rated(5, reviews.Positive),
	}

	got := BySong([]int64{songA, songB, songC}, rs)

	if got[songA].TotalReviews != 2 || got[songB].TotalReviews != 1 {
		t.Errorf("unexpected totals: %+v", got)
	}
	if got[songC].TotalReviews != 0 || got[songC].AverageRating != nil {
		t.Errorf("song without reviews should get an empty snapshot: %+v", got[songC])
	}
	if len(EventOnly(rs)) != 1 {
		t.Errorf("EventOnly kept %d reviews", len(EventOnly(rs)))
	}
}
