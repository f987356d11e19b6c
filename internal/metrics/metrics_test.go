package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/events/{eventID}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/events/{eventID}", "418"))

	for _, path := range []string{"/events/1", "/events/2"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		if rr.Code != http.StatusTeapot {
			t.Fatalf("status = %d", rr.Code)
		}
	}

	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/events/{eventID}", "418"))
	if after-before != 2 {
		t.Errorf("counter moved by %v, want 2", after-before)
	}
	if got := testutil.ToFloat64(APIActiveRequests); got != 0 {
		t.Errorf("active requests = %v after completion", got)
	}
}

func TestRecordReviewSubmitted(t *testing.T) {
	c := ReviewsSubmitted.WithLabelValues("song", "true")
	before := testutil.ToFloat64(c)
	RecordReviewSubmitted("song", true)
	if got := testutil.ToFloat64(c) - before; got != 1 {
		t.Errorf("delta = %v", got)
	}
}
