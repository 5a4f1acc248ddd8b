package obs

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestInstrumentUsesRoutePattern(t *testing.T) {
	router := chi.NewRouter()
	router.Use(Instrument)
	router.Get("/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/orders/{id}", "200"))

	for _, target := range []string{"/orders/abc", "/orders/def"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("unexpected status for %s: %d", target, rec.Code)
		}
	}

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/orders/{id}", "200"))
	if after-before != 2 {
		t.Fatalf("expected both requests under one pattern label, got %v", after-before)
	}

	// Raw paths must not appear as labels.
	if got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/orders/abc", "200")); got != 0 {
		t.Fatalf("raw path leaked into labels: %v", got)
	}
}
