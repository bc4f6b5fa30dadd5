package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewRegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.SearchQueriesTotal.WithLabelValues("hits").Inc()
	m.SearchQueriesTotal.WithLabelValues("hits").Inc()
	m.DocsIndexedTotal.Add(3)

	if got := testutil.ToFloat64(m.SearchQueriesTotal.WithLabelValues("hits")); got != 2 {
		t.Fatalf("search_queries_total{outcome=hits} = %v; want 2", got)
	}
	if got := testutil.ToFloat64(m.DocsIndexedTotal); got != 3 {
		t.Fatalf("docs_indexed_total = %v; want 3", got)
	}
	if n, err := testutil.GatherAndCount(reg, "docs_indexed_total"); err != nil || n != 1 {
		t.Fatalf("GatherAndCount = %d, %v", n, err)
	}
}

func TestHandlerServesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.IndexTerms.Set(42)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "index_terms 42") {
		t.Fatalf("scrape lacks index_terms:\n%s", rec.Body.String())
	}
}

func TestServerRunStopsOnCancel(t *testing.T) {
	s := NewServer(0, prometheus.NewRegistry(), time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
