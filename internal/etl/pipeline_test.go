package etl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestPipelineNoSources(t *testing.T) {
	p := NewPipeline(nil, nil, zap.NewNop())

	records, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("got %d records, want 0", len(records))
	}
}

func TestPipelineBulletinOnly(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/the-college/concentrations/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<a href="/the-college/concentrations/computer-science/">CS</a>`))
	})
	mux.HandleFunc("/the-college/concentrations/computer-science/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<a href="/search/?P=CSCI%200150">CSCI 0150</a>`))
	})
	mux.HandleFunc("/search/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(bulletinCoursePage))
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	bulletin := NewBulletinScraper(ts.Client(), 5, zap.NewNop()).WithBaseURL(ts.URL)
	p := NewPipeline(nil, bulletin, zap.NewNop())

	records, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(records) != 1 || records[0].Code != "CSCI0150" {
		t.Fatalf("records = %+v, want one CSCI0150", records)
	}
}
