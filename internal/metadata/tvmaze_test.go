package metadata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func testFetcher(attempts uint) *fetcher {
	f := newFetcher(&http.Client{Timeout: 5 * time.Second}, attempts)
	f.delay = 0
	return f
}

func TestTVMazeSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/shows" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if got := r.URL.Query().Get("q"); got != "the office" {
			t.Errorf("expected query 'the office', got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"score": 0.9, "show": {"id": 526, "name": "The Office", "type": "Scripted", "premiered": "2005-03-24",
			  "image": {"medium": "https://img/medium.jpg", "original": "https://img/original.jpg"}}},
			{"score": 0.5, "show": {"id": 999, "name": "No Image", "type": "", "premiered": null, "image": null}},
			{"score": 0.4, "show": {"id": 1000, "name": "Medium Only", "premiered": "20XX",
			  "image": {"medium": "https://img/m.jpg", "original": ""}}},
			{"score": 0.1, "show": null}
		]`))
	}))
	defer server.Close()

	client := &TVMazeClient{fetch: testFetcher(1), baseURL: server.URL}

	results, err := client.Search(context.Background(), "  the office ")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	first := results[0]
	if first.ExternalID != "526" || first.Title != "The Office" {
		t.Errorf("unexpected first result: %+v", first)
	}
	if first.Year == nil || *first.Year != 2005 {
		t.Errorf("expected year 2005, got %v", first.Year)
	}
	if first.PosterURL == nil || *first.PosterURL != "https://img/original.jpg" {
		t.Errorf("expected original poster, got %v", first.PosterURL)
	}
	if first.Category == nil || *first.Category != "Scripted" {
		t.Errorf("expected category Scripted, got %v", first.Category)
	}

	second := results[1]
	if second.Year != nil || second.PosterURL != nil || second.Category != nil {
		t.Errorf("expected nil optional fields, got %+v", second)
	}

	third := results[2]
	if third.Year != nil {
		t.Errorf("expected nil year for malformed premiered, got %d", *third.Year)
	}
	if third.PosterURL == nil || *third.PosterURL != "https://img/m.jpg" {
		t.Errorf("expected medium poster fallback, got %v", third.PosterURL)
	}
}

func TestTVMazeSearch_EmptyQueryMakesNoRequest(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := &TVMazeClient{fetch: testFetcher(1), baseURL: server.URL}

	for _, q := range []string{"", "   ", "\t\n"} {
		results, err := client.Search(context.Background(), q)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", q, err)
		}
		if results == nil || len(results) != 0 {
			t.Errorf("expected empty non-nil results for %q, got %v", q, results)
		}
	}
	if calls != 0 {
		t.Errorf("expected no outbound requests, got %d", calls)
	}
}

func TestTVMazeSearch_NoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := &TVMazeClient{fetch: testFetcher(1), baseURL: server.URL}

	results, err := client.Search(context.Background(), "zzzz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestTVMazeSearch_NotFoundIsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := &TVMazeClient{fetch: testFetcher(1), baseURL: server.URL}

	results, err := client.Search(context.Background(), "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestTVMazeSearch_ServerErrorIsRetriedThenFails(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := &TVMazeClient{fetch: testFetcher(3), baseURL: server.URL}

	_, err := client.Search(context.Background(), "office")
	if !errors.Is(err, ErrProvider) {
		t.Fatalf("expected ErrProvider, got %v", err)
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusBadGateway {
		t.Errorf("expected StatusError 502, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 attempts, got %d", calls)
	}
}

func TestTVMazeSearch_ClientErrorIsNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := &TVMazeClient{fetch: testFetcher(3), baseURL: server.URL}

	_, err := client.Search(context.Background(), "office")
	if !errors.Is(err, ErrProvider) {
		t.Fatalf("expected ErrProvider, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected a single attempt, got %d", calls)
	}
}

func TestTVMazeSearch_RecoversAfterTransientFailure(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`[{"show": {"id": 1, "name": "Recovered"}}]`))
	}))
	defer server.Close()

	client := &TVMazeClient{fetch: testFetcher(2), baseURL: server.URL}

	results, err := client.Search(context.Background(), "office")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].Title != "Recovered" {
		t.Errorf("unexpected results: %+v", results)
	}
}

func TestTVMazeSearch_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer server.Close()

	client := &TVMazeClient{fetch: testFetcher(1), baseURL: server.URL}

	_, err := client.Search(context.Background(), "office")
	if !errors.Is(err, ErrProvider) {
		t.Errorf("expected ErrProvider, got %v", err)
	}
}

func TestTVMazeSearch_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	client := &TVMazeClient{fetch: testFetcher(1), baseURL: baseURL}

	_, err := client.Search(context.Background(), "office")
	if !errors.Is(err, ErrProvider) {
		t.Errorf("expected ErrProvider, got %v", err)
	}
}
