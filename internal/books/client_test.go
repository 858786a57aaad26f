package books

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(handler http.Handler) (Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewClient(srv.URL, "test-key", 2*time.Second), srv
}

func TestSearchParsesVolumes(t *testing.T) {
	var gotPath, gotQuery string
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items": [
			{"id": "abc123", "volumeInfo": {
				"title": "Dune",
				"authors": ["Frank Herbert"],
				"description": "Sand.",
				"imageLinks": {"thumbnail": "http://img/dune.jpg"}
			}},
			{"id": "bare", "volumeInfo": {"title": "No Extras"}}
		]}`))
	}))
	defer srv.Close()

	results, err := client.Search(context.Background(), "dune")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if gotPath != "/volumes" || gotQuery != "dune" {
		t.Fatalf("unexpected request %s?q=%s", gotPath, gotQuery)
	}
	if len(results) != 2 {
		t.Fatalf("want 2 results, got %d", len(results))
	}
	if results[0].Title != "Dune" || results[0].Authors[0] != "Frank Herbert" || results[0].Thumbnail != "http://img/dune.jpg" {
		t.Fatalf("unexpected first result %+v", results[0])
	}
	// Absent optional fields default to zero values.
	if results[1].Description != "" || results[1].Thumbnail != "" || len(results[1].Authors) != 0 {
		t.Fatalf("expected empty optionals, got %+v", results[1])
	}
}

func TestSearchEmptyQuerySkipsNetwork(t *testing.T) {
	called := false
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	results, err := client.Search(context.Background(), "")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("want empty result, got %d", len(results))
	}
	if called {
		t.Fatal("empty query should not hit the catalog")
	}
}

func TestSearchNon200IsExternalServiceError(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := client.Search(context.Background(), "dune")
	if !errors.Is(err, ErrExternalService) {
		t.Fatalf("want ErrExternalService, got %v", err)
	}
}

func TestSearchUnreachableIsExternalServiceError(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	_, err := client.Search(context.Background(), "dune")
	if !errors.Is(err, ErrExternalService) {
		t.Fatalf("want ErrExternalService, got %v", err)
	}
}

func TestGetByID(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/volumes/abc123" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": "abc123", "volumeInfo": {"title": "Dune", "authors": ["Frank Herbert"]}}`))
	}))
	defer srv.Close()

	book, err := client.GetByID(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if book.ID != "abc123" || book.Title != "Dune" {
		t.Fatalf("unexpected book %+v", book)
	}

	_, err = client.GetByID(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestGetByIDEmptyBodyIsNotFound(t *testing.T) {
	// Some unknown ids answer 200 with an error-shaped body.
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"error": {"code": 503}}`))
	}))
	defer srv.Close()

	_, err := client.GetByID(context.Background(), "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestGetByIDServerErrorIsExternalServiceError(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := client.GetByID(context.Background(), "abc123")
	if !errors.Is(err, ErrExternalService) {
		t.Fatalf("want ErrExternalService, got %v", err)
	}
}
