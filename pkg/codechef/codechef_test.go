package codechef

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/codeGROOVE-dev/cpratings/pkg/rating"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/handle/omniscient_18" {
			t.Errorf("path = %q, want /handle/omniscient_18", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"success":true,"name":"Omni","currentRating":1650,"highestRating":1702,"stars":"3★"}`)) //nolint:errcheck // test helper
	}))
	defer server.Close()

	ctx := context.Background()
	client, err := New(ctx, WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	client.httpClient = server.Client()

	got, err := client.Fetch(ctx, "omniscient_18")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	want := &rating.Record{
		Platform: rating.CodeChef, Rating: 1650, Known: true, Value: "1650",
		Subtitle: "3★", Color: "#3366CC", Source: "direct",
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(rating.Record{}, "FetchedAt")); diff != "" {
		t.Errorf("Fetch() mismatch (-want +got):\n%s", diff)
	}
}

func TestFetch_MissingRating(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false}`)) //nolint:errcheck // test helper
	}))
	defer server.Close()

	ctx := context.Background()
	client, err := New(ctx, WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	client.httpClient = server.Client()

	_, err = client.Fetch(ctx, "omniscient_18")
	if !errors.Is(err, rating.ErrFieldMissing) {
		t.Errorf("Fetch() error = %v, want %v", err, rating.ErrFieldMissing)
	}
}

func TestFetch_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	ctx := context.Background()
	client, err := New(ctx, WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	client.httpClient = server.Client()

	if _, err := client.Fetch(ctx, "omniscient_18"); err == nil {
		t.Error("Fetch() expected error for 500, got nil")
	}
}

func TestRegistered(t *testing.T) {
	if rating.LookupFetcher(rating.CodeChef) == nil {
		t.Error("codechef fetcher not registered")
	}
}
