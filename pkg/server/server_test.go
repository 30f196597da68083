package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"

	"github.com/codeGROOVE-dev/cpratings/pkg/rating"
	"github.com/codeGROOVE-dev/cpratings/pkg/widget"
)

func init() { gin.SetMode(gin.TestMode) }

type stubSource struct{ calls int }

func (*stubSource) Name() string { return "stub" }
func (*stubSource) Platforms() []rating.Platform {
	return []rating.Platform{rating.Codeforces, rating.AtCoder}
}

func (s *stubSource) Fetch(context.Context) []rating.Result {
	s.calls++
	return []rating.Result{
		{Platform: rating.Codeforces, Record: &rating.Record{Value: "1250", Subtitle: "Pupil", Color: "#008000"}},
		{Platform: rating.AtCoder, Err: rating.ErrFieldMissing},
	}
}

func TestPage(t *testing.T) {
	src := &stubSource{}
	h := New(src).Handler()

	for range 2 {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		body := rec.Body.String()
		for _, want := range []string{
			`<div id="codeforces-rating" class="rating-card loaded">`,
			`<div id="atcoder-rating" class="rating-card"><span class="rating-value">—</span></div>`,
			`id="notification-styles"`,
		} {
			if !strings.Contains(body, want) {
				t.Errorf("page missing %q", want)
			}
		}
	}
	if src.calls != 2 {
		t.Errorf("source fetched %d times, want once per request", src.calls)
	}
}

func TestAPI(t *testing.T) {
	h := New(&stubSource{}).Handler()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ratings", http.NoBody))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got struct {
		Source  string        `json:"source"`
		Loaded  int           `json:"loaded"`
		Errored int           `json:"errored"`
		Ratings []widget.View `json:"ratings"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []widget.View{
		{ID: "codeforces-rating", State: "loaded", Value: "1250", Subtitle: "Pupil", Color: "#008000"},
		{ID: "atcoder-rating", State: "errored", Value: "—"},
	}
	if diff := cmp.Diff(want, got.Ratings); diff != "" {
		t.Errorf("ratings mismatch (-want +got):\n%s", diff)
	}
	if got.Source != "stub" || got.Loaded != 1 || got.Errored != 1 {
		t.Errorf("summary = %+v", got)
	}
}

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	New(&stubSource{}).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("healthz = %d %q", rec.Code, rec.Body.String())
	}
}
