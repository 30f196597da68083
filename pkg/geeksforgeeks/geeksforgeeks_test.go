package geeksforgeeks

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/codeGROOVE-dev/cpratings/pkg/rank"
	"github.com/codeGROOVE-dev/cpratings/pkg/rating"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestFetch(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    *rating.Record
		wantErr error
	}{
		{
			name: "enveloped",
			body: `{"message":"data retrieved successfully","data":{"userName":"coder","codingScore":734,"totalProblemsSolved":215}}`,
			want: &rating.Record{
				Platform: rating.GeeksforGeeks, Rating: 734, Known: true, Value: "734",
				Subtitle: "215 problems solved", Color: rank.DefaultColor, Source: "direct",
			},
		},
		{
			name: "flat without solved count",
			body: `{"userName":"coder","codingScore":12}`,
			want: &rating.Record{
				Platform: rating.GeeksforGeeks, Rating: 12, Known: true, Value: "12",
				Subtitle: "coding score", Color: rank.DefaultColor, Source: "direct",
			},
		},
		{
			name:    "unknown user",
			body:    `{"message":"User not found"}`,
			wantErr: rating.ErrProfileNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if got := r.URL.Query().Get("handle"); got != "coder" {
					t.Errorf("handle = %q, want coder", got)
				}
				_, _ = w.Write([]byte(tt.body)) //nolint:errcheck // test helper
			}))
			defer server.Close()

			ctx := context.Background()
			client, err := New(ctx, WithBaseURL(server.URL))
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			client.httpClient = server.Client()

			got, err := client.Fetch(ctx, "coder")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Fetch() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Fetch() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got, cmpopts.IgnoreFields(rating.Record{}, "FetchedAt")); diff != "" {
				t.Errorf("Fetch() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
