package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/codeGROOVE-dev/cpratings/pkg/rating"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestRecordAndLatest(t *testing.T) {
	ctx := context.Background()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer store.Close() //nolint:errcheck // test cleanup

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	err = store.Record(ctx, []*rating.Record{
		{Platform: rating.Codeforces, Rating: 1200, Known: true, Value: "1200", Subtitle: "Pupil", Color: "#008000", Source: "direct", FetchedAt: base},
		nil,
		{Platform: rating.AtCoder, Value: "-", Subtitle: "No contests", Color: "#808080", Source: "direct", FetchedAt: base},
		{Platform: rating.Codeforces, Rating: 1250, Known: true, Value: "1250", Subtitle: "Pupil", Color: "#008000", Source: "clist", FetchedAt: base.Add(time.Hour)},
	})
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	got, err := store.Latest(ctx, rating.Codeforces, 10)
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	want := []Entry{
		{Platform: rating.Codeforces, Rating: 1250, Known: true, Value: "1250", Subtitle: "Pupil", Color: "#008000", Source: "clist", FetchedAt: base.Add(time.Hour)},
		{Platform: rating.Codeforces, Rating: 1200, Known: true, Value: "1200", Subtitle: "Pupil", Color: "#008000", Source: "direct", FetchedAt: base},
	}
	opts := []cmp.Option{
		cmpopts.IgnoreFields(Entry{}, "ID"),
		cmpopts.EquateApproxTime(0),
	}
	if diff := cmp.Diff(want, got, opts...); diff != "" {
		t.Errorf("Latest() mismatch (-want +got):\n%s", diff)
	}

	got, err = store.Latest(ctx, rating.Codeforces, 1)
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if len(got) != 1 || got[0].Value != "1250" {
		t.Errorf("Latest(n=1) = %+v, want newest only", got)
	}
}

func TestLatestEmpty(t *testing.T) {
	store, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer store.Close() //nolint:errcheck // test cleanup

	got, err := store.Latest(context.Background(), rating.LeetCode, 5)
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Latest() = %v, want empty", got)
	}
}
