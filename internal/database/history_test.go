package database

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/nao1215/scamscan/internal/model"
)

// setupTestDB opens an in-memory history for testing.
func setupTestDB(t *testing.T) *HistoryDB {
	t.Helper()

	db, err := OpenHistory(context.Background())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func scamResult() model.ScanResult {
	return model.ScanResult{
		Status:      model.StatusLikelyScam,
		Probability: 87,
		RiskLevel:   "High",
		ScamType:    "Lottery / Prize Scam",
		Highlights: []model.Highlight{
			{Term: "prize", Impact: 0.41, Reason: "lottery scam term"},
		},
	}
}

// TestRecordAndGet tests a full round trip of one entry.
func TestRecordAndGet(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	at := time.Date(2026, 3, 4, 5, 6, 7, 800, time.UTC)
	entry := NewEntry("You have won a $1000 prize! Click here", scamResult(), false, at)

	id, err := db.Record(ctx, entry)
	if err != nil {
		t.Fatalf("failed to record: %v", err)
	}

	got, err := db.Get(ctx, id)
	if err != nil {
		t.Fatalf("failed to get: %v", err)
	}
	if got == nil {
		t.Fatal("expected entry, got nil")
	}

	if got.Digest != model.MessageDigest("You have won a $1000 prize! Click here") {
		t.Errorf("unexpected digest %q", got.Digest)
	}
	if got.Verdict != model.VerdictThreat {
		t.Errorf("expected Threat, got %s", got.Verdict)
	}
	if got.Status != model.StatusLikelyScam || got.Probability != 87 || got.ScamType != "Lottery / Prize Scam" {
		t.Errorf("unexpected entry: %+v", got)
	}
	if got.Refined {
		t.Error("expected refined=false")
	}
	if !got.Timestamp.Equal(at) {
		t.Errorf("expected timestamp %v, got %v", at, got.Timestamp)
	}
	if len(got.Result.Highlights) != 1 || got.Result.Highlights[0].Term != "prize" {
		t.Errorf("result payload not preserved: %+v", got.Result)
	}
	if got.ShortDigest() != got.Digest[:12] {
		t.Errorf("unexpected short digest %q", got.ShortDigest())
	}
}

// TestGetMissing tests lookup of an unknown ID.
func TestGetMissing(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)

	got, err := db.Get(context.Background(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

// TestList tests ordering and limits.
func TestList(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	messages := []string{"first", "second", "third"}
	for _, m := range messages {
		if _, err := db.Record(ctx, NewEntry(m, scamResult(), false, time.Now())); err != nil {
			t.Fatalf("failed to record: %v", err)
		}
	}

	tests := []struct {
		name  string
		limit int
		want  []string
	}{
		{name: "all entries newest first", limit: 0, want: []string{"third", "second", "first"}},
		{name: "limited", limit: 2, want: []string{"third", "second"}},
		{name: "limit above count", limit: 10, want: []string{"third", "second", "first"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			entries, err := db.List(ctx, tt.limit)
			if err != nil {
				t.Fatalf("failed to list: %v", err)
			}
			if len(entries) != len(tt.want) {
				t.Fatalf("expected %d entries, got %d", len(tt.want), len(entries))
			}
			for i, m := range tt.want {
				if entries[i].Digest != model.MessageDigest(m) {
					t.Errorf("entry %d: expected digest of %q", i, m)
				}
			}
		})
	}
}

// TestListEmpty tests a fresh history.
func TestListEmpty(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)

	entries, err := db.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %d", len(entries))
	}
}

// TestSummary tests the per-verdict counts.
func TestSummary(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	safe := model.ScanResult{Status: model.StatusLikelySafe, Probability: 4, RiskLevel: "Low"}
	uncertain := model.ScanResult{Status: model.StatusNeedsMoreContext, Probability: 52, RiskLevel: model.RiskUncertain}

	for _, e := range []Entry{
		NewEntry("a", scamResult(), false, time.Now()),
		NewEntry("b", safe, false, time.Now()),
		NewEntry("c", uncertain, false, time.Now()),
		NewEntry("c", scamResult(), true, time.Now()),
	} {
		if _, err := db.Record(ctx, e); err != nil {
			t.Fatalf("failed to record: %v", err)
		}
	}

	s, err := db.Summary(ctx)
	if err != nil {
		t.Fatalf("failed to summarize: %v", err)
	}

	if s.Total != 4 || s.Refined != 1 {
		t.Errorf("expected total=4 refined=1, got %+v", s)
	}
	if s.ByVerdict[model.VerdictThreat] != 2 || s.ByVerdict[model.VerdictSafe] != 1 || s.ByVerdict[model.VerdictUncertain] != 1 {
		t.Errorf("unexpected verdict counts: %v", s.ByVerdict)
	}
}

// TestHistoriesAreIsolated tests that two in-memory histories never share rows.
func TestHistoriesAreIsolated(t *testing.T) {
	t.Parallel()

	a := setupTestDB(t)
	b := setupTestDB(t)
	ctx := context.Background()

	if _, err := a.Record(ctx, NewEntry("only in a", scamResult(), false, time.Now())); err != nil {
		t.Fatalf("failed to record: %v", err)
	}

	entries, err := b.List(ctx, 0)
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected isolated history, got %d entries", len(entries))
	}
}

// TestConcurrentRecord tests the single-connection pool under concurrency.
func TestConcurrentRecord(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	const writers = 20
	var wg sync.WaitGroup
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := db.Record(ctx, NewEntry("msg", scamResult(), false, time.Now())); err != nil {
				t.Errorf("failed to record: %v", err)
			}
		}()
	}
	wg.Wait()

	s, err := db.Summary(ctx)
	if err != nil {
		t.Fatalf("failed to summarize: %v", err)
	}
	if s.Total != writers {
		t.Errorf("expected %d entries, got %d", writers, s.Total)
	}
}

// TestParseTimestamp tests the accepted timestamp formats.
func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		zero  bool
	}{
		{name: "RFC3339Nano", input: "2026-01-02T03:04:05.123456Z"},
		{name: "RFC3339", input: "2026-01-02T03:04:05Z"},
		{name: "SQLite default", input: "2026-01-02 03:04:05"},
		{name: "garbage", input: "yesterday", zero: true},
		{name: "empty", input: "", zero: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := parseTimestamp(tt.input)
			if got.IsZero() != tt.zero {
				t.Errorf("parseTimestamp(%q) = %v, zero expected %v", tt.input, got, tt.zero)
			}
		})
	}
}
