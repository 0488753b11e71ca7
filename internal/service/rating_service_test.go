package service

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"
)

// aggregateFromSubmissions mirrors the transactional algorithm without a
// database: apply each (user, score) submission as an upsert keyed on the
// user, then recompute the exact mean and count over the surviving rows.
func aggregateFromSubmissions(subs []struct {
	UserID uint64
	Score  int
}) (float64, uint64) {
	rows := make(map[uint64]int)
	for _, s := range subs {
		rows[s.UserID] = s.Score
	}
	if len(rows) == 0 {
		return 0, 0
	}
	var sum int
	for _, score := range rows {
		sum += score
	}
	return float64(sum) / float64(len(rows)), uint64(len(rows))
}

func TestAggregate_RepeatSubmissionReplaces(t *testing.T) {
	subs := []struct {
		UserID uint64
		Score  int
	}{
		{1, 5}, {1, 2}, {1, 4}, {1, 1},
	}
	avg, count := aggregateFromSubmissions(subs)
	if count != 1 {
		t.Fatalf("count = %d, want 1 (one row per user)", count)
	}
	if avg != 1.0 {
		t.Errorf("average = %v, want last submitted score 1.0", avg)
	}
}

func TestAggregate_ThreeDistinctSubjects(t *testing.T) {
	subs := []struct {
		UserID uint64
		Score  int
	}{
		{1, 5}, {2, 3}, {3, 4},
	}
	avg, count := aggregateFromSubmissions(subs)
	if avg != 4.0 || count != 3 {
		t.Fatalf("aggregate = (%v, %d), want (4.0, 3)", avg, count)
	}

	// A fourth distinct subject raced twice with the same id must still
	// produce exactly four rows, never five.
	subs = append(subs, struct {
		UserID uint64
		Score  int
	}{4, 2}, struct {
		UserID uint64
		Score  int
	}{4, 2})
	avg, count = aggregateFromSubmissions(subs)
	if count != 4 {
		t.Fatalf("count after racing duplicate = %d, want 4", count)
	}
	if avg != 3.5 {
		t.Errorf("average = %v, want 3.5", avg)
	}
}

func TestAggregate_Empty(t *testing.T) {
	avg, count := aggregateFromSubmissions(nil)
	if avg != 0 || count != 0 {
		t.Fatalf("aggregate = (%v, %d), want (0, 0) for no ratings", avg, count)
	}
}

// topRatedKey mirrors the ORDER BY used by AdviceRepo.TopRated.
type topRatedKey struct {
	Average   float64
	Count     uint64
	CreatedAt time.Time
	ID        uint64
}

func sortTopRated(items []topRatedKey) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Average != b.Average {
			return a.Average > b.Average
		}
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
}

func TestTopRatedOrdering(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC) }
	items := []topRatedKey{
		{Average: 4.0, Count: 3, CreatedAt: day(1), ID: 1},
		{Average: 4.5, Count: 2, CreatedAt: day(2), ID: 2},
		{Average: 4.0, Count: 5, CreatedAt: day(3), ID: 3},
		{Average: 4.0, Count: 3, CreatedAt: day(4), ID: 4}, // ties 1 on avg+count, newer
		{Average: 0, Count: 0, CreatedAt: day(5), ID: 5},   // unrated sorts last
	}
	sortTopRated(items)

	wantIDs := []uint64{2, 3, 4, 1, 5}
	for i, want := range wantIDs {
		if items[i].ID != want {
			t.Fatalf("position %d = advice %d, want %d (got order %+v)", i, items[i].ID, want, items)
		}
	}

	// Determinism: shuffled input sorts to the same sequence.
	again := []topRatedKey{items[3], items[0], items[4], items[2], items[1]}
	sortTopRated(again)
	for i := range again {
		if again[i].ID != wantIDs[i] {
			t.Fatalf("reordered input: position %d = advice %d, want %d", i, again[i].ID, wantIDs[i])
		}
	}
}

func TestSubmit_RejectsInvalidScoreBeforeStorage(t *testing.T) {
	// No repositories are wired; an out-of-range score must fail before any
	// storage access is attempted.
	s := NewRatingService(nil, nil, nil, "cache")
	for _, score := range []int{0, -1, 6, 100} {
		if _, _, err := s.Submit(context.Background(), 1, 1, score); !errors.Is(err, ErrInvalidScore) {
			t.Errorf("Submit(score=%d) = %v, want ErrInvalidScore", score, err)
		}
	}
}

func TestIsLockContention(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("Error 1213: Deadlock found when trying to get lock"), true},
		{errors.New("Error 1205: Lock wait timeout exceeded"), true},
		{errors.New("Error 1062: Duplicate entry"), false},
		{errors.New("connection refused"), false},
	}
	for _, tc := range cases {
		if got := isLockContention(tc.err); got != tc.want {
			t.Errorf("isLockContention(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}
