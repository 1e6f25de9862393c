package review

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/mbriand/flashdeck/internal/domain"
	"github.com/mbriand/flashdeck/internal/storage"
)

// fakeStore is an in-memory Store for exercising the reviewer without a
// database file.
type fakeStore struct {
	weights map[int64]float64
	stats   map[string]*domain.DailyStat
	nextID  int64

	failLookup bool
	failWrite  bool
	vanishing  bool // make every weight write report zero rows
}

var errStorage = errors.New("storage is on fire")

func newFakeStore() *fakeStore {
	return &fakeStore{
		weights: make(map[int64]float64),
		stats:   make(map[string]*domain.DailyStat),
	}
}

func (f *fakeStore) CardWeight(cardID int64) (float64, error) {
	if f.failLookup {
		return 0, errStorage
	}
	w, ok := f.weights[cardID]
	if !ok {
		return 0, storage.ErrNotFound
	}
	return w, nil
}

func (f *fakeStore) SetCardWeight(cardID int64, weight float64) (int64, error) {
	if f.failWrite {
		return 0, errStorage
	}
	if f.vanishing {
		return 0, nil
	}
	if _, ok := f.weights[cardID]; !ok {
		return 0, nil
	}
	f.weights[cardID] = weight
	return 1, nil
}

func (f *fakeStore) DailyStatByDate(date string) (*domain.DailyStat, error) {
	if f.failLookup {
		return nil, errStorage
	}
	ds, ok := f.stats[date]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copied := *ds
	return &copied, nil
}

func (f *fakeStore) InsertDailyStat(correct, incorrect int, date string) (int64, error) {
	if f.failWrite {
		return 0, errStorage
	}
	f.nextID++
	f.stats[date] = &domain.DailyStat{
		ID:        f.nextID,
		Correct:   correct,
		Incorrect: incorrect,
		Date:      date,
	}
	return f.nextID, nil
}

func (f *fakeStore) UpdateDailyStat(id int64, correct, incorrect int) (int64, error) {
	if f.failWrite {
		return 0, errStorage
	}
	for _, ds := range f.stats {
		if ds.ID == id {
			ds.Correct = correct
			ds.Incorrect = incorrect
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeStore) ListDailyStats() ([]domain.DailyStat, error) {
	if f.failLookup {
		return nil, errStorage
	}
	out := make([]domain.DailyStat, 0, len(f.stats))
	for _, ds := range f.stats {
		out = append(out, *ds)
	}
	return out, nil
}

func fixedClock(day string) func() time.Time {
	t, err := time.Parse(storage.DateLayout, day)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

func TestAdjustCard(t *testing.T) {
	t.Run("correct then incorrect", func(t *testing.T) {
		store := newFakeStore()
		store.weights[5] = 0.5
		r := New(store)

		// 0.5 * 0.9 = 0.45
		if err := r.AdjustCard(5, true); err != nil {
			t.Fatalf("AdjustCard failed: %v", err)
		}
		if got := store.weights[5]; math.Abs(got-0.45) > 1e-9 {
			t.Errorf("Expected weight 0.45, got %v", got)
		}

		// 0.45 * 1.1 = 0.495
		if err := r.AdjustCard(5, false); err != nil {
			t.Fatalf("AdjustCard failed: %v", err)
		}
		if got := store.weights[5]; math.Abs(got-0.495) > 1e-9 {
			t.Errorf("Expected weight 0.495, got %v", got)
		}
	})

	t.Run("repeated correct answers clamp at the floor", func(t *testing.T) {
		store := newFakeStore()
		store.weights[5] = 0.5
		r := New(store)

		for i := 0; i < 50; i++ {
			if err := r.AdjustCard(5, true); err != nil {
				t.Fatalf("AdjustCard %d failed: %v", i, err)
			}
		}
		if got := store.weights[5]; got != 0.1 {
			t.Errorf("Expected weight clamped to 0.1, got %v", got)
		}
		if err := r.AdjustCard(5, true); err != nil {
			t.Fatalf("AdjustCard failed: %v", err)
		}
		if got := store.weights[5]; got != 0.1 {
			t.Errorf("Expected weight to stay at 0.1, got %v", got)
		}
	})

	t.Run("unknown card", func(t *testing.T) {
		store := newFakeStore()
		r := New(store)

		err := r.AdjustCard(42, true)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
		if len(store.weights) != 0 {
			t.Error("Expected no writes for an unknown card")
		}
	})

	t.Run("card vanishes before the write", func(t *testing.T) {
		store := newFakeStore()
		store.weights[5] = 0.5
		store.vanishing = true
		r := New(store)

		if err := r.AdjustCard(5, true); !errors.Is(err, ErrWriteConflict) {
			t.Errorf("Expected ErrWriteConflict, got %v", err)
		}
		if got := store.weights[5]; got != 0.5 {
			t.Errorf("Expected weight untouched at 0.5, got %v", got)
		}
	})

	t.Run("storage failure surfaces wrapped", func(t *testing.T) {
		store := newFakeStore()
		store.weights[5] = 0.5
		store.failLookup = true
		r := New(store)

		if err := r.AdjustCard(5, true); !errors.Is(err, errStorage) {
			t.Errorf("Expected the storage error to be wrapped, got %v", err)
		}
	})
}

func TestRecordAnswer(t *testing.T) {
	t.Run("first answers of the day create one row", func(t *testing.T) {
		store := newFakeStore()
		r := New(store)
		r.now = fixedClock("2026-08-28")

		if err := r.RecordAnswer(true); err != nil {
			t.Fatalf("RecordAnswer failed: %v", err)
		}
		if err := r.RecordAnswer(true); err != nil {
			t.Fatalf("RecordAnswer failed: %v", err)
		}

		if len(store.stats) != 1 {
			t.Fatalf("Expected exactly one stat row, got %d", len(store.stats))
		}
		ds := store.stats["2026-08-28"]
		if ds.Correct != 2 || ds.Incorrect != 0 {
			t.Errorf("Expected counters {2 0}, got {%d %d}", ds.Correct, ds.Incorrect)
		}
	})

	t.Run("incorrect answer increments the existing row", func(t *testing.T) {
		store := newFakeStore()
		store.nextID = 9
		store.stats["2026-08-28"] = &domain.DailyStat{
			ID: 9, Correct: 3, Incorrect: 1, Date: "2026-08-28",
		}
		r := New(store)
		r.now = fixedClock("2026-08-28")

		if err := r.RecordAnswer(false); err != nil {
			t.Fatalf("RecordAnswer failed: %v", err)
		}

		if len(store.stats) != 1 {
			t.Fatalf("Expected no new row, got %d rows", len(store.stats))
		}
		ds := store.stats["2026-08-28"]
		if ds.ID != 9 {
			t.Errorf("Expected the same row identifier 9, got %d", ds.ID)
		}
		if ds.Correct != 3 || ds.Incorrect != 2 {
			t.Errorf("Expected counters {3 2}, got {%d %d}", ds.Correct, ds.Incorrect)
		}
	})

	t.Run("first incorrect answer of a day", func(t *testing.T) {
		store := newFakeStore()
		r := New(store)
		r.now = fixedClock("2026-08-29")

		if err := r.RecordAnswer(false); err != nil {
			t.Fatalf("RecordAnswer failed: %v", err)
		}
		ds := store.stats["2026-08-29"]
		if ds == nil || ds.Correct != 0 || ds.Incorrect != 1 {
			t.Errorf("Expected a {0 1} row for the day, got %+v", ds)
		}
	})

	t.Run("a new day gets its own row", func(t *testing.T) {
		store := newFakeStore()
		r := New(store)

		r.now = fixedClock("2026-08-28")
		if err := r.RecordAnswer(true); err != nil {
			t.Fatalf("RecordAnswer failed: %v", err)
		}
		r.now = fixedClock("2026-08-29")
		if err := r.RecordAnswer(true); err != nil {
			t.Fatalf("RecordAnswer failed: %v", err)
		}

		if len(store.stats) != 2 {
			t.Errorf("Expected one row per day, got %d rows", len(store.stats))
		}
	})

	t.Run("storage failure surfaces wrapped", func(t *testing.T) {
		store := newFakeStore()
		store.failWrite = true
		r := New(store)
		r.now = fixedClock("2026-08-28")

		if err := r.RecordAnswer(true); !errors.Is(err, errStorage) {
			t.Errorf("Expected the storage error to be wrapped, got %v", err)
		}
		if len(store.stats) != 0 {
			t.Error("Expected no partial state after a failed write")
		}
	})
}

func TestListDailyStats(t *testing.T) {
	t.Run("empty store yields an empty slice", func(t *testing.T) {
		r := New(newFakeStore())
		stats, err := r.ListDailyStats()
		if err != nil {
			t.Fatalf("ListDailyStats failed: %v", err)
		}
		if len(stats) != 0 {
			t.Errorf("Expected no stats, got %d", len(stats))
		}
	})

	t.Run("returns every day", func(t *testing.T) {
		store := newFakeStore()
		r := New(store)
		r.now = fixedClock("2026-08-28")
		if err := r.RecordAnswer(true); err != nil {
			t.Fatalf("RecordAnswer failed: %v", err)
		}
		r.now = fixedClock("2026-08-29")
		if err := r.RecordAnswer(false); err != nil {
			t.Fatalf("RecordAnswer failed: %v", err)
		}

		stats, err := r.ListDailyStats()
		if err != nil {
			t.Fatalf("ListDailyStats failed: %v", err)
		}
		if len(stats) != 2 {
			t.Errorf("Expected 2 stat rows, got %d", len(stats))
		}
	})
}
