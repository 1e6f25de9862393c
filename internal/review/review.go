// Package review applies answer outcomes to persistent state: it adjusts a
// card's selection weight and keeps the per-day answer tallies.
package review

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mbriand/flashdeck/internal/domain"
	"github.com/mbriand/flashdeck/internal/storage"
	"github.com/mbriand/flashdeck/internal/weighting"
)

// ErrWriteConflict is returned when a write touched zero rows where exactly
// one was expected: the row vanished between the read and the write. Nothing
// is applied in that case.
var ErrWriteConflict = errors.New("write conflict")

// Store is the persistence surface the reviewer needs. Lookups report a
// missing row with an error matching storage.ErrNotFound; writes report how
// many rows they touched. *storage.DB satisfies it.
type Store interface {
	CardWeight(cardID int64) (float64, error)
	SetCardWeight(cardID int64, weight float64) (int64, error)
	DailyStatByDate(date string) (*domain.DailyStat, error)
	InsertDailyStat(correct, incorrect int, date string) (int64, error)
	UpdateDailyStat(id int64, correct, incorrect int) (int64, error)
	ListDailyStats() ([]domain.DailyStat, error)
}

// Reviewer records answer outcomes against a Store.
type Reviewer struct {
	store Store
	now   func() time.Time
}

// New creates a Reviewer backed by the given store.
func New(store Store) *Reviewer {
	return &Reviewer{
		store: store,
		now:   time.Now,
	}
}

// AdjustCard recomputes and persists a card's selection weight after an
// answer: a correct answer decays it toward the floor, an incorrect one
// grows it toward the ceiling, clamped into [0.1, 1.0] either way.
//
// It returns an error matching storage.ErrNotFound when the card does not
// exist (no write is attempted), ErrWriteConflict when the card vanished
// between the read and the write, and the wrapped storage error otherwise.
func (r *Reviewer) AdjustCard(cardID int64, correct bool) error {
	current, err := r.store.CardWeight(cardID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("card %d: %w", cardID, err)
		}
		return fmt.Errorf("failed to read weight for card %d: %w", cardID, err)
	}

	next := weighting.Next(current, correct)

	rows, err := r.store.SetCardWeight(cardID, next)
	if err != nil {
		return fmt.Errorf("failed to write weight for card %d: %w", cardID, err)
	}
	if rows == 0 {
		return fmt.Errorf("card %d: %w", cardID, ErrWriteConflict)
	}

	direction := "grown"
	if correct {
		direction = "decayed"
	}
	slog.Info("card weight adjusted",
		"card", cardID,
		"old", fmt.Sprintf("%.3f", current),
		"new", fmt.Sprintf("%.3f", next),
		"direction", direction,
	)
	return nil
}

// RecordAnswer folds one answer outcome into today's tally, creating the
// day's row on the first answer of the day. The day boundary is the local
// calendar date at call time.
func (r *Reviewer) RecordAnswer(correct bool) error {
	today := r.now().Format(storage.DateLayout)

	ds, err := r.store.DailyStatByDate(today)
	switch {
	case err == nil:
		if correct {
			ds.Correct++
		} else {
			ds.Incorrect++
		}
		rows, err := r.store.UpdateDailyStat(ds.ID, ds.Correct, ds.Incorrect)
		if err != nil {
			return fmt.Errorf("failed to update stats for %s: %w", today, err)
		}
		if rows == 0 {
			return fmt.Errorf("stats for %s: %w", today, ErrWriteConflict)
		}
		slog.Info("daily stats updated",
			"date", today,
			"correct", ds.Correct,
			"incorrect", ds.Incorrect,
		)
		return nil

	case errors.Is(err, storage.ErrNotFound):
		correctCount, incorrectCount := 0, 1
		if correct {
			correctCount, incorrectCount = 1, 0
		}
		if _, err := r.store.InsertDailyStat(correctCount, incorrectCount, today); err != nil {
			return fmt.Errorf("failed to create stats for %s: %w", today, err)
		}
		slog.Info("daily stats created",
			"date", today,
			"correct", correctCount,
			"incorrect", incorrectCount,
		)
		return nil

	default:
		return fmt.Errorf("failed to look up stats for %s: %w", today, err)
	}
}

// ListDailyStats returns every day's tally, in no particular order. An empty
// store yields an empty slice, not an error.
func (r *Reviewer) ListDailyStats() ([]domain.DailyStat, error) {
	stats, err := r.store.ListDailyStats()
	if err != nil {
		return nil, fmt.Errorf("failed to list daily stats: %w", err)
	}
	return stats, nil
}
