package main

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/mbriand/flashdeck/internal/config"
	"github.com/mbriand/flashdeck/internal/importer"
	"github.com/mbriand/flashdeck/internal/review"
	"github.com/mbriand/flashdeck/internal/storage"
	"github.com/mbriand/flashdeck/internal/weighting"
)

func main() {
	configFile := pflag.String("config", "", "Path to an optional YAML config file")
	pflag.String("db", "flashdeck.db", "Path to the SQLite database file")
	pflag.String("log-level", "info", "Log level (debug|info|warn|error)")
	pflag.String("repos-dir", "repos", "Directory git deck sources are checked out into")

	initDB := pflag.Bool("init", false, "Create the schema and seed the starter themes")
	addSource := pflag.String("add-source", "", "Register a deck source (local path or git URL)")
	themeID := pflag.Int64("theme", 0, "Theme the source's cards are imported under")
	runSync := pflag.Bool("sync", false, "Import cards from every registered source")
	answerCard := pflag.Int64("answer", 0, "Record an answer for the given card ID")
	correct := pflag.Bool("correct", false, "The answer was correct")
	wrong := pflag.Bool("wrong", false, "The answer was incorrect")
	showStats := pflag.Bool("stats", false, "Print the daily answer statistics")
	quiz := pflag.Int("quiz", 0, "Print N weighted-random cards for review")
	pflag.Parse()

	cfg, err := config.Load(*configFile, pflag.CommandLine)
	if err != nil {
		fmt.Fprintf(os.Stderr, "flashdeck: %v\n", err)
		os.Exit(1)
	}

	setupLogging(cfg.LogLevel)

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Debug("database opened", "path", cfg.DBPath)

	if *initDB {
		if err := db.Seed(); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
		fmt.Println("Database initialized.")
	}

	if *addSource != "" {
		if *themeID == 0 {
			fmt.Fprintln(os.Stderr, "flashdeck: --add-source requires --theme")
			os.Exit(1)
		}
		kind := sourceKind(*addSource)
		if _, err := db.InsertSource(*addSource, kind, *themeID); err != nil {
			slog.Error("failed to add source", "path", *addSource, "error", err)
			os.Exit(1)
		}
		fmt.Printf("Registered %s source %s under theme %d.\n", kind, *addSource, *themeID)
	}

	if *runSync {
		if err := importer.RunSync(db, cfg.ReposDir); err != nil {
			slog.Error("sync failed", "error", err)
			os.Exit(1)
		}
	}

	if *answerCard != 0 {
		if *correct == *wrong {
			fmt.Fprintln(os.Stderr, "flashdeck: --answer requires exactly one of --correct or --wrong")
			os.Exit(1)
		}
		if err := recordAnswer(db, *answerCard, *correct); err != nil {
			os.Exit(1)
		}
	}

	if *showStats {
		if err := printStats(db); err != nil {
			os.Exit(1)
		}
	}

	if *quiz > 0 {
		if err := printQuiz(db, *quiz); err != nil {
			os.Exit(1)
		}
	}
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}

// sourceKind guesses whether a source path is a git remote or a local
// directory.
func sourceKind(path string) string {
	if strings.HasSuffix(path, ".git") || strings.HasPrefix(path, "git@") || strings.HasPrefix(path, "https://") {
		return "git"
	}
	return "local"
}

// recordAnswer applies one answer event: the card's weight is adjusted and
// the day's tally is incremented.
func recordAnswer(db *storage.DB, cardID int64, correct bool) error {
	r := review.New(db)

	if err := r.AdjustCard(cardID, correct); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			fmt.Fprintf(os.Stderr, "flashdeck: no card with ID %d\n", cardID)
		case errors.Is(err, review.ErrWriteConflict):
			fmt.Fprintf(os.Stderr, "flashdeck: card %d changed underneath us, try again\n", cardID)
		default:
			slog.Error("failed to adjust card weight", "card", cardID, "error", err)
		}
		return err
	}

	if err := r.RecordAnswer(correct); err != nil {
		slog.Error("failed to record daily stats", "error", err)
		return err
	}
	return nil
}

func printStats(db *storage.DB) error {
	stats, err := review.New(db).ListDailyStats()
	if err != nil {
		slog.Error("failed to list stats", "error", err)
		return err
	}
	if len(stats) == 0 {
		fmt.Println("No statistics recorded yet.")
		return nil
	}
	for _, ds := range stats {
		fmt.Printf("%s  correct: %d  incorrect: %d\n", ds.Date, ds.Correct, ds.Incorrect)
	}
	return nil
}

// printQuiz picks n cards at random, biased by their selection weights,
// and prints them. Grading the answers is up to the reader.
func printQuiz(db *storage.DB, n int) error {
	cards, err := db.ListCards()
	if err != nil {
		slog.Error("failed to list cards", "error", err)
		return err
	}
	if len(cards) == 0 {
		fmt.Println("No cards yet. Add a source and run --sync.")
		return nil
	}

	weights := make([]float64, len(cards))
	for i, c := range cards {
		weights[i] = c.Weight
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	for i := 0; i < n; i++ {
		card := cards[weighting.Pick(rng, weights)]
		fmt.Printf("[%d] Q: %s\n    A: %s\n", card.ID, card.Question, card.Answer)
	}
	return nil
}
