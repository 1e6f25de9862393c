// Package importer loads deck files from registered sources into the
// database, assigning new cards to the source's theme at the default weight.
package importer

import (
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/mbriand/flashdeck/internal/dedupe"
	"github.com/mbriand/flashdeck/internal/domain"
	"github.com/mbriand/flashdeck/internal/gitsource"
	"github.com/mbriand/flashdeck/internal/parser"
	"github.com/mbriand/flashdeck/internal/storage"
	"github.com/mbriand/flashdeck/internal/weighting"
)

// deckExtensions are the file suffixes scanned for cards.
var deckExtensions = []string{".md", ".txt"}

// Report summarizes one source's import.
type Report struct {
	Parsed   int // cards found in deck files
	Inserted int // cards new to the theme
	Skipped  int // cards already present (matching fingerprint)
	Errors   []error
}

// RunSync reconciles every registered source: git sources are cloned or
// pulled into reposDir first, then each source directory is imported.
// Cards already in the database are never touched; only unseen cards are
// inserted.
func RunSync(db *storage.DB, reposDir string) error {
	slog.Info("starting sync for all sources")
	sources, err := db.GetAllSources()
	if err != nil {
		return fmt.Errorf("failed to get sources: %w", err)
	}
	if len(sources) == 0 {
		slog.Info("no sources configured")
		return nil
	}

	for _, source := range sources {
		slog.Info("syncing source", "id", source.ID, "kind", source.Kind, "path", source.Path)

		dir := source.Path
		if source.Kind == "git" {
			localPath, err := gitURLToLocalPath(reposDir, source.Path)
			if err != nil {
				slog.Error("cannot determine local path for git source", "url", source.Path, "error", err)
				continue
			}
			if err := gitsource.Sync(source.Path, localPath); err != nil {
				slog.Error("failed to sync git source", "url", source.Path, "error", err)
				continue
			}
			dir = localPath
		}

		report, err := ImportDir(db, dir, source.ThemeID)
		if err != nil {
			slog.Error("failed to import source", "path", source.Path, "error", err)
			continue
		}

		if err := db.UpdateSourceLastScanned(source.ID); err != nil {
			slog.Warn("failed to update last scanned", "source", source.ID, "error", err)
		}

		slog.Info("source imported",
			"path", source.Path,
			"parsed", report.Parsed,
			"inserted", report.Inserted,
			"skipped", report.Skipped,
			"errors", len(report.Errors),
		)
	}

	slog.Info("sync complete")
	return nil
}

// ImportDir walks dir for deck files and inserts every card not already
// present in the theme. Presence is decided by content fingerprint, so
// re-importing the same deck is a no-op.
func ImportDir(db *storage.DB, dir string, themeID int64) (*Report, error) {
	if _, err := db.FindTheme(themeID); err != nil {
		return nil, fmt.Errorf("theme %d: %w", themeID, err)
	}

	existing, err := db.CardsByTheme(themeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing cards for theme %d: %w", themeID, err)
	}
	seen := make(map[string]bool, len(existing))
	for _, card := range existing {
		seen[dedupe.Fingerprint(card.Question, card.Answer)] = true
	}

	report := &Report{}
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isDeckFile(d.Name()) {
			return nil
		}

		drafts, parseErr := parser.ParseFile(path)
		if parseErr != nil {
			report.Errors = append(report.Errors, fmt.Errorf("parsing %s: %w", path, parseErr))
			return nil
		}
		report.Parsed += len(drafts)

		for _, draft := range drafts {
			fp := dedupe.Fingerprint(draft.Question, draft.Answer)
			if seen[fp] {
				report.Skipped++
				continue
			}
			_, insertErr := db.CreateCard(domain.Card{
				Question: draft.Question,
				Answer:   draft.Answer,
				Weight:   weighting.DefaultWeight,
				ThemeID:  themeID,
			})
			if insertErr != nil {
				report.Errors = append(report.Errors, fmt.Errorf("inserting card from %s: %w", path, insertErr))
				continue
			}
			seen[fp] = true
			report.Inserted++
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", dir, walkErr)
	}

	return report, nil
}

func isDeckFile(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range deckExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// gitURLToLocalPath maps a git URL to a stable checkout directory under
// baseDir, handling both https and scp-style ssh URLs.
func gitURLToLocalPath(baseDir, repoURL string) (string, error) {
	parsedURL, err := url.Parse(repoURL)
	if err != nil || (parsedURL.Scheme != "https" && parsedURL.Scheme != "http") {
		if strings.Contains(repoURL, "@") {
			parts := strings.Split(repoURL, ":")
			if len(parts) == 2 {
				hostAndUser := strings.Split(parts[0], "@")
				if len(hostAndUser) == 2 {
					host := hostAndUser[1]
					repoPath := strings.TrimSuffix(parts[1], ".git")
					return filepath.Join(baseDir, host, repoPath), nil
				}
			}
		}
		return "", fmt.Errorf("could not parse git URL: %s", repoURL)
	}

	sanitizedPath := strings.TrimSuffix(parsedURL.Path, ".git")
	return filepath.Join(baseDir, parsedURL.Host, sanitizedPath), nil
}
