package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mbriand/flashdeck/internal/domain"
	_ "modernc.org/sqlite" // Registers the sqlite driver
)

// ErrNotFound is returned when a lookup by key matches no row.
var ErrNotFound = errors.New("not found")

// DateLayout is the format daily stat dates are stored in.
const DateLayout = "2006-01-02"

// DB represents a wrapper around the SQL database connection.
type DB struct {
	conn *sql.DB
}

// Open creates a new database connection and ensures the schema is up to date.
func Open(dsn string) (*DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// PRAGMA foreign_keys is per-connection; pinning the pool to a single
	// connection keeps it in force for every statement. This is a
	// single-user tool, so one connection is all we need anyway.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Execute the schema to create tables if they don't exist.
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &DB{conn: db}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Seed inserts the starter themes into an empty themes table. Calling it
// on a database that already has themes is a no-op.
func (db *DB) Seed() error {
	var count int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM themes`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count themes: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, name := range seedThemes {
		if _, err := db.conn.Exec(`INSERT INTO themes (name) VALUES (?)`, name); err != nil {
			return fmt.Errorf("failed to seed theme %q: %w", name, err)
		}
	}
	return nil
}

// CardWeight retrieves a card's current selection weight.
// It returns ErrNotFound when no card has the given ID.
func (db *DB) CardWeight(cardID int64) (float64, error) {
	var weight float64
	err := db.conn.QueryRow(`
		SELECT weight
		FROM cards WHERE id = ?
	`, cardID).Scan(&weight)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("failed to read weight for card %d: %w", cardID, err)
	}
	return weight, nil
}

// SetCardWeight persists a new selection weight for a card and reports how
// many rows the write touched. Zero means the card vanished between the
// caller's read and this write.
func (db *DB) SetCardWeight(cardID int64, weight float64) (int64, error) {
	res, err := db.conn.Exec(`
		UPDATE cards
		SET weight = ?
		WHERE id = ?
	`, weight, cardID)
	if err != nil {
		return 0, fmt.Errorf("failed to update weight for card %d: %w", cardID, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected for card %d: %w", cardID, err)
	}
	return rows, nil
}

// DailyStatByDate retrieves the stat row for a calendar day, or ErrNotFound
// when no answers have been recorded for that day yet.
func (db *DB) DailyStatByDate(date string) (*domain.DailyStat, error) {
	var ds domain.DailyStat
	err := db.conn.QueryRow(`
		SELECT id, correct, incorrect, date
		FROM stats WHERE date = ?
	`, date).Scan(&ds.ID, &ds.Correct, &ds.Incorrect, &ds.Date)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find stats for %s: %w", date, err)
	}
	return &ds, nil
}

// InsertDailyStat creates the first stat row of a day and returns its ID.
func (db *DB) InsertDailyStat(correct, incorrect int, date string) (int64, error) {
	res, err := db.conn.Exec(`
		INSERT INTO stats (correct, incorrect, date)
		VALUES (?, ?, ?)
	`, correct, incorrect, date)
	if err != nil {
		return 0, fmt.Errorf("failed to insert stats for %s: %w", date, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for stats %s: %w", date, err)
	}
	return id, nil
}

// UpdateDailyStat overwrites the counters on an existing stat row and
// reports how many rows the write touched.
func (db *DB) UpdateDailyStat(id int64, correct, incorrect int) (int64, error) {
	res, err := db.conn.Exec(`
		UPDATE stats
		SET correct = ?, incorrect = ?
		WHERE id = ?
	`, correct, incorrect, id)
	if err != nil {
		return 0, fmt.Errorf("failed to update stats row %d: %w", id, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected for stats row %d: %w", id, err)
	}
	return rows, nil
}

// ListDailyStats retrieves every daily stat row.
func (db *DB) ListDailyStats() ([]domain.DailyStat, error) {
	rows, err := db.conn.Query(`
		SELECT id, correct, incorrect, date
		FROM stats
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list stats: %w", err)
	}
	defer rows.Close()

	var stats []domain.DailyStat
	for rows.Next() {
		var ds domain.DailyStat
		if err := rows.Scan(&ds.ID, &ds.Correct, &ds.Incorrect, &ds.Date); err != nil {
			return nil, fmt.Errorf("failed to scan stats row: %w", err)
		}
		stats = append(stats, ds)
	}
	return stats, rows.Err()
}

// CreateTheme inserts a new theme and returns its ID.
func (db *DB) CreateTheme(name string) (int64, error) {
	res, err := db.conn.Exec(`
		INSERT INTO themes (name)
		VALUES (?)
	`, name)
	if err != nil {
		return 0, fmt.Errorf("failed to insert theme %q: %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for theme %q: %w", name, err)
	}
	return id, nil
}

// FindTheme retrieves a theme by ID, or ErrNotFound.
func (db *DB) FindTheme(id int64) (*domain.Theme, error) {
	var t domain.Theme
	err := db.conn.QueryRow(`
		SELECT id, name
		FROM themes WHERE id = ?
	`, id).Scan(&t.ID, &t.Name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find theme %d: %w", id, err)
	}
	return &t, nil
}

// UpdateTheme renames a theme. ErrNotFound when the theme does not exist.
func (db *DB) UpdateTheme(id int64, name string) error {
	res, err := db.conn.Exec(`
		UPDATE themes
		SET name = ?
		WHERE id = ?
	`, name, id)
	if err != nil {
		return fmt.Errorf("failed to update theme %d: %w", id, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected for theme %d: %w", id, err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTheme removes a theme. The foreign key constraint rejects the
// delete while any card still references the theme.
func (db *DB) DeleteTheme(id int64) error {
	_, err := db.conn.Exec(`
		DELETE FROM themes
		WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete theme %d: %w", id, err)
	}
	return nil
}

// ListThemes retrieves all themes.
func (db *DB) ListThemes() ([]domain.Theme, error) {
	rows, err := db.conn.Query(`
		SELECT id, name
		FROM themes
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list themes: %w", err)
	}
	defer rows.Close()

	var themes []domain.Theme
	for rows.Next() {
		var t domain.Theme
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("failed to scan theme row: %w", err)
		}
		themes = append(themes, t)
	}
	return themes, rows.Err()
}

// CreateCard inserts a new card and returns its ID.
func (db *DB) CreateCard(card domain.Card) (int64, error) {
	res, err := db.conn.Exec(`
		INSERT INTO cards (question, answer, weight, theme_id)
		VALUES (?, ?, ?, ?)
	`, card.Question, card.Answer, card.Weight, card.ThemeID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert card: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for card: %w", err)
	}
	return id, nil
}

// FindCard retrieves a card by ID, or ErrNotFound.
func (db *DB) FindCard(id int64) (*domain.Card, error) {
	var c domain.Card
	err := db.conn.QueryRow(`
		SELECT id, question, answer, weight, theme_id
		FROM cards WHERE id = ?
	`, id).Scan(&c.ID, &c.Question, &c.Answer, &c.Weight, &c.ThemeID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find card %d: %w", id, err)
	}
	return &c, nil
}

// UpdateCard overwrites every mutable field of a card.
func (db *DB) UpdateCard(card domain.Card) error {
	res, err := db.conn.Exec(`
		UPDATE cards
		SET question = ?, answer = ?, weight = ?, theme_id = ?
		WHERE id = ?
	`, card.Question, card.Answer, card.Weight, card.ThemeID, card.ID)
	if err != nil {
		return fmt.Errorf("failed to update card %d: %w", card.ID, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected for card %d: %w", card.ID, err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCard removes a card by ID.
func (db *DB) DeleteCard(id int64) error {
	_, err := db.conn.Exec(`
		DELETE FROM cards
		WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete card %d: %w", id, err)
	}
	return nil
}

// ListCards retrieves all cards.
func (db *DB) ListCards() ([]domain.Card, error) {
	return db.queryCards(`
		SELECT id, question, answer, weight, theme_id
		FROM cards
	`)
}

// CardsByTheme retrieves the cards belonging to one theme.
func (db *DB) CardsByTheme(themeID int64) ([]domain.Card, error) {
	return db.queryCards(`
		SELECT id, question, answer, weight, theme_id
		FROM cards WHERE theme_id = ?
	`, themeID)
}

// CountCards reports the total number of cards.
func (db *DB) CountCards() (int, error) {
	var count int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM cards`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count cards: %w", err)
	}
	return count, nil
}

func (db *DB) queryCards(query string, args ...any) ([]domain.Card, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cards: %w", err)
	}
	defer rows.Close()

	var cards []domain.Card
	for rows.Next() {
		var c domain.Card
		if err := rows.Scan(&c.ID, &c.Question, &c.Answer, &c.Weight, &c.ThemeID); err != nil {
			return nil, fmt.Errorf("failed to scan card row: %w", err)
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// Source represents a deck source, either a local path or a Git URL, whose
// cards are imported under a single theme.
type Source struct {
	ID          int64
	Path        string
	Kind        string // "local" or "git"
	ThemeID     int64
	LastScanned sql.NullTime
}

// InsertSource registers a new deck source and returns its ID.
func (db *DB) InsertSource(path, kind string, themeID int64) (int64, error) {
	res, err := db.conn.Exec(`
		INSERT INTO sources (path, kind, theme_id)
		VALUES (?, ?, ?)
	`, path, kind, themeID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert source %s: %w", path, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for source %s: %w", path, err)
	}
	return id, nil
}

// FindSourceByPath retrieves a source by its path, or ErrNotFound.
func (db *DB) FindSourceByPath(path string) (*Source, error) {
	var s Source
	err := db.conn.QueryRow(`
		SELECT id, path, kind, theme_id, last_scanned
		FROM sources WHERE path = ?
	`, path).Scan(&s.ID, &s.Path, &s.Kind, &s.ThemeID, &s.LastScanned)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find source by path %s: %w", path, err)
	}
	return &s, nil
}

// GetAllSources retrieves all registered deck sources.
func (db *DB) GetAllSources() ([]Source, error) {
	rows, err := db.conn.Query(`
		SELECT id, path, kind, theme_id, last_scanned
		FROM sources
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get all sources: %w", err)
	}
	defer rows.Close()

	var sources []Source
	for rows.Next() {
		var s Source
		if err := rows.Scan(&s.ID, &s.Path, &s.Kind, &s.ThemeID, &s.LastScanned); err != nil {
			return nil, fmt.Errorf("failed to scan source row: %w", err)
		}
		sources = append(sources, s)
	}
	return sources, rows.Err()
}

// UpdateSourceLastScanned updates the last_scanned timestamp for a source.
func (db *DB) UpdateSourceLastScanned(sourceID int64) error {
	_, err := db.conn.Exec(`
		UPDATE sources
		SET last_scanned = ?
		WHERE id = ?
	`, time.Now(), sourceID)
	if err != nil {
		return fmt.Errorf("failed to update last scanned for source ID %d: %w", sourceID, err)
	}
	return nil
}

// DeleteSource removes a registered source. Cards already imported from it
// are kept.
func (db *DB) DeleteSource(id int64) error {
	_, err := db.conn.Exec(`
		DELETE FROM sources
		WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete source %d: %w", id, err)
	}
	return nil
}
