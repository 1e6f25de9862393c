package storage

const schema = `
-- The 'themes' table groups cards by topic.
CREATE TABLE IF NOT EXISTS themes (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL
);

-- The 'cards' table stores each flashcard together with its selection weight.
CREATE TABLE IF NOT EXISTS cards (
    id INTEGER PRIMARY KEY,
    question TEXT NOT NULL,
    answer TEXT NOT NULL,
    weight REAL NOT NULL,
    theme_id INTEGER,

    FOREIGN KEY(theme_id) REFERENCES themes(id) ON DELETE RESTRICT
);

-- The 'stats' table holds one row of answer tallies per calendar day.
-- The UNIQUE date makes a raced duplicate insert fail instead of silently
-- forking the day into two rows.
CREATE TABLE IF NOT EXISTS stats (
    id INTEGER PRIMARY KEY,
    correct INTEGER NOT NULL,
    incorrect INTEGER NOT NULL,
    date TEXT NOT NULL UNIQUE
);

-- The 'sources' table tracks where decks are imported from, either a local
-- directory or a git repository, and which theme their cards land under.
CREATE TABLE IF NOT EXISTS sources (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    path TEXT NOT NULL UNIQUE,
    kind TEXT NOT NULL,
    theme_id INTEGER,
    last_scanned DATETIME,

    FOREIGN KEY(theme_id) REFERENCES themes(id) ON DELETE RESTRICT
);
`

// seedThemes are the starter topics inserted into an empty database.
var seedThemes = []string{
	"Python",
	"SQL",
	"Git",
	"Machine Learning",
	"Deep Learning",
	"Data Visualisation",
}
