package store

import "database/sql"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS generations (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  code TEXT NOT NULL UNIQUE,
  created_at TEXT NOT NULL,
  active INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS sheets (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  generation_id INTEGER NOT NULL,
  generation_code TEXT NOT NULL,
  number INTEGER NOT NULL,
  status TEXT NOT NULL,
  sold_at TEXT,
  payload TEXT NOT NULL,
  fingerprint TEXT NOT NULL UNIQUE,
  created_at TEXT NOT NULL,
  UNIQUE(generation_id, number),
  FOREIGN KEY (generation_id) REFERENCES generations(id)
);

CREATE INDEX IF NOT EXISTS idx_generations_active ON generations(active);
CREATE INDEX IF NOT EXISTS idx_sheets_generation_number ON sheets(generation_id, number);
CREATE INDEX IF NOT EXISTS idx_sheets_generation_status ON sheets(generation_id, status);
`

func bootstrapSchema(db *sql.DB) error {
	_, err := db.Exec(schemaSQL)
	return err
}
