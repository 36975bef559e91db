package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS calendars (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			name        TEXT NOT NULL,
			owner       TEXT NOT NULL DEFAULT '',
			created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS tasks (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			calendar_id INTEGER NOT NULL REFERENCES calendars(id),
			topic       TEXT NOT NULL,
			tag         TEXT NOT NULL DEFAULT '',
			location    TEXT NOT NULL DEFAULT '',
			link        TEXT NOT NULL DEFAULT '',
			notes       TEXT NOT NULL DEFAULT '',
			task_date   DATE NOT NULL,
			start_time  TIME NOT NULL,
			end_time    TIME NOT NULL CHECK(end_time > start_time),
			created_by  TEXT NOT NULL DEFAULT '',
			updated_by  TEXT NOT NULL DEFAULT '',
			created_at  DATETIME NOT NULL,
			version     INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_tasks_calendar_date ON tasks(calendar_id, task_date);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}

	return nil
}
