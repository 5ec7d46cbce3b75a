package history

const schema = `
CREATE TABLE IF NOT EXISTS cycles (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    ran_at TEXT NOT NULL,
    authored_count INTEGER NOT NULL,
    review_count INTEGER NOT NULL,
    notifications_sent INTEGER NOT NULL,
    error_message TEXT,
    duration_ms INTEGER
);

CREATE TABLE IF NOT EXISTS snapshot (
    pr_id TEXT PRIMARY KEY,
    ci_status TEXT NOT NULL
);
`

func initSchema(s *Store) error {
	_, err := s.conn.Exec(schema)
	if err != nil {
		return err
	}
	return nil
}
