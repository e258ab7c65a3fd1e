package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Profiles table - named tuning presets for the recognizer
		// and the smoothing filter. At most one row has active = 1.
		`CREATE TABLE IF NOT EXISTS profiles (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			active INTEGER NOT NULL DEFAULT 0,
			pinch_threshold REAL NOT NULL DEFAULT 0.06,
			v_hold_seconds REAL NOT NULL DEFAULT 0.4,
			palm_hold_seconds REAL NOT NULL DEFAULT 0.8,
			double_click_seconds REAL NOT NULL DEFAULT 0.3,
			swipe_threshold_x REAL NOT NULL DEFAULT 0.07,
			swipe_debounce_seconds REAL NOT NULL DEFAULT 0.5,
			filter_type TEXT NOT NULL DEFAULT 'moving_average'
				CHECK(filter_type IN ('moving_average', 'kalman')),
			filter_window INTEGER NOT NULL DEFAULT 5,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Events table - history of emitted gestures with the pointer
		// position at the time. Pruned on a rolling basis.
		`CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			gesture TEXT NOT NULL,
			x INTEGER NOT NULL,
			y INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Settings table - application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_events_created_at ON events(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_events_gesture ON events(gesture)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
