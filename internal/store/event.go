package store

import (
	"database/sql"
	"time"
)

// Event is one emitted gesture with the pointer position at the time.
type Event struct {
	ID        int64
	Gesture   string
	X         int
	Y         int
	CreatedAt time.Time
}

// EventRepository records and queries gesture history.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Insert appends an event and fills in its assigned ID.
func (r *EventRepository) Insert(e *Event) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	res, err := r.db.Exec(
		`INSERT INTO events (gesture, x, y, created_at) VALUES (?, ?, ?, ?)`,
		e.Gesture, e.X, e.Y, e.CreatedAt,
	)
	if err != nil {
		return err
	}

	e.ID, err = res.LastInsertId()
	return err
}

// ListRecent returns up to limit events, newest first.
func (r *EventRepository) ListRecent(limit int) ([]*Event, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(
		`SELECT id, gesture, x, y, created_at FROM events
		 ORDER BY created_at DESC, id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e := &Event{}
		if err := rows.Scan(&e.ID, &e.Gesture, &e.X, &e.Y, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// CountByGesture returns how many events exist per gesture name.
func (r *EventRepository) CountByGesture() (map[string]int, error) {
	rows, err := r.db.Query(
		`SELECT gesture, COUNT(*) FROM events GROUP BY gesture`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			return nil, err
		}
		counts[name] = n
	}
	return counts, rows.Err()
}

// Prune deletes events older than the cutoff and returns how many
// rows were removed.
func (r *EventRepository) Prune(olderThan time.Time) (int64, error) {
	res, err := r.db.Exec(`DELETE FROM events WHERE created_at < ?`, olderThan)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
