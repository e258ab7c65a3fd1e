package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Filter type names stored in a profile.
const (
	FilterTypeMovingAverage = "moving_average"
	FilterTypeKalman        = "kalman"
)

// Profile is a named tuning preset: recognizer thresholds plus the
// smoothing filter selection. Exactly one profile may be active.
type Profile struct {
	ID                   string
	Name                 string
	Active               bool
	PinchThreshold       float64
	VHoldSeconds         float64
	PalmHoldSeconds      float64
	DoubleClickSeconds   float64
	SwipeThresholdX      float64
	SwipeDebounceSeconds float64
	FilterType           string
	FilterWindow         int
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// ProfileRepository provides CRUD operations for profiles.
type ProfileRepository struct {
	db *sql.DB
}

// Profiles returns the profile repository for this store.
func (s *Store) Profiles() *ProfileRepository {
	return &ProfileRepository{db: s.db}
}

const profileColumns = `id, name, active, pinch_threshold, v_hold_seconds,
	palm_hold_seconds, double_click_seconds, swipe_threshold_x,
	swipe_debounce_seconds, filter_type, filter_window, created_at, updated_at`

func scanProfile(row interface{ Scan(...any) error }) (*Profile, error) {
	p := &Profile{}
	err := row.Scan(
		&p.ID, &p.Name, &p.Active, &p.PinchThreshold, &p.VHoldSeconds,
		&p.PalmHoldSeconds, &p.DoubleClickSeconds, &p.SwipeThresholdX,
		&p.SwipeDebounceSeconds, &p.FilterType, &p.FilterWindow,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// Create inserts a new profile.
func (r *ProfileRepository) Create(p *Profile) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := r.db.Exec(
		`INSERT INTO profiles (id, name, active, pinch_threshold, v_hold_seconds,
			palm_hold_seconds, double_click_seconds, swipe_threshold_x,
			swipe_debounce_seconds, filter_type, filter_window, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Active, p.PinchThreshold, p.VHoldSeconds,
		p.PalmHoldSeconds, p.DoubleClickSeconds, p.SwipeThresholdX,
		p.SwipeDebounceSeconds, p.FilterType, p.FilterWindow,
		p.CreatedAt, p.UpdatedAt,
	)
	return err
}

// GetByID retrieves a profile by its ID.
func (r *ProfileRepository) GetByID(id string) (*Profile, error) {
	return scanProfile(r.db.QueryRow(
		`SELECT `+profileColumns+` FROM profiles WHERE id = ?`, id,
	))
}

// GetByName retrieves a profile by its name.
func (r *ProfileRepository) GetByName(name string) (*Profile, error) {
	return scanProfile(r.db.QueryRow(
		`SELECT `+profileColumns+` FROM profiles WHERE name = ?`, name,
	))
}

// GetActive retrieves the active profile, or ErrNotFound when no
// profile has been activated.
func (r *ProfileRepository) GetActive() (*Profile, error) {
	return scanProfile(r.db.QueryRow(
		`SELECT ` + profileColumns + ` FROM profiles WHERE active = 1`,
	))
}

// List retrieves all profiles, newest first.
func (r *ProfileRepository) List() ([]*Profile, error) {
	rows, err := r.db.Query(
		`SELECT ` + profileColumns + ` FROM profiles ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// Update saves changes to an existing profile.
func (r *ProfileRepository) Update(p *Profile) error {
	p.UpdatedAt = time.Now()

	res, err := r.db.Exec(
		`UPDATE profiles SET name = ?, pinch_threshold = ?, v_hold_seconds = ?,
			palm_hold_seconds = ?, double_click_seconds = ?, swipe_threshold_x = ?,
			swipe_debounce_seconds = ?, filter_type = ?, filter_window = ?,
			updated_at = ?
		 WHERE id = ?`,
		p.Name, p.PinchThreshold, p.VHoldSeconds,
		p.PalmHoldSeconds, p.DoubleClickSeconds, p.SwipeThresholdX,
		p.SwipeDebounceSeconds, p.FilterType, p.FilterWindow,
		p.UpdatedAt, p.ID,
	)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Activate marks the profile as active and deactivates every other
// one. The two updates run in a transaction so a crash cannot leave
// two active profiles behind.
func (r *ProfileRepository) Activate(id string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`UPDATE profiles SET active = 1, updated_at = ? WHERE id = ?`,
		time.Now(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}

	if _, err := tx.Exec(`UPDATE profiles SET active = 0 WHERE id != ?`, id); err != nil {
		return err
	}

	return tx.Commit()
}

// Delete removes a profile by ID.
func (r *ProfileRepository) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM profiles WHERE id = ?`, id)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Validate checks profile fields before persistence.
func (p *Profile) Validate() error {
	if p.Name == "" {
		return errors.New("profile name must not be empty")
	}
	if p.PinchThreshold <= 0 {
		return errors.New("pinch threshold must be positive")
	}
	if p.VHoldSeconds <= 0 || p.PalmHoldSeconds <= 0 {
		return errors.New("hold durations must be positive")
	}
	if p.DoubleClickSeconds <= 0 {
		return errors.New("double click window must be positive")
	}
	if p.SwipeThresholdX <= 0 {
		return errors.New("swipe threshold must be positive")
	}
	switch p.FilterType {
	case FilterTypeMovingAverage:
		if p.FilterWindow < 1 {
			return errors.New("filter window must be at least 1")
		}
	case FilterTypeKalman:
	default:
		return fmt.Errorf("unknown filter type %q", p.FilterType)
	}
	return nil
}
