// Package trackdb persists computed track analytics in SQLite so
// repeated loads skip recompute and stored tracks can be compared.
package trackdb

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/jbarrau/trackcurve"
)

// DB wraps the SQLite handle.
type DB struct {
	db *sql.DB
}

// Open opens (creating if needed) a track database at path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open track db: %w", err)
	}
	d := &DB{db: db}
	if err := d.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create track db schema: %w", err)
	}
	return d, nil
}

// Close releases the underlying handle.
func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) createTables() error {
	_, err := d.db.Exec(`
		CREATE TABLE IF NOT EXISTS tracks (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			source TEXT,
			start_time DATETIME,
			distance_km REAL,
			moving_seconds REAL,
			avg_power_w REAL,
			max_power_w REAL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS power_curve (
			track_id TEXT NOT NULL,
			label TEXT NOT NULL,
			seconds REAL NOT NULL,
			watts REAL,
			PRIMARY KEY (track_id, label),
			FOREIGN KEY (track_id) REFERENCES tracks(id)
		);
		CREATE INDEX IF NOT EXISTS idx_tracks_start_time ON tracks(start_time);
		CREATE INDEX IF NOT EXISTS idx_power_curve_label ON power_curve(label);
	`)
	return err
}

// TrackRecord is one stored track row.
type TrackRecord struct {
	ID            string
	Name          string
	Source        string
	StartTime     time.Time
	DistanceKM    float64
	MovingSeconds float64
	AvgPowerW     float64
	MaxPowerW     float64
	CreatedAt     time.Time
}

// BestEffort is the all-time best average power for one duration
// across every stored track.
type BestEffort struct {
	Label     string
	Seconds   float64
	Watts     float64
	TrackID   string
	TrackName string
}

// SaveTrack stores a track summary and its power curve (nil entries
// included, so "undeterminable" survives a round trip). Returns the
// generated track id.
func (d *DB) SaveTrack(s *trackcurve.Summary, curve trackcurve.PowerCurve) (string, error) {
	id := uuid.NewString()

	tx, err := d.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin save track: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO tracks (id, name, source, start_time, distance_km, moving_seconds, avg_power_w, max_power_w)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, s.Name, s.Source, s.StartTime, s.DistanceKM, s.MovingSeconds, s.AvgPowerWatts, s.MaxPowerWatts,
	)
	if err != nil {
		return "", fmt.Errorf("insert track: %w", err)
	}

	if curve != nil {
		stmt, err := tx.Prepare(`INSERT INTO power_curve (track_id, label, seconds, watts) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return "", fmt.Errorf("prepare curve insert: %w", err)
		}
		defer stmt.Close()

		for _, dur := range trackcurve.CurveDurations() {
			watts, ok := curve[dur.Label]
			if !ok {
				continue
			}
			if _, err := stmt.Exec(id, dur.Label, dur.Seconds, nullFloat(watts)); err != nil {
				return "", fmt.Errorf("insert curve entry %s: %w", dur.Label, err)
			}
		}
		if watts, ok := curve[trackcurve.TotalLabel]; ok {
			if _, err := stmt.Exec(id, trackcurve.TotalLabel, s.MovingSeconds, nullFloat(watts)); err != nil {
				return "", fmt.Errorf("insert curve entry %s: %w", trackcurve.TotalLabel, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit save track: %w", err)
	}
	return id, nil
}

// Track fetches one stored track by id.
func (d *DB) Track(id string) (*TrackRecord, error) {
	row := d.db.QueryRow(`
		SELECT id, name, source, start_time, distance_km, moving_seconds, avg_power_w, max_power_w, created_at
		FROM tracks WHERE id = ?`, id)
	rec, err := scanTrack(row)
	if err != nil {
		return nil, fmt.Errorf("load track %s: %w", id, err)
	}
	return rec, nil
}

// ListTracks returns stored tracks, most recent start first.
func (d *DB) ListTracks() ([]TrackRecord, error) {
	rows, err := d.db.Query(`
		SELECT id, name, source, start_time, distance_km, moving_seconds, avg_power_w, max_power_w, created_at
		FROM tracks ORDER BY start_time DESC`)
	if err != nil {
		return nil, fmt.Errorf("list tracks: %w", err)
	}
	defer rows.Close()

	var out []TrackRecord
	for rows.Next() {
		rec, err := scanTrack(rows)
		if err != nil {
			return nil, fmt.Errorf("scan track row: %w", err)
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// PowerCurve rebuilds the stored power curve for a track. Returns nil
// when the track had no curve rows.
func (d *DB) PowerCurve(trackID string) (trackcurve.PowerCurve, error) {
	rows, err := d.db.Query(`SELECT label, watts FROM power_curve WHERE track_id = ? ORDER BY seconds`, trackID)
	if err != nil {
		return nil, fmt.Errorf("load power curve %s: %w", trackID, err)
	}
	defer rows.Close()

	var curve trackcurve.PowerCurve
	for rows.Next() {
		var label string
		var watts sql.NullFloat64
		if err := rows.Scan(&label, &watts); err != nil {
			return nil, fmt.Errorf("scan curve row: %w", err)
		}
		if curve == nil {
			curve = trackcurve.PowerCurve{}
		}
		if watts.Valid {
			v := watts.Float64
			curve[label] = &v
		} else {
			curve[label] = nil
		}
	}
	return curve, rows.Err()
}

// BestEfforts returns, per duration label, the highest stored average
// power across all tracks, ordered by duration length.
func (d *DB) BestEfforts() ([]BestEffort, error) {
	rows, err := d.db.Query(`
		SELECT p.label, p.seconds, p.watts, t.id, t.name
		FROM power_curve p
		JOIN tracks t ON t.id = p.track_id
		WHERE p.watts IS NOT NULL
		  AND p.watts = (SELECT MAX(p2.watts) FROM power_curve p2 WHERE p2.label = p.label)
		GROUP BY p.label
		ORDER BY p.seconds`)
	if err != nil {
		return nil, fmt.Errorf("query best efforts: %w", err)
	}
	defer rows.Close()

	var out []BestEffort
	for rows.Next() {
		var be BestEffort
		if err := rows.Scan(&be.Label, &be.Seconds, &be.Watts, &be.TrackID, &be.TrackName); err != nil {
			return nil, fmt.Errorf("scan best effort: %w", err)
		}
		out = append(out, be)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrack(row rowScanner) (*TrackRecord, error) {
	var rec TrackRecord
	err := row.Scan(
		&rec.ID, &rec.Name, &rec.Source, &rec.StartTime,
		&rec.DistanceKM, &rec.MovingSeconds, &rec.AvgPowerW, &rec.MaxPowerW,
		&rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
