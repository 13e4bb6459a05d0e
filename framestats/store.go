// store.go
//
// SQLite sink for frame telemetry. Each Persist call appends one snapshot
// row, so a table accumulates per-run history that survives restarts and
// can be compared across scheduler changes. Strictly cold path: the driver
// flushes after frames have drained, never while workers are searching.

package framestats

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const createFramesTable = `
CREATE TABLE IF NOT EXISTS frames (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	recorded_at      INTEGER NOT NULL,
	frames           INTEGER NOT NULL,
	jobs             INTEGER NOT NULL,
	steals           INTEGER NOT NULL,
	steal_misses     INTEGER NOT NULL,
	arena_high_water INTEGER NOT NULL,
	last_frame_ns    INTEGER NOT NULL
)`

// Store persists telemetry snapshots into a SQLite database.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if necessary) the database at path and
// ensures the frames table exists. Use ":memory:" for tests.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(createFramesTable); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Persist appends one snapshot row stamped with the current wall clock.
func (s *Store) Persist(snap Snapshot) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	_, err = tx.Exec(
		`INSERT INTO frames
		 (recorded_at, frames, jobs, steals, steal_misses, arena_high_water, last_frame_ns)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		time.Now().UnixNano(),
		int64(snap.Frames),
		int64(snap.Jobs),
		int64(snap.Steals),
		int64(snap.StealMisses),
		int64(snap.ArenaHighWater),
		snap.LastFrameNs,
	)
	if err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Totals aggregates every persisted snapshot: summed counters plus the
// high-water mark across all recorded runs.
func (s *Store) Totals() (Snapshot, error) {
	row := s.db.QueryRow(
		`SELECT COALESCE(SUM(frames), 0),
		        COALESCE(SUM(jobs), 0),
		        COALESCE(SUM(steals), 0),
		        COALESCE(SUM(steal_misses), 0),
		        COALESCE(MAX(arena_high_water), 0),
		        COALESCE(MAX(last_frame_ns), 0)
		 FROM frames`)
	var out Snapshot
	var frames, jobs, steals, misses, hw, last int64
	if err := row.Scan(&frames, &jobs, &steals, &misses, &hw, &last); err != nil {
		return Snapshot{}, err
	}
	out.Frames = uint64(frames)
	out.Jobs = uint64(jobs)
	out.Steals = uint64(steals)
	out.StealMisses = uint64(misses)
	out.ArenaHighWater = uint64(hw)
	out.LastFrameNs = last
	return out, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
