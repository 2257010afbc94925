// Package mapstore persists map collections to sqlite grid files: one row
// per named array, grouped under a run ID. It is the only package that
// touches SQL; the map engine hands over a MapCollection and knows nothing
// about storage.
package mapstore

import (
	"database/sql"
	"fmt"
	"sort"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/plasmadyn/fluxgrid/internal/fcimaps"
	"github.com/plasmadyn/fluxgrid/internal/narray"
	"github.com/plasmadyn/fluxgrid/internal/timeutil"
)

// Store is a sqlite-backed grid file.
type Store struct {
	db    *sql.DB
	clock timeutil.Clock
}

// Open opens (creating if necessary) the grid file at path and applies any
// pending schema migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open grid file %s: %w", path, err)
	}
	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate grid file %s: %w", path, err)
	}
	return &Store{db: db, clock: timeutil.RealClock{}}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// RunMeta describes one stored map computation.
type RunMeta struct {
	RunID            string
	CreatedUnixNanos int64
	NX, NY, NZ       int
	NSlice           int
	RTol             float64
	Comment          string
	// LegacyNames stores diagnostic arrays under their legacy downstream
	// names (g_yy as g_22 and so on).
	LegacyNames bool
}

// WriteMaps stores a complete map collection as a new run and returns the
// run ID. Meta's shape fields are taken from the collection.
func (s *Store) WriteMaps(mc *fcimaps.MapCollection, meta RunMeta) (string, error) {
	runID := meta.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	created := meta.CreatedUnixNanos
	if created == 0 {
		created = s.clock.Now().UnixNano()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (run_id, created_unix_nanos, nx, ny, nz, nslice, rtol, comment)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, created, mc.NX, mc.NY, mc.NZ, len(mc.Slices())/2, meta.RTol, meta.Comment)
	if err != nil {
		return "", fmt.Errorf("insert run %s: %w", runID, err)
	}

	for _, name := range mc.Names() {
		a, _ := mc.Field(name)
		if err := insertArray(tx, runID, storedName(name, meta.LegacyNames), a); err != nil {
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return runID, nil
}

// WriteArrays attaches additional named arrays (field attributes, surfaces,
// upscaled fields) to an existing run.
func (s *Store) WriteArrays(runID string, arrays map[string]*narray.Array3D, legacy bool) error {
	names := make([]string, 0, len(arrays))
	for name := range arrays {
		names = append(names, name)
	}
	sort.Strings(names)

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, name := range names {
		if err := insertArray(tx, runID, storedName(name, legacy), arrays[name]); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func insertArray(tx *sql.Tx, runID, name string, a *narray.Array3D) error {
	blob, err := encodeArray(a)
	if err != nil {
		return fmt.Errorf("encode array %q: %w", name, err)
	}
	_, err = tx.Exec(
		`INSERT INTO arrays (run_id, name, nx, ny, nz, data) VALUES (?, ?, ?, ?, ?, ?)`,
		runID, name, a.NX, a.NY, a.NZ, blob)
	if err != nil {
		return fmt.Errorf("insert array %q: %w", name, err)
	}
	return nil
}

// ReadMaps loads a stored run back into a map collection, including any
// attached diagnostic arrays.
func (s *Store) ReadMaps(runID string) (*fcimaps.MapCollection, error) {
	var nx, ny, nz int
	err := s.db.QueryRow(`SELECT nx, ny, nz FROM runs WHERE run_id = ?`, runID).
		Scan(&nx, &ny, &nz)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", runID)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(
		`SELECT name, nx, ny, nz, data FROM arrays WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	mc := fcimaps.NewMapCollection(nx, ny, nz)
	for rows.Next() {
		var name string
		var ax, ay, az int
		var blob []byte
		if err := rows.Scan(&name, &ax, &ay, &az, &blob); err != nil {
			return nil, err
		}
		a, err := decodeArray(blob, ax, ay, az)
		if err != nil {
			return nil, fmt.Errorf("decode array %q: %w", name, err)
		}
		if err := mc.Add(name, a); err != nil {
			return nil, fmt.Errorf("run %s: %w", runID, err)
		}
	}
	return mc, rows.Err()
}

// ReadArray loads one named array from a run.
func (s *Store) ReadArray(runID, name string) (*narray.Array3D, error) {
	var nx, ny, nz int
	var blob []byte
	err := s.db.QueryRow(
		`SELECT nx, ny, nz, data FROM arrays WHERE run_id = ? AND name = ?`, runID, name).
		Scan(&nx, &ny, &nz, &blob)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("array %q not found in run %s", name, runID)
	}
	if err != nil {
		return nil, err
	}
	return decodeArray(blob, nx, ny, nz)
}

// ListRuns returns the stored runs, newest first.
func (s *Store) ListRuns() ([]RunMeta, error) {
	rows, err := s.db.Query(
		`SELECT run_id, created_unix_nanos, nx, ny, nz, nslice, rtol, comment
		 FROM runs ORDER BY created_unix_nanos DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunMeta
	for rows.Next() {
		var m RunMeta
		if err := rows.Scan(&m.RunID, &m.CreatedUnixNanos, &m.NX, &m.NY, &m.NZ,
			&m.NSlice, &m.RTol, &m.Comment); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
