// Package results persists sweep summaries in a SQLite database.
// Only final per-rho statistics are stored, never in-flight simulation state.
package results

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/lps-sim/lps-sim/sim/experiment"
)

// ErrNotFound is returned when a sweep ID does not exist.
var ErrNotFound = errors.New("sweep not found")

// Sweep is one stored sweep: its configuration and, when loaded with
// GetSweep, its per-rho results in sweep order.
type Sweep struct {
	ID           int64
	CreatedAt    time.Time
	NumServers   int
	NumJobs      int64
	Seed         uint64
	Replications int
	Distribution string
	Results      []experiment.Result
}

// Store is a SQLite-backed sweep store.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the database at path and initializes its schema.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite works best with single writer

	if err := InitSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveSweep stores spec and its results in one transaction and returns the
// new sweep ID.
func (s *Store) SaveSweep(ctx context.Context, spec *experiment.Spec, results []experiment.Result) (int64, error) {
	dist, err := spec.Dist()
	if err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO sweeps (created_at, num_servers, num_jobs, seed, replications, distribution)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		s.now().UTC().Format(time.RFC3339Nano), spec.NumServers, spec.NumJobs,
		strconv.FormatUint(spec.Seed, 10), spec.Replications, dist.String())
	if err != nil {
		return 0, fmt.Errorf("failed to insert sweep: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read sweep id: %w", err)
	}

	for i, r := range results {
		reps, err := json.Marshal(r.Replications)
		if err != nil {
			return 0, fmt.Errorf("failed to encode replications: %w", err)
		}
		ps := sql.NullFloat64{Float64: r.PSReference, Valid: !math.IsInf(r.PSReference, 0)}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sweep_results (sweep_id, idx, rho, mean_response, std_dev, ci_half_width, ps_reference, replications)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id, i, r.Rho, r.MeanResponse, r.StdDev, r.CIHalfWidth, ps, string(reps)); err != nil {
			return 0, fmt.Errorf("failed to insert result for rho=%v: %w", r.Rho, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit sweep: %w", err)
	}
	return id, nil
}

const sweepColumns = `id, created_at, num_servers, num_jobs, seed, replications, distribution`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSweep(row rowScanner) (Sweep, error) {
	var (
		sw        Sweep
		createdAt string
		seed      string
	)
	if err := row.Scan(&sw.ID, &createdAt, &sw.NumServers, &sw.NumJobs, &seed, &sw.Replications, &sw.Distribution); err != nil {
		return Sweep{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Sweep{}, fmt.Errorf("sweep %d: bad created_at %q: %w", sw.ID, createdAt, err)
	}
	sw.CreatedAt = t
	if sw.Seed, err = strconv.ParseUint(seed, 10, 64); err != nil {
		return Sweep{}, fmt.Errorf("sweep %d: bad seed %q: %w", sw.ID, seed, err)
	}
	return sw, nil
}

// GetSweep loads one sweep and its results.
func (s *Store) GetSweep(ctx context.Context, id int64) (*Sweep, error) {
	sw, err := scanSweep(s.db.QueryRowContext(ctx, `SELECT `+sweepColumns+` FROM sweeps WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load sweep %d: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT rho, mean_response, std_dev, ci_half_width, ps_reference, replications
		 FROM sweep_results WHERE sweep_id = ? ORDER BY idx`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query results of sweep %d: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			r    experiment.Result
			ps   sql.NullFloat64
			reps string
		)
		if err := rows.Scan(&r.Rho, &r.MeanResponse, &r.StdDev, &r.CIHalfWidth, &ps, &reps); err != nil {
			return nil, fmt.Errorf("failed to scan result of sweep %d: %w", id, err)
		}
		r.PSReference = math.Inf(1)
		if ps.Valid {
			r.PSReference = ps.Float64
		}
		if err := json.Unmarshal([]byte(reps), &r.Replications); err != nil {
			return nil, fmt.Errorf("failed to decode replications of sweep %d: %w", id, err)
		}
		sw.Results = append(sw.Results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &sw, nil
}

// ListRecent returns up to limit sweeps, newest first, without their results.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]Sweep, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sweepColumns+` FROM sweeps ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sweeps: %w", err)
	}
	defer rows.Close()

	var sweeps []Sweep
	for rows.Next() {
		sw, err := scanSweep(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sweep: %w", err)
		}
		sweeps = append(sweeps, sw)
	}
	return sweeps, rows.Err()
}
