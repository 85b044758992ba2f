package chainstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/sedfit/mbbfit/internal/fit"
)

// DBFileName is the SQLite database file name inside the store directory.
const DBFileName = "mbbfit.db"

// ChainDB provides SQLite-based storage for fit results and posterior
// chains. It manages connection pooling and provides methods for CRUD
// operations.
//
// Design decision: We use a single database file for all targets rather
// than one file per target. This keeps history queries across targets
// cheap and simplifies backup/restore operations.
type ChainDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures ChainDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a ChainDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*ChainDB, error) {
	dbPath := filepath.Join(dbDir, DBFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating new
	// files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; a single pooled connection avoids
	// SQLITE_BUSY under concurrent use.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &ChainDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := cdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

// Close closes the database connection.
func (cdb *ChainDB) Close() error {
	return cdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (cdb *ChainDB) createTables() error {
	schema := `
	-- One row per completed fit
	CREATE TABLE IF NOT EXISTS fits (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		target TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		variant TEXT NOT NULL,
		redshift REAL NOT NULL,
		log_luminosity REAL NOT NULL,
		log_amplitude REAL NOT NULL,
		temperature REAL NOT NULL,
		beta REAL NOT NULL,
		dim INTEGER NOT NULL,
		walkers INTEGER NOT NULL,
		production_steps INTEGER NOT NULL,
		summary_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_fits_target ON fits(target);
	CREATE INDEX IF NOT EXISTS idx_fits_timestamp ON fits(timestamp);

	-- Flattened posterior chain, one row per recorded walker position
	CREATE TABLE IF NOT EXISTS samples (
		fit_id INTEGER NOT NULL REFERENCES fits(id) ON DELETE CASCADE,
		idx INTEGER NOT NULL,
		log_amplitude REAL NOT NULL,
		temperature REAL NOT NULL,
		beta REAL,
		PRIMARY KEY (fit_id, idx)
	) WITHOUT ROWID;

	-- Final ensemble state, one row per walker
	CREATE TABLE IF NOT EXISTS walkers (
		fit_id INTEGER NOT NULL REFERENCES fits(id) ON DELETE CASCADE,
		idx INTEGER NOT NULL,
		log_amplitude REAL NOT NULL,
		temperature REAL NOT NULL,
		beta REAL,
		log_prob REAL NOT NULL,
		PRIMARY KEY (fit_id, idx)
	) WITHOUT ROWID;
	`

	_, err := cdb.db.ExecContext(context.Background(), schema)
	return err
}

// FitRecord represents a stored fit result.
type FitRecord struct {
	ID              int64
	Target          string
	Timestamp       time.Time
	Variant         string
	Redshift        float64
	LogLuminosity   float64
	LogAmplitude    float64
	Temperature     float64
	Beta            float64
	Dim             int
	Walkers         int
	ProductionSteps int
	Summary         []fit.Quantiles
}

// SaveFit stores a fit record together with its posterior chain and the
// final ensemble state (one position and log-posterior per walker), and
// returns the new record's database ID. Everything is written in one
// transaction so a failed save leaves no partial fit. final and
// finalLogProb must be the same length; both may be empty.
func (cdb *ChainDB) SaveFit(ctx context.Context, rec *FitRecord, chain, final [][]float64, finalLogProb []float64) (int64, error) {
	if len(final) != len(finalLogProb) {
		return 0, fmt.Errorf("final state has %d positions but %d log-probabilities", len(final), len(finalLogProb))
	}

	summaryJSON, err := json.Marshal(rec.Summary)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize summary: %w", err)
	}

	tx, err := cdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after Commit

	result, err := tx.ExecContext(ctx, `
	INSERT INTO fits (target, variant, redshift, log_luminosity, log_amplitude,
		temperature, beta, dim, walkers, production_steps, summary_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.Target,
		rec.Variant,
		rec.Redshift,
		rec.LogLuminosity,
		rec.LogAmplitude,
		rec.Temperature,
		rec.Beta,
		rec.Dim,
		rec.Walkers,
		rec.ProductionSteps,
		string(summaryJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert fit record: %w", err)
	}

	fitID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read fit id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO samples (fit_id, idx, log_amplitude, temperature, beta)
	VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare sample insert: %w", err)
	}
	defer stmt.Close() //nolint:errcheck // Read-only cleanup

	for i, row := range chain {
		if len(row) < 2 {
			return 0, fmt.Errorf("chain row %d has %d dimensions, want at least 2", i, len(row))
		}
		beta := sql.NullFloat64{}
		if len(row) > 2 {
			beta = sql.NullFloat64{Float64: row[2], Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, fitID, i, row[0], row[1], beta); err != nil {
			return 0, fmt.Errorf("failed to insert sample %d: %w", i, err)
		}
	}

	walkerStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO walkers (fit_id, idx, log_amplitude, temperature, beta, log_prob)
	VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare walker insert: %w", err)
	}
	defer walkerStmt.Close() //nolint:errcheck // Read-only cleanup

	for i, row := range final {
		if len(row) < 2 {
			return 0, fmt.Errorf("walker row %d has %d dimensions, want at least 2", i, len(row))
		}
		beta := sql.NullFloat64{}
		if len(row) > 2 {
			beta = sql.NullFloat64{Float64: row[2], Valid: true}
		}
		if _, err := walkerStmt.ExecContext(ctx, fitID, i, row[0], row[1], beta, finalLogProb[i]); err != nil {
			return 0, fmt.Errorf("failed to insert walker %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit fit: %w", err)
	}
	return fitID, nil
}

// GetFit retrieves a fit record by its database ID.
// Returns nil without error when no record exists.
func (cdb *ChainDB) GetFit(ctx context.Context, id int64) (*FitRecord, error) {
	row := cdb.db.QueryRowContext(ctx, `
	SELECT id, target, timestamp, variant, redshift, log_luminosity,
		log_amplitude, temperature, beta, dim, walkers, production_steps, summary_json
	FROM fits
	WHERE id = ?
	`, id)

	rec, err := scanFitRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return rec, err
}

// LatestFit retrieves the most recent fit for a target.
// Returns nil without error when the target has no fits.
func (cdb *ChainDB) LatestFit(ctx context.Context, target string) (*FitRecord, error) {
	row := cdb.db.QueryRowContext(ctx, `
	SELECT id, target, timestamp, variant, redshift, log_luminosity,
		log_amplitude, temperature, beta, dim, walkers, production_steps, summary_json
	FROM fits
	WHERE target = ?
	ORDER BY timestamp DESC, id DESC
	LIMIT 1
	`, target)

	rec, err := scanFitRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return rec, err
}

// ListFits returns all fit records for a target ordered newest first.
// An empty target lists every stored fit.
func (cdb *ChainDB) ListFits(ctx context.Context, target string) ([]FitRecord, error) {
	query := `
	SELECT id, target, timestamp, variant, redshift, log_luminosity,
		log_amplitude, temperature, beta, dim, walkers, production_steps, summary_json
	FROM fits
	`
	args := make([]any, 0, 1)
	if target != "" {
		query += " WHERE target = ?"
		args = append(args, target)
	}
	query += " ORDER BY timestamp DESC, id DESC"

	rows, err := cdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list fits: %w", err)
	}
	defer rows.Close()

	var results []FitRecord
	for rows.Next() {
		rec, err := scanFitRecord(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *rec)
	}
	return results, rows.Err()
}

// ListTargets returns the distinct targets that have stored fits.
func (cdb *ChainDB) ListTargets(ctx context.Context) ([]string, error) {
	rows, err := cdb.db.QueryContext(ctx, `
	SELECT DISTINCT target FROM fits
	ORDER BY target
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list targets: %w", err)
	}
	defer rows.Close()

	var targets []string
	for rows.Next() {
		var target string
		if err := rows.Scan(&target); err != nil {
			return nil, fmt.Errorf("failed to scan target: %w", err)
		}
		targets = append(targets, target)
	}
	return targets, rows.Err()
}

// LoadChain retrieves the full posterior chain of a fit in insertion
// order. The row width matches the fit's sampled dimensionality.
func (cdb *ChainDB) LoadChain(ctx context.Context, fitID int64) ([][]float64, error) {
	rows, err := cdb.db.QueryContext(ctx, `
	SELECT log_amplitude, temperature, beta FROM samples
	WHERE fit_id = ?
	ORDER BY idx
	`, fitID)
	if err != nil {
		return nil, fmt.Errorf("failed to load chain: %w", err)
	}
	defer rows.Close()

	var chain [][]float64
	for rows.Next() {
		var logAmp, temperature float64
		var beta sql.NullFloat64
		if err := rows.Scan(&logAmp, &temperature, &beta); err != nil {
			return nil, fmt.Errorf("failed to scan sample: %w", err)
		}
		row := []float64{logAmp, temperature}
		if beta.Valid {
			row = append(row, beta.Float64)
		}
		chain = append(chain, row)
	}
	return chain, rows.Err()
}

// LoadWalkers retrieves the final ensemble state of a fit: each walker's
// position and log-posterior after the last production step, in walker
// order. The row width matches the fit's sampled dimensionality.
func (cdb *ChainDB) LoadWalkers(ctx context.Context, fitID int64) ([][]float64, []float64, error) {
	rows, err := cdb.db.QueryContext(ctx, `
	SELECT log_amplitude, temperature, beta, log_prob FROM walkers
	WHERE fit_id = ?
	ORDER BY idx
	`, fitID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load walkers: %w", err)
	}
	defer rows.Close()

	var positions [][]float64
	var logProbs []float64
	for rows.Next() {
		var logAmp, temperature, logProb float64
		var beta sql.NullFloat64
		if err := rows.Scan(&logAmp, &temperature, &beta, &logProb); err != nil {
			return nil, nil, fmt.Errorf("failed to scan walker: %w", err)
		}
		row := []float64{logAmp, temperature}
		if beta.Valid {
			row = append(row, beta.Float64)
		}
		positions = append(positions, row)
		logProbs = append(logProbs, logProb)
	}
	return positions, logProbs, rows.Err()
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanFitRecord reads one fits row into a FitRecord.
func scanFitRecord(row rowScanner) (*FitRecord, error) {
	var rec FitRecord
	var timestamp string
	var summaryJSON string

	err := row.Scan(
		&rec.ID,
		&rec.Target,
		&timestamp,
		&rec.Variant,
		&rec.Redshift,
		&rec.LogLuminosity,
		&rec.LogAmplitude,
		&rec.Temperature,
		&rec.Beta,
		&rec.Dim,
		&rec.Walkers,
		&rec.ProductionSteps,
		&summaryJSON,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan fit record: %w", err)
	}

	rec.Timestamp = parseTimestamp(timestamp)
	if summaryJSON != "" {
		if err := json.Unmarshal([]byte(summaryJSON), &rec.Summary); err != nil {
			return nil, fmt.Errorf("failed to parse summary: %w", err)
		}
	}
	return &rec, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
