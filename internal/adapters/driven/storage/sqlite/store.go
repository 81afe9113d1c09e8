// Package sqlite implements the profile store on a file-backed SQLite
// database.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/profiledex/profiledex-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/profiledex/profiledex-cli/internal/core/domain"
	"github.com/profiledex/profiledex-cli/internal/core/ports/driven"
)

// Ensure Store implements the port.
var _ driven.ProfileStore = (*Store)(nil)

// timeLayout is the ISO-8601 UTC form used for persisted timestamps.
const timeLayout = time.RFC3339

// Store is a SQLite-backed profile store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) a profile store at the given database path
// and runs pending migrations.
func NewStore(dbPath string) (*Store, error) {
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".profiledex", "data", "profiles.db")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	// WAL mode for better concurrency between the backfill writer and
	// query readers.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// OpenStore opens an existing store, failing with domain.ErrNotFound if
// the database file does not exist. Backfill and query require a store
// that the ingest step already created.
func OpenStore(dbPath string) (*Store, error) {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: profile database %s", domain.ErrNotFound, dbPath)
	}
	return NewStore(dbPath)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_resume_profiles.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}
		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Upsert inserts or overwrites a record by external id. The creation
// timestamp is preserved on update; the artifact reference is never
// touched here, only by AttachArtifact.
func (s *Store) Upsert(ctx context.Context, rec *domain.ProfileRecord) error {
	if rec.ExternalID == "" {
		return fmt.Errorf("%w: external id is required", domain.ErrInvalidInput)
	}

	now := time.Now().UTC().Format(timeLayout)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO resume_profiles (
			external_id, source_path, full_name, profile_json, extractor_tag, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(external_id) DO UPDATE SET
			source_path = excluded.source_path,
			full_name = excluded.full_name,
			profile_json = excluded.profile_json,
			extractor_tag = excluded.extractor_tag,
			updated_at = excluded.updated_at
	`, rec.ExternalID, rec.SourcePath, nullString(rec.FullName), rec.ProfileJSON,
		rec.ExtractorTag, now, now)
	if err != nil {
		return fmt.Errorf("upserting profile %s: %w", rec.ExternalID, err)
	}
	return nil
}

// SelectForBackfill returns records to (re-)embed, ordered by ascending
// internal id. The ordering is load-bearing: it determines the
// vector-to-record alignment inside the artifact built from this
// selection.
func (s *Store) SelectForBackfill(ctx context.Context, mode domain.BackfillMode) ([]domain.ProfileRecord, error) {
	var where string
	switch mode {
	case domain.BackfillFull:
	case domain.BackfillMissing:
		where = "WHERE artifact_path IS NULL"
	default:
		return nil, fmt.Errorf("%w: unknown backfill mode %q", domain.ErrInvalidInput, mode)
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, external_id, source_path, full_name, profile_json, extractor_tag,
		       artifact_path, created_at, updated_at
		FROM resume_profiles
		%s
		ORDER BY id ASC
	`, where))
	if err != nil {
		return nil, fmt.Errorf("querying profiles for backfill: %w", err)
	}
	defer rows.Close()

	var records []domain.ProfileRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating profiles: %w", err)
	}
	return records, nil
}

// AttachArtifact sets the artifact reference for exactly the given ids
// in one transaction. Unrelated records, including ones pointing at a
// different artifact, are never touched.
func (s *Store) AttachArtifact(ctx context.Context, ids []int64, artifactPath string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		UPDATE resume_profiles
		SET artifact_path = ?, updated_at = ?
		WHERE id = ?
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing update: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(timeLayout)
	var updated int64
	for _, id := range ids {
		res, err := stmt.ExecContext(ctx, artifactPath, now, id)
		if err != nil {
			return 0, fmt.Errorf("attaching artifact to record %d: %w", id, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("counting updated rows for record %d: %w", id, err)
		}
		updated += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing artifact attachment: %w", err)
	}
	return updated, nil
}

// LookupByArtifact returns identity rows tagged with the given artifact,
// ordered by ascending internal id. This must match the ordering of
// SelectForBackfill at build time; positions inside the artifact resolve
// to records purely by that shared order.
func (s *Store) LookupByArtifact(ctx context.Context, artifactPath string) ([]domain.ArtifactRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, external_id, full_name
		FROM resume_profiles
		WHERE artifact_path = ?
		ORDER BY id ASC
	`, artifactPath)
	if err != nil {
		return nil, fmt.Errorf("querying artifact rows: %w", err)
	}
	defer rows.Close()

	var out []domain.ArtifactRow //nolint:prealloc // size unknown from query
	for rows.Next() {
		var r domain.ArtifactRow
		var fullName sql.NullString
		if err := rows.Scan(&r.ID, &r.ExternalID, &fullName); err != nil {
			return nil, fmt.Errorf("scanning artifact row: %w", err)
		}
		r.FullName = fullName.String
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating artifact rows: %w", err)
	}
	return out, nil
}

// Get retrieves a record by external id.
func (s *Store) Get(ctx context.Context, externalID string) (*domain.ProfileRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, external_id, source_path, full_name, profile_json, extractor_tag,
		       artifact_path, created_at, updated_at
		FROM resume_profiles WHERE external_id = ?
	`, externalID)

	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: profile %s", domain.ErrNotFound, externalID)
	}
	return rec, err
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (*domain.ProfileRecord, error) {
	var rec domain.ProfileRecord
	var fullName, artifactPath sql.NullString
	var createdAt, updatedAt string

	if err := sc.Scan(&rec.ID, &rec.ExternalID, &rec.SourcePath, &fullName,
		&rec.ProfileJSON, &rec.ExtractorTag, &artifactPath, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning profile record: %w", err)
	}

	rec.FullName = fullName.String
	rec.ArtifactPath = artifactPath.String

	var err error
	if rec.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at for record %d: %w", rec.ID, err)
	}
	if rec.UpdatedAt, err = time.Parse(timeLayout, updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at for record %d: %w", rec.ID, err)
	}
	return &rec, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
