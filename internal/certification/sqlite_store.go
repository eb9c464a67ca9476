package certification

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/wonny/quotecert/internal/contracts"
)

// 단일 노드 배포용 스키마, 시각은 UTC unix 초 (토큰과 동일한 정밀도)
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS certifications (
		id          TEXT PRIMARY KEY,
		grade       TEXT    NOT NULL CHECK (grade IN ('A', 'B', 'C', 'D', 'E')),
		final_score REAL    NOT NULL,
		issued_at   INTEGER NOT NULL,
		expires_at  INTEGER NOT NULL,
		token       TEXT    NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_certifications_expires_at ON certifications (expires_at)`,
}

// SQLiteStore persists records in a local SQLite file
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (or creates) the database file and applies the schema
func OpenSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// SQLite 는 단일 writer
	db.SetMaxOpenConns(1)

	for _, stmt := range append([]string{`PRAGMA busy_timeout = 5000`}, sqliteSchema...) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize sqlite schema: %w", err)
		}
	}

	return &SQLiteStore{db: db}, nil
}

var _ contracts.CertificationRepository = (*SQLiteStore)(nil)

// Save inserts a record; a duplicate id is rejected
func (s *SQLiteStore) Save(ctx context.Context, rec *contracts.CertificationRecord) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO certifications (id, grade, final_score, issued_at, expires_at, token)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING`,
		rec.ID, string(rec.Grade), rec.FinalScore, rec.IssuedAt.Unix(), rec.ExpiresAt.Unix(), rec.Token,
	)
	if err != nil {
		return fmt.Errorf("%w: failed to save certification: %v", contracts.ErrStoreUnavailable, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: failed to save certification: %v", contracts.ErrStoreUnavailable, err)
	}
	if n == 0 {
		return fmt.Errorf("certification %s already exists", rec.ID)
	}
	return nil
}

// Get retrieves a record by id
func (s *SQLiteStore) Get(ctx context.Context, id string) (*contracts.CertificationRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, grade, final_score, issued_at, expires_at, token
		FROM certifications
		WHERE id = ?`, id)

	rec, err := scanSQLiteRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("certification %s: %w", id, contracts.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get certification: %v", contracts.ErrStoreUnavailable, err)
	}
	return rec, nil
}

// ListExpiring returns records with from <= expires_at < to, soonest first
func (s *SQLiteStore) ListExpiring(ctx context.Context, from, to time.Time) ([]contracts.CertificationRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, grade, final_score, issued_at, expires_at, token
		FROM certifications
		WHERE expires_at >= ? AND expires_at < ?
		ORDER BY expires_at ASC`, from.Unix(), to.Unix())
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query expiring certifications: %v", contracts.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	records := make([]contracts.CertificationRecord, 0)
	for rows.Next() {
		rec, err := scanSQLiteRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan certification: %w", err)
		}
		records = append(records, *rec)
	}

	return records, rows.Err()
}

// Ping checks the database handle
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database handle
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func scanSQLiteRecord(row interface{ Scan(dest ...any) error }) (*contracts.CertificationRecord, error) {
	var rec contracts.CertificationRecord
	var grade string
	var issued, expires int64

	if err := row.Scan(&rec.ID, &grade, &rec.FinalScore, &issued, &expires, &rec.Token); err != nil {
		return nil, err
	}
	rec.Grade = contracts.Grade(grade)
	rec.IssuedAt = time.Unix(issued, 0).UTC()
	rec.ExpiresAt = time.Unix(expires, 0).UTC()

	return &rec, nil
}
