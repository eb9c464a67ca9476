package certification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/quotecert/internal/contracts"
)

// PostgresStore persists records in cert.certifications
// ⭐ SSOT: 인증서 저장/조회는 여기서만 (Postgres 백엔드)
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new Postgres-backed store
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

var _ contracts.CertificationRepository = (*PostgresStore)(nil)

// Save inserts a record. Records are immutable; no upsert.
func (s *PostgresStore) Save(ctx context.Context, rec *contracts.CertificationRecord) error {
	query := `
		INSERT INTO cert.certifications (
			id, grade, final_score, issued_at, expires_at, token
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.pool.Exec(ctx, query,
		rec.ID, string(rec.Grade), rec.FinalScore, rec.IssuedAt, rec.ExpiresAt, rec.Token,
	)
	if err != nil {
		return fmt.Errorf("%w: failed to save certification: %v", contracts.ErrStoreUnavailable, err)
	}

	return nil
}

// Get retrieves a record by id
func (s *PostgresStore) Get(ctx context.Context, id string) (*contracts.CertificationRecord, error) {
	// UUID 형식이 아니면 조회할 필요 없음
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("certification %s: %w", id, contracts.ErrNotFound)
	}

	query := `
		SELECT id, grade, final_score, issued_at, expires_at, token
		FROM cert.certifications
		WHERE id = $1
	`

	rec, err := scanRecord(s.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("certification %s: %w", id, contracts.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get certification: %v", contracts.ErrStoreUnavailable, err)
	}

	return rec, nil
}

// ListExpiring returns records with from <= expires_at < to, soonest first
func (s *PostgresStore) ListExpiring(ctx context.Context, from, to time.Time) ([]contracts.CertificationRecord, error) {
	query := `
		SELECT id, grade, final_score, issued_at, expires_at, token
		FROM cert.certifications
		WHERE expires_at >= $1 AND expires_at < $2
		ORDER BY expires_at ASC
	`

	rows, err := s.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query expiring certifications: %v", contracts.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	records := make([]contracts.CertificationRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan certification: %w", err)
		}
		records = append(records, *rec)
	}

	return records, rows.Err()
}

func scanRecord(row pgx.Row) (*contracts.CertificationRecord, error) {
	var rec contracts.CertificationRecord
	var grade string

	if err := row.Scan(&rec.ID, &grade, &rec.FinalScore, &rec.IssuedAt, &rec.ExpiresAt, &rec.Token); err != nil {
		return nil, err
	}
	rec.Grade = contracts.Grade(grade)
	rec.IssuedAt = rec.IssuedAt.UTC()
	rec.ExpiresAt = rec.ExpiresAt.UTC()

	return &rec, nil
}
